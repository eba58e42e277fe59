package appconfig

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ToolName is the fixed vocabulary of agent tools.
type ToolName string

const (
	ToolDataset         ToolName = "dataset"
	ToolGoogleSearch    ToolName = "google_search"
	ToolWebReader       ToolName = "web_reader"
	ToolWikipedia       ToolName = "wikipedia"
	ToolCurrentDatetime ToolName = "current_datetime"
)

var supportedTools = map[ToolName]bool{
	ToolDataset:         true,
	ToolGoogleSearch:    true,
	ToolWebReader:       true,
	ToolWikipedia:       true,
	ToolCurrentDatetime: true,
}

// ToolEntry is one agent tool configuration. On the wire it is a single-key
// object keyed by the tool name. DatasetID is set for the dataset tool only
// and always holds a syntactically valid UUID after decoding; whether it
// references a dataset the tenant can see is checked by the validator.
type ToolEntry struct {
	Name      ToolName
	Enabled   bool
	DatasetID string
}

func decodeToolEntry(item map[string]any) (ToolEntry, error) {
	if len(item) != 1 {
		return ToolEntry{}, schemaErr("agent_mode.tools",
			"items in agent_mode.tools must be objects with a single tool key")
	}

	var tag string
	var rawBody any
	for k, v := range item {
		tag, rawBody = k, v
	}

	if !supportedTools[ToolName(tag)] {
		return ToolEntry{}, schemaErr("agent_mode.tools",
			"Keys in agent_mode.tools must be in the specified tool list")
	}

	body, ok := rawBody.(map[string]any)
	if !ok {
		return ToolEntry{}, schemaErr("agent_mode.tools",
			"tool entries in agent_mode.tools must be of object type")
	}

	entry := ToolEntry{Name: ToolName(tag)}

	if en, present := body["enabled"]; present && !falsy(en) {
		b, ok := en.(bool)
		if !ok {
			return ToolEntry{}, schemaErr("agent_mode.tools",
				"enabled in agent_mode.tools must be of boolean type")
		}
		entry.Enabled = b
	}

	if entry.Name == ToolDataset {
		idRaw, present := body["id"]
		if !present {
			return ToolEntry{}, schemaErr("agent_mode.tools", "id is required in dataset")
		}
		id, ok := idRaw.(string)
		if !ok {
			return ToolEntry{}, schemaErr("agent_mode.tools", "id in dataset must be of UUID type")
		}
		if _, err := uuid.Parse(id); err != nil {
			return ToolEntry{}, schemaErr("agent_mode.tools", "id in dataset must be of UUID type")
		}
		entry.DatasetID = id
	}

	return entry, nil
}

// MarshalJSON emits the single-key wire form.
func (t ToolEntry) MarshalJSON() ([]byte, error) {
	body := map[string]any{"enabled": t.Enabled}
	if t.Name == ToolDataset {
		body["id"] = t.DatasetID
	}
	return json.Marshal(map[string]any{string(t.Name): body})
}

// UnmarshalJSON accepts the single-key wire form.
func (t *ToolEntry) UnmarshalJSON(data []byte) error {
	var item map[string]any
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	decoded, err := decodeToolEntry(item)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}
