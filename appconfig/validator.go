package appconfig

import (
	"fmt"
	"regexp"

	"github.com/parleylabs/parley/providers"
)

// Placeholders may use any word character the variable identifier grammar
// admits, CJK included, so the class must be Unicode-aware.
var placeholderPattern = regexp.MustCompile(`\{\{([\p{L}\p{N}_]+)\}\}`)

// Validator normalizes and validates raw app model configuration documents.
// It is stateless and safe for concurrent use; both collaborators are
// injected so tests can substitute fakes.
type Validator struct {
	Providers providers.Registry
	Datasets  DatasetLookup
}

func NewValidator(registry providers.Registry, datasets DatasetLookup) *Validator {
	return &Validator{Providers: registry, Datasets: datasets}
}

// Validate checks a raw configuration mapping against the app mode and the
// caller's tenant and returns the normalized document. Fields are processed
// default-then-typecheck-then-cross-check in a fixed order; the first
// violation aborts with a *ValidationError and nothing is persisted or
// mutated. The input map is never written to. Extra caller-supplied keys are
// silently dropped from the output.
func (v *Validator) Validate(tenantID string, account Account, raw map[string]any, mode AppMode) (*AppModelConfig, error) {
	out := &AppModelConfig{}
	var err error

	if out.OpeningStatement, err = stringField(raw, "opening_statement"); err != nil {
		return nil, err
	}

	if out.SuggestedQuestions, err = stringListField(raw, "suggested_questions",
		"Elements in suggested_questions list must be of string type"); err != nil {
		return nil, err
	}

	if out.SuggestedQuestionsAfterAnswer, err = toggleField(raw, "suggested_questions_after_answer"); err != nil {
		return nil, err
	}
	if out.SpeechToText, err = toggleField(raw, "speech_to_text"); err != nil {
		return nil, err
	}
	if out.RetrieverResource, err = toggleField(raw, "retriever_resource"); err != nil {
		return nil, err
	}
	if out.MoreLikeThis, err = toggleField(raw, "more_like_this"); err != nil {
		return nil, err
	}

	if out.SensitiveWordAvoidance, err = sensitiveWordField(raw); err != nil {
		return nil, err
	}

	if out.Model, err = v.modelField(tenantID, raw); err != nil {
		return nil, err
	}

	// user_input_form; the declared variables (duplicates included) are the
	// only vocabulary pre_prompt placeholders may reference.
	var variables []string
	if out.UserInputForm, variables, err = userInputFormField(raw); err != nil {
		return nil, err
	}

	if out.PrePrompt, err = stringField(raw, "pre_prompt"); err != nil {
		return nil, err
	}
	for _, match := range placeholderPattern.FindAllStringSubmatch(out.PrePrompt, -1) {
		if !contains(variables, match[1]) {
			return nil, crossErr("Template variables in pre_prompt must be defined in user_input_form",
				"pre_prompt", "user_input_form")
		}
	}

	if out.AgentMode, err = v.agentModeField(account, raw); err != nil {
		return nil, err
	}

	if out.DatasetQueryVariable, err = stringField(raw, "dataset_query_variable"); err != nil {
		return nil, err
	}
	if mode == AppModeCompletion && out.DatasetQueryVariable == "" {
		for _, tool := range out.AgentMode.Tools {
			if tool.Name == ToolDataset {
				return nil, crossErr("Dataset query variable is required when dataset is exist",
					"dataset_query_variable", "agent_mode.tools")
			}
		}
	}

	if err = v.advancedPromptFields(out, raw, mode); err != nil {
		return nil, err
	}

	return out, nil
}

// --- per-field-group normalizers ---

func (v *Validator) modelField(tenantID string, raw map[string]any) (ModelParams, error) {
	rawModel, present := raw["model"]
	if !present {
		return ModelParams{}, schemaErr("model", "model is required")
	}
	m, ok := rawModel.(map[string]any)
	if !ok {
		return ModelParams{}, schemaErr("model", "model must be of object type")
	}

	params := ModelParams{}

	names := v.Providers.ProviderNames()
	providerName, _ := m["provider"].(string)
	if providerName == "" || !contains(names, providerName) {
		return ModelParams{}, refErr("model.provider",
			fmt.Sprintf("model.provider is required and must be in %v", names))
	}
	params.Provider = providerName

	nameRaw, present := m["name"]
	if !present {
		return ModelParams{}, schemaErr("model.name", "model.name is required")
	}
	name, _ := nameRaw.(string)

	provider, ok := v.Providers.PreferredProvider(tenantID, providerName)
	if !ok {
		return ModelParams{}, refErr("model.name", "model.name must be in the specified model list")
	}
	supported := false
	for _, model := range provider.SupportedModels(providers.ModelTypeTextGeneration) {
		if model.ID == name {
			supported = true
			break
		}
	}
	if !supported {
		return ModelParams{}, refErr("model.name", "model.name must be in the specified model list")
	}
	params.Name = name

	if modeRaw, present := m["mode"]; present && !falsy(modeRaw) {
		s, ok := modeRaw.(string)
		if !ok {
			return ModelParams{}, schemaErr("model.mode", "model.mode must be of string type")
		}
		// Deliberately not validated against the mode enum here; the
		// advanced-prompt rule is the only place that constrains it.
		params.Mode = s
	}

	cpRaw, present := m["completion_params"]
	if !present {
		return ModelParams{}, schemaErr("model.completion_params", "model.completion_params is required")
	}
	cp, err := completionParamsField(cpRaw)
	if err != nil {
		return ModelParams{}, err
	}
	params.CompletionParams = cp

	return params, nil
}

// completionParamsField normalizes model.completion_params. Defaults apply
// only to absent keys (an explicit zero temperature survives); the output
// carries exactly the six documented parameters.
func completionParamsField(raw any) (CompletionParams, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return CompletionParams{}, schemaErr("model.completion_params",
			"model.completion_params must be of object type")
	}

	cp := CompletionParams{
		MaxTokens:   512,
		Temperature: 1,
		TopP:        1,
		Stop:        []string{},
	}

	if v, present := obj["max_tokens"]; present {
		n, ok := asNumber(v)
		if !ok {
			return CompletionParams{}, schemaErr("model.completion_params",
				"max_tokens in model.completion_params must be a number")
		}
		cp.MaxTokens = int(n)
	}
	for key, dst := range map[string]*float64{
		"temperature":       &cp.Temperature,
		"top_p":             &cp.TopP,
		"presence_penalty":  &cp.PresencePenalty,
		"frequency_penalty": &cp.FrequencyPenalty,
	} {
		if v, present := obj[key]; present {
			n, ok := asNumber(v)
			if !ok {
				return CompletionParams{}, schemaErr("model.completion_params",
					fmt.Sprintf("%s in model.completion_params must be a number", key))
			}
			*dst = n
		}
	}

	if v, present := obj["stop"]; present {
		list, ok := v.([]any)
		if !ok {
			return CompletionParams{}, schemaErr("model.completion_params",
				"stop in model.completion_params must be of list type")
		}
		for _, s := range list {
			str, ok := s.(string)
			if !ok {
				return CompletionParams{}, schemaErr("model.completion_params",
					"stop in model.completion_params must be of list type")
			}
			cp.Stop = append(cp.Stop, str)
		}
	}

	return cp, nil
}

func userInputFormField(raw map[string]any) ([]FormField, []string, error) {
	fields := []FormField{}
	variables := []string{}

	rawForm, present := raw["user_input_form"]
	if !present || falsy(rawForm) {
		return fields, variables, nil
	}
	list, ok := rawForm.([]any)
	if !ok {
		return nil, nil, schemaErr("user_input_form", "user_input_form must be a list of objects")
	}
	for _, rawItem := range list {
		item, ok := rawItem.(map[string]any)
		if !ok {
			return nil, nil, schemaErr("user_input_form", "user_input_form must be a list of objects")
		}
		field, err := decodeFormField(item)
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, field)
		// Duplicate variable names are not rejected; every occurrence is
		// recorded for the placeholder cross-check.
		variables = append(variables, field.Variable)
	}
	return fields, variables, nil
}

func (v *Validator) agentModeField(account Account, raw map[string]any) (AgentMode, error) {
	am := AgentMode{Strategy: StrategyRouter, Tools: []ToolEntry{}}

	rawAM, present := raw["agent_mode"]
	if !present || falsy(rawAM) {
		return am, nil
	}
	obj, ok := rawAM.(map[string]any)
	if !ok {
		return AgentMode{}, schemaErr("agent_mode", "agent_mode must be of object type")
	}

	if en, present := obj["enabled"]; present && !falsy(en) {
		b, ok := en.(bool)
		if !ok {
			return AgentMode{}, schemaErr("agent_mode", "enabled in agent_mode must be of boolean type")
		}
		am.Enabled = b
	}

	if st, present := obj["strategy"]; present && !falsy(st) {
		s, ok := st.(string)
		if !ok || !contains(planningStrategies, s) {
			return AgentMode{}, refErr("agent_mode.strategy",
				"strategy in agent_mode must be in the specified strategy list")
		}
		am.Strategy = s
	}

	rawTools, present := obj["tools"]
	if !present || falsy(rawTools) {
		return am, nil
	}
	list, ok := rawTools.([]any)
	if !ok {
		return AgentMode{}, schemaErr("agent_mode", "tools in agent_mode must be a list of objects")
	}
	for _, rawTool := range list {
		item, ok := rawTool.(map[string]any)
		if !ok {
			return AgentMode{}, schemaErr("agent_mode", "tools in agent_mode must be a list of objects")
		}
		entry, err := decodeToolEntry(item)
		if err != nil {
			return AgentMode{}, err
		}
		if entry.Name == ToolDataset {
			ds, err := v.Datasets.GetDataset(entry.DatasetID)
			if err != nil {
				return AgentMode{}, fmt.Errorf("failed to look up dataset %s: %w", entry.DatasetID, err)
			}
			if ds == nil || ds.TenantID != account.CurrentTenantID {
				return AgentMode{}, refErr("agent_mode.tools",
					"Dataset ID does not exist, please check your permission.")
			}
		}
		am.Tools = append(am.Tools, entry)
	}
	return am, nil
}

func (v *Validator) advancedPromptFields(out *AppModelConfig, raw map[string]any, mode AppMode) error {
	out.PromptType = PromptTypeSimple
	if pt, present := raw["prompt_type"]; present && !falsy(pt) {
		s, ok := pt.(string)
		if !ok || (s != PromptTypeSimple && s != PromptTypeAdvanced) {
			return schemaErr("prompt_type", "prompt_type must be in ['simple', 'advanced']")
		}
		out.PromptType = s
	}

	var err error
	if out.ChatPromptConfig, err = objectField(raw, "chat_prompt_config"); err != nil {
		return err
	}
	if out.CompletionPromptConfig, err = objectField(raw, "completion_prompt_config"); err != nil {
		return err
	}

	if out.DatasetConfigs, err = datasetConfigsField(raw); err != nil {
		return err
	}

	if out.PromptType != PromptTypeAdvanced {
		return nil
	}

	if len(out.ChatPromptConfig) == 0 && len(out.CompletionPromptConfig) == 0 {
		return crossErr("chat_prompt_config or completion_prompt_config is required when prompt_type is advanced",
			"chat_prompt_config", "completion_prompt_config")
	}
	if out.Model.Mode != ModelModeChat && out.Model.Mode != ModelModeCompletion {
		return crossErr("model.mode must be in ['chat', 'completion'] when prompt_type is advanced",
			"prompt_type", "model.mode")
	}

	// A chat app driven through a completion-mode model renders history as a
	// prefixed transcript; unset role prefixes fall back to Human/Assistant.
	if mode == AppModeChat && out.Model.Mode == ModelModeCompletion {
		roles, _ := out.CompletionPromptConfig["conversation_histories_role"].(map[string]any)
		if roles == nil {
			roles = map[string]any{}
		}
		if falsy(roles["user_prefix"]) {
			roles["user_prefix"] = "Human"
		}
		if falsy(roles["assistant_prefix"]) {
			roles["assistant_prefix"] = "Assistant"
		}
		out.CompletionPromptConfig["conversation_histories_role"] = roles
	}

	return nil
}

func datasetConfigsField(raw map[string]any) (DatasetConfigs, error) {
	dc := DatasetConfigs{TopK: 2}

	rawDC, present := raw["dataset_configs"]
	if !present || falsy(rawDC) {
		return dc, nil
	}
	obj, ok := rawDC.(map[string]any)
	if !ok {
		return DatasetConfigs{}, schemaErr("dataset_configs", "dataset_configs must be of object type")
	}

	if v, present := obj["top_k"]; present && !falsy(v) {
		n, ok := asNumber(v)
		if !ok {
			return DatasetConfigs{}, schemaErr("dataset_configs", "top_k in dataset_configs must be a number")
		}
		dc.TopK = int(n)
	}
	if v, present := obj["score_threshold"]; present && !falsy(v) {
		st, ok := v.(map[string]any)
		if !ok {
			return DatasetConfigs{}, schemaErr("dataset_configs",
				"score_threshold in dataset_configs must be of object type")
		}
		if en, present := st["enable"]; present && !falsy(en) {
			b, ok := en.(bool)
			if !ok {
				return DatasetConfigs{}, schemaErr("dataset_configs",
					"enable in dataset_configs.score_threshold must be of boolean type")
			}
			dc.ScoreThreshold.Enable = b
		}
	}
	return dc, nil
}

// --- primitive field helpers ---

// falsy mirrors the truthiness rules the wire format relies on: nil, empty
// strings/lists/objects, false and zero all trigger default substitution.
func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}

func stringField(raw map[string]any, key string) (string, error) {
	v, present := raw[key]
	if !present || falsy(v) {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", schemaErr(key, key+" must be of string type")
	}
	return s, nil
}

func stringListField(raw map[string]any, key, elemReason string) ([]string, error) {
	out := []string{}
	v, present := raw[key]
	if !present || falsy(v) {
		return out, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, schemaErr(key, key+" must be of list type")
	}
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, schemaErr(key, elemReason)
		}
		out = append(out, s)
	}
	return out, nil
}

func toggleField(raw map[string]any, key string) (FeatureToggle, error) {
	v, present := raw[key]
	if !present || falsy(v) {
		return FeatureToggle{}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return FeatureToggle{}, schemaErr(key, key+" must be of dict type")
	}
	toggle := FeatureToggle{}
	if en, present := obj["enabled"]; present && !falsy(en) {
		b, ok := en.(bool)
		if !ok {
			return FeatureToggle{}, schemaErr(key, "enabled in "+key+" must be of boolean type")
		}
		toggle.Enabled = b
	}
	return toggle, nil
}

func sensitiveWordField(raw map[string]any) (SensitiveWordAvoidance, error) {
	const key = "sensitive_word_avoidance"
	swa := SensitiveWordAvoidance{}

	v, present := raw[key]
	if !present || falsy(v) {
		return swa, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return swa, schemaErr(key, key+" must be of dict type")
	}
	if en, present := obj["enabled"]; present && !falsy(en) {
		b, ok := en.(bool)
		if !ok {
			return swa, schemaErr(key, "enabled in "+key+" must be of boolean type")
		}
		swa.Enabled = b
	}
	if w, present := obj["words"]; present && !falsy(w) {
		s, ok := w.(string)
		if !ok {
			return swa, schemaErr(key, "words in "+key+" must be of string type")
		}
		swa.Words = s
	}
	if cr, present := obj["canned_response"]; present && !falsy(cr) {
		s, ok := cr.(string)
		if !ok {
			return swa, schemaErr(key, "canned_response in "+key+" must be of string type")
		}
		swa.CannedResponse = s
	}
	return swa, nil
}

// objectField returns a copy of the named object so the output never aliases
// the caller's document.
func objectField(raw map[string]any, key string) (map[string]any, error) {
	v, present := raw[key]
	if !present || falsy(v) {
		return map[string]any{}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, schemaErr(key, key+" must be of object type")
	}
	return cloneObject(obj), nil
}

func cloneObject(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneObject(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
