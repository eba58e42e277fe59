// Package providers models the model-provider capability surface consumed by
// configuration validation: which providers exist, which of them a tenant has
// set up, and which models each one serves.
package providers

// ModelType categorizes the models a provider serves.
type ModelType string

const (
	ModelTypeTextGeneration ModelType = "text-generation"
	ModelTypeEmbeddings     ModelType = "embeddings"
	ModelTypeSpeechToText   ModelType = "speech2text"
)

// ModelInfo describes one model in a provider's catalog.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Provider exposes the model catalog of a single provider.
type Provider interface {
	Name() string
	SupportedModels(modelType ModelType) []ModelInfo
}

// Registry is the capability lookup injected into validation. ProviderNames
// lists every registered provider; PreferredProvider resolves the provider a
// tenant actually uses, reporting false when the tenant has none configured
// under that name.
type Registry interface {
	ProviderNames() []string
	PreferredProvider(tenantID, providerName string) (Provider, bool)
}
