package providers

import (
	"sync"
)

// StaticProvider is an in-memory Provider with a fixed catalog.
type StaticProvider struct {
	name   string
	models map[ModelType][]ModelInfo
}

func NewStaticProvider(name string, models map[ModelType][]ModelInfo) *StaticProvider {
	return &StaticProvider{name: name, models: models}
}

func (p *StaticProvider) Name() string {
	return p.name
}

func (p *StaticProvider) SupportedModels(modelType ModelType) []ModelInfo {
	return p.models[modelType]
}

// StaticRegistry is an in-process Registry. Providers are registered once at
// startup; per-tenant grants restrict which providers PreferredProvider will
// resolve. A tenant with no recorded grants sees every registered provider,
// which keeps single-tenant development setups free of grant bookkeeping.
type StaticRegistry struct {
	mu        sync.RWMutex
	order     []string
	providers map[string]*StaticProvider
	grants    map[string]map[string]bool // tenantID -> provider name -> granted
}

func NewStaticRegistry() *StaticRegistry {
	return &StaticRegistry{
		providers: make(map[string]*StaticProvider),
		grants:    make(map[string]map[string]bool),
	}
}

// Register adds a provider, replacing any previous one of the same name.
func (r *StaticRegistry) Register(p *StaticProvider) *StaticRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[p.name]; !exists {
		r.order = append(r.order, p.name)
	}
	r.providers[p.name] = p
	return r
}

// GrantTenant records that a tenant has the named providers configured.
func (r *StaticRegistry) GrantTenant(tenantID string, providerNames ...string) *StaticRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	grants := r.grants[tenantID]
	if grants == nil {
		grants = make(map[string]bool)
		r.grants[tenantID] = grants
	}
	for _, name := range providerNames {
		grants[name] = true
	}
	return r
}

func (r *StaticRegistry) ProviderNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *StaticRegistry) PreferredProvider(tenantID, providerName string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, exists := r.providers[providerName]
	if !exists {
		return nil, false
	}
	if grants, recorded := r.grants[tenantID]; recorded && !grants[providerName] {
		return nil, false
	}
	return p, true
}

// DefaultRegistry returns a registry preloaded with the built-in provider
// catalogs. Catalogs only drive validation; nothing here talks to a provider.
func DefaultRegistry() *StaticRegistry {
	r := NewStaticRegistry()
	r.Register(NewStaticProvider("openai", map[ModelType][]ModelInfo{
		ModelTypeTextGeneration: {
			{ID: "gpt-3.5-turbo", Name: "gpt-3.5-turbo"},
			{ID: "gpt-3.5-turbo-16k", Name: "gpt-3.5-turbo-16k"},
			{ID: "gpt-3.5-turbo-instruct", Name: "gpt-3.5-turbo-instruct"},
			{ID: "gpt-4", Name: "gpt-4"},
			{ID: "gpt-4-32k", Name: "gpt-4-32k"},
			{ID: "text-davinci-003", Name: "text-davinci-003"},
		},
		ModelTypeEmbeddings: {
			{ID: "text-embedding-ada-002", Name: "text-embedding-ada-002"},
		},
		ModelTypeSpeechToText: {
			{ID: "whisper-1", Name: "whisper-1"},
		},
	}))
	r.Register(NewStaticProvider("anthropic", map[ModelType][]ModelInfo{
		ModelTypeTextGeneration: {
			{ID: "claude-instant-1", Name: "claude-instant-1"},
			{ID: "claude-2", Name: "claude-2"},
		},
	}))
	r.Register(NewStaticProvider("google", map[ModelType][]ModelInfo{
		ModelTypeTextGeneration: {
			{ID: "gemini-2.0-flash", Name: "gemini-2.0-flash"},
			{ID: "gemini-1.5-pro", Name: "gemini-1.5-pro"},
		},
	}))
	return r
}
