package parley

import (
	"log"
	"time"

	"github.com/parleylabs/parley/appconfig"
	"github.com/parleylabs/parley/datasets"
	"github.com/parleylabs/parley/memory"
	"github.com/parleylabs/parley/providers"
	"github.com/parleylabs/parley/stores"
)

// Platform wires the core components together: a conversation store, a
// provider capability registry, a dataset lookup and a token counter. It
// hands out ready-to-use validators and conversation memory views.
type Platform struct {
	Store    stores.ConversationStore
	Registry providers.Registry
	Datasets appconfig.DatasetLookup
	Counter  memory.TokenCounter
	Logger   *log.Logger
}

// NewPlatform creates an empty platform with the built-in provider registry
// and the heuristic token counter. Attach a store before use.
func NewPlatform() *Platform {
	return &Platform{
		Registry: providers.DefaultRegistry(),
		Counter:  memory.NewEstimator(),
		Logger:   log.Default(),
	}
}

// NewPlatformDefault creates a platform backed by the default SQLite store.
func NewPlatformDefault() *Platform {
	store, err := stores.NewSQLiteStoreDefault()
	if err != nil {
		// If we can't create the default store there is nothing sensible to
		// run against; fail loudly.
		panic("Failed to create default SQLite store: " + err.Error())
	}
	return NewPlatform().WithStore(store)
}

// WithStore sets the conversation store.
func (p *Platform) WithStore(store stores.ConversationStore) *Platform {
	p.Store = store
	return p
}

// WithSQLiteStore sets a SQLite store with the specified database path.
func (p *Platform) WithSQLiteStore(dbPath string) *Platform {
	store, err := stores.NewSQLiteStoreSimple(dbPath)
	if err != nil {
		panic("Failed to create SQLite store: " + err.Error())
	}
	return p.WithStore(store)
}

// WithPostgresStore sets a PostgreSQL store with the specified connection
// parameters.
func (p *Platform) WithPostgresStore(host, user, password, dbname string, port int) *Platform {
	store, err := stores.NewPostgresStoreDefault(host, user, password, dbname, port)
	if err != nil {
		panic("Failed to create PostgreSQL store: " + err.Error())
	}
	return p.WithStore(store)
}

// WithRegistry sets the provider capability registry.
func (p *Platform) WithRegistry(registry providers.Registry) *Platform {
	p.Registry = registry
	return p
}

// WithDatasets sets the dataset lookup.
func (p *Platform) WithDatasets(lookup appconfig.DatasetLookup) *Platform {
	p.Datasets = lookup
	return p
}

// WithTokenCounter sets the token counter used by conversation memory.
func (p *Platform) WithTokenCounter(counter memory.TokenCounter) *Platform {
	p.Counter = counter
	return p
}

// WithLogger sets the logger.
func (p *Platform) WithLogger(logger *log.Logger) *Platform {
	p.Logger = logger
	return p
}

// Validator returns a configuration validator wired to the platform's
// registry and dataset lookup. When no explicit lookup is set, datasets are
// resolved through the store.
func (p *Platform) Validator() *appconfig.Validator {
	lookup := p.Datasets
	if lookup == nil {
		lookup = datasets.NewService(p.Store)
	}
	return appconfig.NewValidator(p.Registry, lookup)
}

// Memory returns a bounded history view over the given conversation.
func (p *Platform) Memory(conversationID string) *memory.TokenBufferMemory {
	return memory.NewTokenBufferMemory(conversationID, p.Store, p.Counter)
}

// Janitor returns a store janitor pruning abandoned turns older than the
// given age.
func (p *Platform) Janitor(olderThan time.Duration) *stores.Janitor {
	return stores.NewJanitor(p.Store, olderThan, p.Logger)
}
