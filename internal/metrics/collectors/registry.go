package collectors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "epicchain"

// CollectorFactory builds a collector reading from the index database.
type CollectorFactory func(db *sql.DB) (prometheus.Collector, error)

// Registry holds named collector factories. Collectors are created in name order.
type Registry struct {
	mu        sync.Mutex
	factories map[string]CollectorFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]CollectorFactory)}
}

func (r *Registry) Register(name string, factory CollectorFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("collector %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) CreateCollectors(db *sql.DB) ([]prometheus.Collector, error) {
	if db == nil {
		return nil, errors.New("database connection is nil")
	}

	names := r.Names()
	collectors := make([]prometheus.Collector, 0, len(names))
	for _, name := range names {
		r.mu.Lock()
		factory := r.factories[name]
		r.mu.Unlock()

		collector, err := factory(db)
		if err != nil {
			return nil, fmt.Errorf("collector %s: %w", name, err)
		}
		collectors = append(collectors, collector)
	}
	return collectors, nil
}

var DefaultRegistry = NewRegistry()

// mustRegister adds a built-in collector to DefaultRegistry.
func mustRegister(name string, factory CollectorFactory) {
	if err := DefaultRegistry.Register(name, factory); err != nil {
		panic(err)
	}
}

func postgresDesc(subsystem, name, help string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(namespace, subsystem, name),
		help,
		nil,
		prometheus.Labels{"source": "postgres"},
	)
}

const queryTimeout = 5 * time.Second

// scanRow runs a single-row query bounded by queryTimeout.
func scanRow(db *sql.DB, query string, dest ...any) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	return db.QueryRowContext(ctx, query).Scan(dest...)
}
