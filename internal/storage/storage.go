package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/atonixcorp/atonix-go/internal/domain"
)

// Package storage keeps a local journal of compliance runs.

// Store records compliance runs and lists the most recent ones.
type Store interface {
	Close() error
	Record(run domain.Run) error
	Recent(limit int) ([]domain.Run, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	RunTTL          time.Duration
	CleanupInterval time.Duration
}

// Journal backends accepted by NewStore.
const (
	TypeNone = "none"
	TypeBolt = "bbolt"
)

const (
	defaultRunTTL          = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
	defaultRecentLimit     = 20
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", TypeNone, "disabled":
		return noopStore{}, nil
	case TypeBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.RunTTL <= 0 {
		opts.RunTTL = defaultRunTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) Record(domain.Run) error          { return nil }
func (noopStore) Recent(int) ([]domain.Run, error) { return nil, nil }
