// Package store provides the thought storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
)

// ErrMalformedImport is returned when an import document has neither a
// payload nor a legacy data array. The store is left unmodified.
var ErrMalformedImport = errors.New("import document has no payload")

// ExportFormat marks documents produced by Export.
const ExportFormat = "LifeOrbit-JSON-Export"

// Document is the serializable export/import envelope.
// Payload is the canonical key; Data is accepted on import for
// compatibility with older exports.
type Document struct {
	Engine     string          `json:"engine,omitempty"`
	Format     string          `json:"format"`
	ExportedAt string          `json:"exportDate"`
	Payload    []model.Thought `json:"payload"`
	Data       []model.Thought `json:"data,omitempty"`
}

// Store is the durable keyed record store for thoughts.
type Store interface {
	// GetAll returns every stored thought, newest first.
	GetAll(ctx context.Context) ([]model.Thought, error)

	// Save upserts a thought by id.
	Save(ctx context.Context, t *model.Thought) error

	// Delete removes a thought. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// Export returns the full store as a Document.
	Export(ctx context.Context) (*Document, error)

	// Import upserts every thought in the document, all-or-nothing.
	// Returns the number of thoughts imported.
	Import(ctx context.Context, doc *Document) (int, error)

	// Stats returns database statistics for the file at dbPath.
	Stats(ctx context.Context, dbPath string) (*Stats, error)

	// Subscribe registers an event listener and returns an unsubscribe func.
	Subscribe(fn func(Event)) func()

	// Close closes the store.
	Close() error
}
