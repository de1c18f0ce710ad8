package adapter

import "context"

// Record is one persisted document: the backend key plus an arbitrary field
// map.
type Record struct {
	ID     string
	Fields map[string]any
}

// Adapter is the storage boundary: four operations over records keyed by
// string id. It must be implementable equally over a local file and a remote
// document collection, so no ordering or transactional guarantee is provided
// across calls.
type Adapter interface {
	// List returns every persisted record.
	List(ctx context.Context) ([]Record, error)

	// Create persists a new record and returns its id, echoed or assigned by
	// the backend.
	Create(ctx context.Context, rec Record) (string, error)

	// Update overwrites the fields of an existing record. Returns a not-found
	// error if the id is absent.
	Update(ctx context.Context, id string, rec Record) error

	// Delete removes a record. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
