package store

import "context"

// Status is the entity census of the whole database.
type Status struct {
	User   int64 `json:"user"`
	Forum  int64 `json:"forum"`
	Thread int64 `json:"thread"`
	Post   int64 `json:"post"`
}

// ServiceStore exposes maintenance operations.
type ServiceStore interface {
	Status(ctx context.Context) (Status, error)
	// Clear wipes every table and resets id sequences.
	Clear(ctx context.Context) error
}
