// Package store persists built documents so the API can serve them again
// by ID. A MongoDB backend covers deployments; an in-memory backend covers
// tests and single-process use.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/dgmlkit/pkg/dgml"
	"github.com/matzehuels/dgmlkit/pkg/errors"
)

// ErrNotFound is returned when no record exists for the requested ID.
var ErrNotFound = errors.New(errors.ErrCodeNotFound, "record not found")

// Record is a stored document with its metadata.
type Record struct {
	ID        string        `json:"id" bson:"_id"`
	Title     string        `json:"title,omitempty" bson:"title,omitempty"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	Document  dgml.Document `json:"document" bson:"document"`
}

// Store persists built documents.
type Store interface {
	// Put inserts a record. The record's ID must be set by the caller.
	Put(ctx context.Context, rec Record) error

	// Get fetches a record by ID, returning ErrNotFound when absent.
	Get(ctx context.Context, id string) (Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
