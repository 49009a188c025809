// Package store persists merged diagrams for the API server. A record
// keeps the logical model alongside the exported artifacts so a stored
// diagram can be re-served without re-running the pipeline.
package store

import (
	"context"
	"time"

	"github.com/YasminAwad/Text2BPMN/pkg/model"
)

// Record is one stored merge result.
type Record struct {
	ID        string            `bson:"_id" json:"id"`
	Name      string            `bson:"name" json:"name"`
	CreatedAt time.Time         `bson:"created_at" json:"createdAt"`
	Process   model.Process     `bson:"process" json:"process"`
	Artifacts map[string][]byte `bson:"artifacts" json:"-"`
}

// Store persists and retrieves merge records.
type Store interface {
	// Put saves a record under its ID, overwriting any previous version.
	Put(ctx context.Context, rec Record) error

	// Get returns the record with the given id. Missing records fail
	// with NOT_FOUND.
	Get(ctx context.Context, id string) (Record, error)

	// List returns all stored records, newest first, without artifacts.
	List(ctx context.Context) ([]Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}
