// Package store keeps parsed stacks addressable by ID for the HTTP server.
//
// A [Record] holds the JSON document of a validated stack (see package io)
// together with a little metadata. Backends:
//   - [MemoryStore]: in-process map for development and tests
//   - [MongoStore]: MongoDB collection for deployments with several replicas
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/itfstack/pkg/errors"
)

// Record is a stored stack document.
type Record struct {
	ID         string    `json:"id" bson:"_id"`
	Technology string    `json:"technology" bson:"technology"`
	SourceHash string    `json:"source_hash" bson:"source_hash"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`

	// Document is the JSON encoding produced by io.WriteJSON.
	Document []byte `json:"-" bson:"document"`
}

// Store is the interface for stack storage backends.
type Store interface {
	// Put stores rec. An empty ID is replaced by a new UUID and a zero
	// CreatedAt by the current time; both are written back to rec.
	Put(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID, or an error of kind
	// NotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Delete removes a record. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the backend.
	Close(ctx context.Context) error
}

// NewID returns a fresh record ID.
func NewID() string {
	return uuid.NewString()
}

// ValidateID rejects strings that are not UUIDs, so malformed IDs from a
// URL never reach a backend.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.KindInvalidInput, "invalid stack id %q", id)
	}
	return nil
}

func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func notFound(id string) error {
	return errors.New(errors.KindNotFound, "stack %q not found", id)
}
