package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// ErrDuplicate is the backend-agnostic sentinel a Backend wraps its native
// duplicate-key error in. mongoBackend's errors already satisfy
// mongo.IsDuplicateKeyError; fakemongo has no such native type to lean on,
// so both are recognized the same way via errors.Is(err, ErrDuplicate).
var ErrDuplicate = errors.New("store: duplicate key")

// Backend is the narrow surface Store needs from a document collection.
// Two implementations exist: mongoBackend (go.mongodb.org/mongo-driver/v2)
// for production, and fakemongo.Backend (an in-memory map) for tests —
// every C3 property in spec.md §8 is exercised against the fake so the
// transactional rename/delete/create-child semantics are verified without a
// live database.
type Backend interface {
	// FindOne returns the first document matching filter in sort order (sort
	// may be nil). Returns (nil, nil) on no match.
	FindOne(ctx context.Context, filter bson.M, sort bson.D) (bson.M, error)

	// Find returns every document matching filter, ordered by sort (nil for
	// natural order).
	Find(ctx context.Context, filter bson.M, sort bson.D) ([]bson.M, error)

	// FindByPathPrefix returns every document whose path starts with prefix.
	FindByPathPrefix(ctx context.Context, prefix string) ([]bson.M, error)

	// Aggregate runs an aggregation pipeline and decodes every result doc.
	Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error)

	// BulkWrite executes every op atomically, in one transaction on one
	// session (spec.md §4.3.1 step 5, §4.3.2, §4.3.3).
	BulkWrite(ctx context.Context, ops []WriteOp) error

	// EnsureIndexes creates the indexes spec.md §6 requires: unique
	// (path, slug), TTL on created_at at 1800s, ascending type.
	EnsureIndexes(ctx context.Context) error
}

// WriteKind discriminates the WriteOp variants.
type WriteKind int

const (
	OpInsert WriteKind = iota
	OpUpdateByID
	OpDeleteByID
	OpDeleteByPathPrefix
)

// WriteOp is one step of a BulkWrite batch.
type WriteOp struct {
	Kind       WriteKind
	ID         string // OpUpdateByID, OpDeleteByID
	Doc        any    // OpInsert
	Set        bson.M // OpUpdateByID
	PathPrefix string // OpDeleteByPathPrefix: delete every doc whose path has this prefix
}
