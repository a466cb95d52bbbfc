package ledger

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no document matches both the id and the
	// owner. A foreign document is reported the same way as a missing one.
	ErrNotFound = errors.New("not found")

	// ErrNoOwner guards against unscoped store calls.
	ErrNoOwner = errors.New("filter has no owner")
)

// Bucket is one group of a Sum aggregation.
type Bucket struct {
	Key   string  `bson:"_id"`
	Sum   float64 `bson:"sum"`
	Count int64   `bson:"count"`
}

// Store persists documents of type T. Every method takes an owner-scoped
// Filter; implementations must reject a filter without an owner.
type Store[T any] interface {
	// Find returns one page sorted by the store's default sort field, newest first.
	Find(ctx context.Context, f Filter, limit, skip int64) ([]T, error)
	Count(ctx context.Context, f Filter) (int64, error)
	// Sum groups matching documents by groupBy and totals field per group,
	// ordered by group key.
	Sum(ctx context.Context, f Filter, groupBy, field string) ([]Bucket, error)
	Get(ctx context.Context, f Filter) (T, error)
	Insert(ctx context.Context, doc T) error
	Replace(ctx context.Context, f Filter, doc T) error
	Delete(ctx context.Context, f Filter) error
	Ping(ctx context.Context) error
}

// OwnerAliases are legacy owner fields written by earlier versions of the
// dashboard and by the profile service. They are matched on read only.
var OwnerAliases = []string{"clerkId", "userId"}

const ownerField = "ownerId"
