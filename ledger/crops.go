package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmledger/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is one window of a listing plus the pagination metadata.
type Page[T any] struct {
	Items   []T
	Total   int64
	Limit   int64
	Skip    int64
	HasMore bool
}

func newPage[T any](items []T, total int64, q Query) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Total:   total,
		Limit:   q.Limit,
		Skip:    q.Skip,
		HasMore: q.Skip+int64(len(items)) < total,
	}
}

// Crops is the crop ledger.
type Crops struct {
	store Store[models.CropRecord]
	now   func() time.Time
}

func NewCrops(store Store[models.CropRecord]) *Crops {
	return &Crops{store: store, now: time.Now}
}

func (s *Crops) List(ctx context.Context, q Query) (Page[models.CropRecord], error) {
	items, err := s.store.Find(ctx, q.Filter, q.Limit, q.Skip)
	if err != nil {
		return Page[models.CropRecord]{}, err
	}
	total, err := s.store.Count(ctx, q.Filter)
	if err != nil {
		return Page[models.CropRecord]{}, err
	}
	for i := range items {
		items[i].OwnerID = q.Filter.Owner()
	}
	return newPage(items, total, q), nil
}

func (s *Crops) Get(ctx context.Context, owner string, id primitive.ObjectID) (models.CropRecord, error) {
	c, err := s.store.Get(ctx, ByID(owner, id))
	if err != nil {
		return c, err
	}
	c.OwnerID = owner
	return c, nil
}

// Create stores in as a new record of owner. Identity and timestamps in the
// payload are replaced.
func (s *Crops) Create(ctx context.Context, owner string, in models.CropRecord) (models.CropRecord, error) {
	if owner == "" {
		return models.CropRecord{}, ErrNoOwner
	}
	now := timestamp(s.now)
	c := in.Derive()
	c.ID = primitive.NewObjectID()
	c.OwnerID = owner
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := models.Validate(c); err != nil {
		return models.CropRecord{}, err
	}
	if err := s.store.Insert(ctx, c); err != nil {
		return models.CropRecord{}, err
	}
	return c, nil
}

// Update merges p into the record and re-validates the whole document.
func (s *Crops) Update(ctx context.Context, owner string, id primitive.ObjectID, p Patch) (models.CropRecord, error) {
	current, err := s.Get(ctx, owner, id)
	if err != nil {
		return models.CropRecord{}, err
	}
	merged, err := apply(current, p)
	if err != nil {
		return models.CropRecord{}, err
	}
	c := merged.Derive()
	c.ID = current.ID
	c.OwnerID = owner
	c.CreatedAt = current.CreatedAt
	c.UpdatedAt = timestamp(s.now)
	if err := models.Validate(c); err != nil {
		return models.CropRecord{}, err
	}
	if err := s.store.Replace(ctx, ByID(owner, id), c); err != nil {
		return models.CropRecord{}, err
	}
	return c, nil
}

func (s *Crops) Delete(ctx context.Context, owner string, id primitive.ObjectID) error {
	return s.store.Delete(ctx, ByID(owner, id))
}

// Summaries returns the projection of the given crops that owner still has.
// Unknown ids are left out.
func (s *Crops) Summaries(ctx context.Context, owner string, ids []primitive.ObjectID) (map[primitive.ObjectID]models.CropSummary, error) {
	out := make(map[primitive.ObjectID]models.CropSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	crops, err := s.store.Find(ctx, OwnedBy(owner).WithIDs(ids...), int64(len(ids)), 0)
	if err != nil {
		return nil, fmt.Errorf("load referenced crops: %w", err)
	}
	for _, c := range crops {
		out[c.ID] = c.Summary()
	}
	return out, nil
}

func (s *Crops) Ping(ctx context.Context) error { return s.store.Ping(ctx) }

// IsNotFound reports whether err means the record is absent for this owner.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// timestamp is now at the resolution MongoDB stores.
func timestamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}
