package ledger

import (
	"context"
	"time"

	"farmledger/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// ResourcePage is a resource listing with per-type totals over every record
// the filter matches, not just the returned window.
type ResourcePage struct {
	Page[models.ResourceView]
	Summary []models.ResourceSummary
}

// Resources is the resource (input and expense) ledger.
type Resources struct {
	store Store[models.ResourceRecord]
	crops *Crops
	now   func() time.Time
}

func NewResources(store Store[models.ResourceRecord], crops *Crops) *Resources {
	return &Resources{store: store, crops: crops, now: time.Now}
}

func (s *Resources) List(ctx context.Context, q Query) (ResourcePage, error) {
	var (
		items   []models.ResourceRecord
		total   int64
		buckets []Bucket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.store.Find(gctx, q.Filter, q.Limit, q.Skip)
		return err
	})
	g.Go(func() (err error) {
		total, err = s.store.Count(gctx, q.Filter)
		return err
	})
	g.Go(func() (err error) {
		buckets, err = s.store.Sum(gctx, q.Filter, "resourceType", "totalCost")
		return err
	})
	if err := g.Wait(); err != nil {
		return ResourcePage{}, err
	}

	views, err := s.enrich(ctx, q.Filter.Owner(), items)
	if err != nil {
		return ResourcePage{}, err
	}
	summary := make([]models.ResourceSummary, len(buckets))
	for i, b := range buckets {
		summary[i] = models.ResourceSummary{ResourceType: b.Key, TotalCost: b.Sum, Count: b.Count}
	}
	return ResourcePage{Page: newPage(views, total, q), Summary: summary}, nil
}

func (s *Resources) Get(ctx context.Context, owner string, id primitive.ObjectID) (models.ResourceView, error) {
	r, err := s.get(ctx, owner, id)
	if err != nil {
		return models.ResourceView{}, err
	}
	views, err := s.enrich(ctx, owner, []models.ResourceRecord{r})
	if err != nil {
		return models.ResourceView{}, err
	}
	return views[0], nil
}

func (s *Resources) get(ctx context.Context, owner string, id primitive.ObjectID) (models.ResourceRecord, error) {
	r, err := s.store.Get(ctx, ByID(owner, id))
	if err != nil {
		return r, err
	}
	r.OwnerID = owner
	return r, nil
}

// Create stores in as a new record of owner. TotalCost, identity and
// timestamps in the payload are replaced.
func (s *Resources) Create(ctx context.Context, owner string, in models.ResourceRecord) (models.ResourceRecord, error) {
	if owner == "" {
		return models.ResourceRecord{}, ErrNoOwner
	}
	now := timestamp(s.now)
	r := in.Derive()
	r.ID = primitive.NewObjectID()
	r.OwnerID = owner
	r.CreatedAt = now
	r.UpdatedAt = now
	if err := models.Validate(r); err != nil {
		return models.ResourceRecord{}, err
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return models.ResourceRecord{}, err
	}
	return r, nil
}

// Update merges p into the record, recomputes TotalCost and re-validates.
func (s *Resources) Update(ctx context.Context, owner string, id primitive.ObjectID, p Patch) (models.ResourceRecord, error) {
	current, err := s.get(ctx, owner, id)
	if err != nil {
		return models.ResourceRecord{}, err
	}
	merged, err := apply(current, p)
	if err != nil {
		return models.ResourceRecord{}, err
	}
	r := merged.Derive()
	r.ID = current.ID
	r.OwnerID = owner
	r.CreatedAt = current.CreatedAt
	r.UpdatedAt = timestamp(s.now)
	if err := models.Validate(r); err != nil {
		return models.ResourceRecord{}, err
	}
	if err := s.store.Replace(ctx, ByID(owner, id), r); err != nil {
		return models.ResourceRecord{}, err
	}
	return r, nil
}

func (s *Resources) Delete(ctx context.Context, owner string, id primitive.ObjectID) error {
	return s.store.Delete(ctx, ByID(owner, id))
}

// enrich attaches the referenced crop, if owner still has it.
func (s *Resources) enrich(ctx context.Context, owner string, items []models.ResourceRecord) ([]models.ResourceView, error) {
	seen := map[primitive.ObjectID]bool{}
	var refs []primitive.ObjectID
	for _, r := range items {
		if r.CropReference != nil && !seen[*r.CropReference] {
			seen[*r.CropReference] = true
			refs = append(refs, *r.CropReference)
		}
	}
	crops, err := s.crops.Summaries(ctx, owner, refs)
	if err != nil {
		return nil, err
	}

	views := make([]models.ResourceView, len(items))
	for i, r := range items {
		r.OwnerID = owner
		views[i] = models.ResourceView{ResourceRecord: r}
		if r.CropReference != nil {
			if c, ok := crops[*r.CropReference]; ok {
				views[i].Crop = &c
			}
		}
	}
	return views, nil
}
