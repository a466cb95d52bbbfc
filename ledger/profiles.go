package ledger

import (
	"context"
	"errors"
	"time"

	"farmledger/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profiles keeps at most one UserProfile per owner.
type Profiles struct {
	store Store[models.UserProfile]
	now   func() time.Time
}

func NewProfiles(store Store[models.UserProfile]) *Profiles {
	return &Profiles{store: store, now: time.Now}
}

func (s *Profiles) Get(ctx context.Context, owner string) (models.UserProfile, error) {
	p, err := s.store.Get(ctx, OwnedBy(owner))
	if err != nil {
		return p, err
	}
	p.OwnerID = owner
	return p, nil
}

// Save creates the profile on first write and merges p into it afterwards.
// A partial preferences object changes only the keys it names. The bool
// result reports whether a new profile was created.
func (s *Profiles) Save(ctx context.Context, owner string, p Patch) (models.UserProfile, bool, error) {
	if owner == "" {
		return models.UserProfile{}, false, ErrNoOwner
	}
	now := timestamp(s.now)

	current, err := s.Get(ctx, owner)
	switch {
	case errors.Is(err, ErrNotFound):
		p, err := p.overlay("preferences", models.DefaultPreferences())
		if err != nil {
			return models.UserProfile{}, false, err
		}
		merged, err := apply(models.UserProfile{}, p)
		if err != nil {
			return models.UserProfile{}, false, err
		}
		prof := merged.Derive()
		prof.ID = primitive.NewObjectID()
		prof.OwnerID = owner
		prof.CreatedAt = now
		prof.UpdatedAt = now
		if err := models.Validate(prof); err != nil {
			return models.UserProfile{}, false, err
		}
		if err := s.store.Insert(ctx, prof); err != nil {
			return models.UserProfile{}, false, err
		}
		return prof, true, nil
	case err != nil:
		return models.UserProfile{}, false, err
	}

	prefs := models.DefaultPreferences()
	if current.Preferences != nil {
		prefs = *current.Preferences
	}
	p, err = p.overlay("preferences", prefs)
	if err != nil {
		return models.UserProfile{}, false, err
	}
	merged, err := apply(current, p)
	if err != nil {
		return models.UserProfile{}, false, err
	}
	prof := merged.Derive()
	prof.ID = current.ID
	prof.OwnerID = owner
	prof.CreatedAt = current.CreatedAt
	prof.UpdatedAt = now
	if err := models.Validate(prof); err != nil {
		return models.UserProfile{}, false, err
	}
	if err := s.store.Replace(ctx, ByID(owner, current.ID), prof); err != nil {
		return models.UserProfile{}, false, err
	}
	return prof, false, nil
}
