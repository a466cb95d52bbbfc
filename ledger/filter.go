package ledger

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter selects documents of one owner. The owner can only be set through
// OwnedBy, so every store call is scoped to a caller.
type Filter struct {
	owner string
	equal map[string]any
	ids   []primitive.ObjectID
	rng   *DateRange
}

// DateRange bounds a datetime field; nil bounds are open.
type DateRange struct {
	Field string
	From  *time.Time
	To    *time.Time
}

// OwnedBy starts a filter for owner.
func OwnedBy(owner string) Filter {
	return Filter{owner: owner}
}

// ByID selects a single document of owner.
func ByID(owner string, id primitive.ObjectID) Filter {
	return OwnedBy(owner).WithIDs(id)
}

func (f Filter) Owner() string { return f.owner }

// Where adds an equality predicate. The receiver is not modified.
func (f Filter) Where(field string, value any) Filter {
	eq := make(map[string]any, len(f.equal)+1)
	for k, v := range f.equal {
		eq[k] = v
	}
	eq[field] = value
	f.equal = eq
	return f
}

func (f Filter) WithIDs(ids ...primitive.ObjectID) Filter {
	f.ids = append([]primitive.ObjectID(nil), ids...)
	return f
}

// Between restricts field to [from, to]; either bound may be nil. With both
// nil the filter is returned unchanged.
func (f Filter) Between(field string, from, to *time.Time) Filter {
	if from == nil && to == nil {
		return f
	}
	f.rng = &DateRange{Field: field, From: from, To: to}
	return f
}

func (f Filter) Equal() map[string]any { return f.equal }
func (f Filter) IDs() []primitive.ObjectID { return f.ids }
func (f Filter) Range() *DateRange         { return f.rng }
