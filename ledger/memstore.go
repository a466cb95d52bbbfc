package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore is an in-memory Store used for local runs and tests. Documents are
// kept in their BSON form so filters see the same field names and value types
// as MongoStore does.
type MemStore[T any] struct {
	mu     sync.RWMutex
	docs   map[primitive.ObjectID]bson.M
	sortBy string
}

func NewMemStore[T any](sortBy string) *MemStore[T] {
	return &MemStore[T]{docs: make(map[primitive.ObjectID]bson.M), sortBy: sortBy}
}

func (s *MemStore[T]) Find(_ context.Context, f Filter, limit, skip int64) ([]T, error) {
	matched, err := s.match(f)
	if err != nil {
		return nil, err
	}
	if skip >= int64(len(matched)) {
		return []T{}, nil
	}
	matched = matched[skip:]
	if limit > 0 && limit < int64(len(matched)) {
		matched = matched[:limit]
	}
	out := make([]T, 0, len(matched))
	for _, d := range matched {
		doc, err := decode[T](d)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s *MemStore[T]) Count(_ context.Context, f Filter) (int64, error) {
	matched, err := s.match(f)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (s *MemStore[T]) Sum(_ context.Context, f Filter, groupBy, field string) ([]Bucket, error) {
	matched, err := s.match(f)
	if err != nil {
		return nil, err
	}
	groups := map[string]*Bucket{}
	for _, d := range matched {
		key, _ := d[groupBy].(string)
		b, ok := groups[key]
		if !ok {
			b = &Bucket{Key: key}
			groups[key] = b
		}
		b.Sum += number(d[field])
		b.Count++
	}
	out := make([]Bucket, 0, len(groups))
	for _, b := range groups {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemStore[T]) Get(_ context.Context, f Filter) (T, error) {
	var zero T
	matched, err := s.match(f)
	if err != nil {
		return zero, err
	}
	if len(matched) == 0 {
		return zero, ErrNotFound
	}
	return decode[T](matched[0])
}

func (s *MemStore[T]) Insert(_ context.Context, doc T) error {
	d, err := encode(doc)
	if err != nil {
		return err
	}
	id, ok := d["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		return errors.New("insert: document has no _id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.docs[id]; dup {
		return fmt.Errorf("insert: duplicate _id %s", id.Hex())
	}
	s.docs[id] = d
	return nil
}

func (s *MemStore[T]) Replace(_ context.Context, f Filter, doc T) error {
	d, err := encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	matched, err := s.matchLocked(f)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return ErrNotFound
	}
	id := matched[0]["_id"].(primitive.ObjectID)
	d["_id"] = id
	s.docs[id] = d
	return nil
}

func (s *MemStore[T]) Delete(_ context.Context, f Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched, err := s.matchLocked(f)
	if err != nil {
		return err
	}
	if len(matched) == 0 {
		return ErrNotFound
	}
	delete(s.docs, matched[0]["_id"].(primitive.ObjectID))
	return nil
}

func (s *MemStore[T]) Ping(context.Context) error { return nil }

func (s *MemStore[T]) match(f Filter) ([]bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchLocked(f)
}

// matchLocked returns matching documents sorted like MongoStore.Find.
func (s *MemStore[T]) matchLocked(f Filter) ([]bson.M, error) {
	if f.Owner() == "" {
		return nil, ErrNoOwner
	}
	var ids map[primitive.ObjectID]bool
	if len(f.IDs()) > 0 {
		ids = make(map[primitive.ObjectID]bool, len(f.IDs()))
		for _, id := range f.IDs() {
			ids[id] = true
		}
	}

	var out []bson.M
	for id, d := range s.docs {
		if ids != nil && !ids[id] {
			continue
		}
		if !ownedBy(d, f.Owner()) || !matchesEqual(d, f.Equal()) || !inRange(d, f.Range()) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := datetime(out[i][s.sortBy]), datetime(out[j][s.sortBy])
		if ti != tj {
			return ti > tj
		}
		return out[i]["_id"].(primitive.ObjectID).Hex() > out[j]["_id"].(primitive.ObjectID).Hex()
	})
	return out, nil
}

func ownedBy(d bson.M, owner string) bool {
	if d[ownerField] == owner {
		return true
	}
	for _, alias := range OwnerAliases {
		if d[alias] == owner {
			return true
		}
	}
	return false
}

func matchesEqual(d bson.M, eq map[string]any) bool {
	for k, v := range eq {
		if d[k] != v {
			return false
		}
	}
	return true
}

func inRange(d bson.M, r *DateRange) bool {
	if r == nil {
		return true
	}
	v, ok := d[r.Field].(primitive.DateTime)
	if !ok {
		return false
	}
	t := v.Time()
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

func datetime(v any) int64 {
	if dt, ok := v.(primitive.DateTime); ok {
		return int64(dt)
	}
	return 0
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func encode[T any](doc T) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return d, nil
}

func decode[T any](d bson.M) (T, error) {
	var doc T
	raw, err := bson.Marshal(d)
	if err != nil {
		return doc, fmt.Errorf("decode: %w", err)
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode: %w", err)
	}
	return doc, nil
}
