package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a Store backed by one MongoDB collection.
type MongoStore[T any] struct {
	coll   *mongo.Collection
	sortBy string
}

// NewMongoStore returns a store over coll whose Find sorts by sortBy descending.
func NewMongoStore[T any](coll *mongo.Collection, sortBy string) *MongoStore[T] {
	return &MongoStore[T]{coll: coll, sortBy: sortBy}
}

// EnsureIndexes creates the given indexes; existing identical ones are a no-op.
func (s *MongoStore[T]) EnsureIndexes(ctx context.Context, idx ...mongo.IndexModel) error {
	if len(idx) == 0 {
		return nil
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, idx); err != nil {
		return fmt.Errorf("create indexes on %s: %w", s.coll.Name(), err)
	}
	return nil
}

func (s *MongoStore[T]) Find(ctx context.Context, f Filter, limit, skip int64) ([]T, error) {
	q, err := filterBSON(f)
	if err != nil {
		return nil, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: s.sortBy, Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", s.coll.Name(), err)
	}
	defer cur.Close(ctx)

	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}
	return out, nil
}

func (s *MongoStore[T]) Count(ctx context.Context, f Filter) (int64, error) {
	q, err := filterBSON(f)
	if err != nil {
		return 0, err
	}
	n, err := s.coll.CountDocuments(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", s.coll.Name(), err)
	}
	return n, nil
}

func (s *MongoStore[T]) Sum(ctx context.Context, f Filter, groupBy, field string) ([]Bucket, error) {
	q, err := filterBSON(f)
	if err != nil {
		return nil, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: q}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + groupBy},
			{Key: "sum", Value: bson.D{{Key: "$sum", Value: "$" + field}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", s.coll.Name(), err)
	}
	defer cur.Close(ctx)

	out := []Bucket{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s aggregate: %w", s.coll.Name(), err)
	}
	return out, nil
}

func (s *MongoStore[T]) Get(ctx context.Context, f Filter) (T, error) {
	var doc T
	q, err := filterBSON(f)
	if err != nil {
		return doc, err
	}
	if err := s.coll.FindOne(ctx, q).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return doc, ErrNotFound
		}
		return doc, fmt.Errorf("find one %s: %w", s.coll.Name(), err)
	}
	return doc, nil
}

func (s *MongoStore[T]) Insert(ctx context.Context, doc T) error {
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", s.coll.Name(), err)
	}
	return nil
}

func (s *MongoStore[T]) Replace(ctx context.Context, f Filter, doc T) error {
	q, err := filterBSON(f)
	if err != nil {
		return err
	}
	res, err := s.coll.ReplaceOne(ctx, q, doc)
	if err != nil {
		return fmt.Errorf("replace %s: %w", s.coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore[T]) Delete(ctx context.Context, f Filter) error {
	q, err := filterBSON(f)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, q)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore[T]) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// filterBSON translates f into a query document. The owner predicate also
// matches the legacy alias fields.
func filterBSON(f Filter) (bson.M, error) {
	if f.Owner() == "" {
		return nil, ErrNoOwner
	}
	owner := bson.A{bson.M{ownerField: f.Owner()}}
	for _, alias := range OwnerAliases {
		owner = append(owner, bson.M{alias: f.Owner()})
	}
	q := bson.M{"$or": owner}

	for k, v := range f.Equal() {
		q[k] = v
	}
	switch ids := f.IDs(); {
	case len(ids) == 1:
		q["_id"] = ids[0]
	case len(ids) > 1:
		q["_id"] = bson.M{"$in": ids}
	}
	if r := f.Range(); r != nil {
		bounds := bson.M{}
		if r.From != nil {
			bounds["$gte"] = *r.From
		}
		if r.To != nil {
			bounds["$lte"] = *r.To
		}
		q[r.Field] = bounds
	}
	return q, nil
}
