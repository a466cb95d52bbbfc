package ledger

import (
	"context"
	"testing"
	"time"

	"farmledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestFilterBSON(t *testing.T) {
	id := primitive.NewObjectID()
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	q, err := filterBSON(ByID("U1", id).Where("resourceType", "Seed").Between("transactionDate", &from, nil))
	require.NoError(t, err)
	assert.Equal(t, bson.M{
		"$or": bson.A{
			bson.M{"ownerId": "U1"},
			bson.M{"clerkId": "U1"},
			bson.M{"userId": "U1"},
		},
		"_id":             id,
		"resourceType":    "Seed",
		"transactionDate": bson.M{"$gte": from},
	}, q)

	other := primitive.NewObjectID()
	q, err = filterBSON(OwnedBy("U1").WithIDs(id, other))
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$in": []primitive.ObjectID{id, other}}, q["_id"])

	_, err = filterBSON(Filter{})
	assert.ErrorIs(t, err, ErrNoOwner)
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get decodes the owner's document", func(mt *mtest.T) {
		store := NewMongoStore[models.CropRecord](mt.Coll, "plantingDate")
		id := primitive.NewObjectID()
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "clerkId", Value: "U1"},
			{Key: "cropName", Value: "Wheat"},
			{Key: "season", Value: "Rabi"},
		}))

		c, err := store.Get(context.Background(), ByID("U1", id))
		require.NoError(t, err)
		assert.Equal(t, id, c.ID)
		assert.Equal(t, "Wheat", c.CropName)
		assert.Equal(t, models.SeasonRabi, c.Season)
	})

	mt.Run("get without match is not found", func(mt *mtest.T) {
		store := NewMongoStore[models.CropRecord](mt.Coll, "plantingDate")
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := store.Get(context.Background(), ByID("U2", primitive.NewObjectID()))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("delete of nothing is not found", func(mt *mtest.T) {
		store := NewMongoStore[models.CropRecord](mt.Coll, "plantingDate")
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := store.Delete(context.Background(), ByID("U1", primitive.NewObjectID()))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("replace of nothing is not found", func(mt *mtest.T) {
		store := NewMongoStore[models.CropRecord](mt.Coll, "plantingDate")
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := store.Replace(context.Background(), ByID("U1", primitive.NewObjectID()), models.CropRecord{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("sum decodes grouped totals", func(mt *mtest.T) {
		store := NewMongoStore[models.ResourceRecord](mt.Coll, "transactionDate")
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "Fertilizer"}, {Key: "sum", Value: 850.0}, {Key: "count", Value: int32(2)}},
			bson.D{{Key: "_id", Value: "Seed"}, {Key: "sum", Value: int32(1000)}, {Key: "count", Value: int32(2)}},
		))

		got, err := store.Sum(context.Background(), OwnedBy("U1"), "resourceType", "totalCost")
		require.NoError(t, err)
		assert.Equal(t, []Bucket{{Key: "Fertilizer", Sum: 850, Count: 2}, {Key: "Seed", Sum: 1000, Count: 2}}, got)
	})

	mt.Run("unscoped calls never reach the server", func(mt *mtest.T) {
		store := NewMongoStore[models.CropRecord](mt.Coll, "plantingDate")
		_, err := store.Find(context.Background(), Filter{}, 10, 0)
		assert.ErrorIs(t, err, ErrNoOwner)
		assert.ErrorIs(t, store.Delete(context.Background(), Filter{}), ErrNoOwner)
	})
}

type legacyCrop struct {
	ID           primitive.ObjectID `bson:"_id"`
	ClerkID      string             `bson:"clerkId"`
	UserID       string             `bson:"userId"`
	CropName     string             `bson:"cropName"`
	PlantingDate time.Time          `bson:"plantingDate"`
}

func TestMemStoreMatchesLegacyOwnerFields(t *testing.T) {
	ctx := context.Background()
	legacy := NewMemStore[legacyCrop]("plantingDate")
	id := primitive.NewObjectID()
	require.NoError(t, legacy.Insert(ctx, legacyCrop{ID: id, ClerkID: "user_abc", UserID: "user_abc", CropName: "Maize"}))

	got, err := legacy.Get(ctx, ByID("user_abc", id))
	require.NoError(t, err)
	assert.Equal(t, "Maize", got.CropName)

	_, err = legacy.Get(ctx, ByID("user_xyz", id))
	assert.ErrorIs(t, err, ErrNotFound)

	// The typed ledger sees the same document and reports the canonical owner.
	crops := NewCrops(NewMemStore[models.CropRecord]("plantingDate"))
	raw, err := encode(legacyCrop{ID: id, ClerkID: "user_abc", CropName: "Maize"})
	require.NoError(t, err)
	crops.store.(*MemStore[models.CropRecord]).docs[id] = raw

	c, err := crops.Get(ctx, "user_abc", id)
	require.NoError(t, err)
	assert.Equal(t, "user_abc", c.OwnerID)
}
