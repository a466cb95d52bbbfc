package ledger

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPageWindowParsing(t *testing.T) {
	tests := []struct {
		limit, skip         string
		wantLimit, wantSkip int64
	}{
		{"", "", 50, 0},
		{"10", "20", 10, 20},
		{"abc", "xyz", 50, 0},
		{"-5", "-1", 50, 0},
		{"0", "0", 50, 0},
		{"100000", "3", MaxLimit, 3},
		{"12.5", "1e3", 50, 0},
	}
	for _, tt := range tests {
		q := CropQuery("U1", map[string]string{"limit": tt.limit, "skip": tt.skip})
		assert.Equal(t, tt.wantLimit, q.Limit, "limit=%q", tt.limit)
		assert.Equal(t, tt.wantSkip, q.Skip, "skip=%q", tt.skip)
	}
}

func TestCropQueryFilters(t *testing.T) {
	q := CropQuery("U1", map[string]string{"status": "Growing", "season": "Rabi", "ownerId": "U2"})
	assert.Equal(t, "U1", q.Filter.Owner())
	assert.Equal(t, map[string]any{"status": "Growing", "season": "Rabi"}, q.Filter.Equal())
	assert.Nil(t, q.Filter.Range())

	q = CropQuery("U1", nil)
	assert.Empty(t, q.Filter.Equal())
}

func TestResourceQueryDateRange(t *testing.T) {
	june1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	june30 := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	q := ResourceQuery("U1", nil)
	assert.Nil(t, q.Filter.Range(), "no bounds, no date filter")

	q = ResourceQuery("U1", map[string]string{"startDate": "2024-06-01"})
	require.NotNil(t, q.Filter.Range())
	assert.Equal(t, "transactionDate", q.Filter.Range().Field)
	assert.Equal(t, june1, *q.Filter.Range().From)
	assert.Nil(t, q.Filter.Range().To)

	q = ResourceQuery("U1", map[string]string{"endDate": "2024-06-30"})
	require.NotNil(t, q.Filter.Range())
	assert.Nil(t, q.Filter.Range().From)
	assert.Equal(t, june30, *q.Filter.Range().To)

	q = ResourceQuery("U1", map[string]string{"startDate": "2024-06-01T00:00:00Z", "endDate": "2024-06-30"})
	require.NotNil(t, q.Filter.Range())
	assert.Equal(t, june1, *q.Filter.Range().From)
	assert.Equal(t, june30, *q.Filter.Range().To)

	q = ResourceQuery("U1", map[string]string{"startDate": "yesterday"})
	assert.Nil(t, q.Filter.Range(), "malformed bound is dropped")
}

func TestResourceQueryEquality(t *testing.T) {
	id := primitive.NewObjectID()
	q := ResourceQuery("U1", map[string]string{"resourceType": "Seed", "cropReference": id.Hex()})
	assert.Equal(t, map[string]any{"resourceType": "Seed", "cropReference": id}, q.Filter.Equal())

	q = ResourceQuery("U1", map[string]string{"cropReference": "not-an-id"})
	assert.Equal(t, "not-an-id", q.Filter.Equal()["cropReference"])
}

func TestValuesToParamsTakesFirst(t *testing.T) {
	v := url.Values{"status": {"Planned", "Growing"}, "empty": {}}
	assert.Equal(t, map[string]string{"status": "Planned"}, ValuesToParams(v))
}

func TestFilterWhereDoesNotAlias(t *testing.T) {
	base := OwnedBy("U1").Where("status", "Planned")
	a := base.Where("season", "Rabi")
	b := base.Where("season", "Zaid")
	assert.Len(t, base.Equal(), 1)
	assert.Equal(t, "Rabi", a.Equal()["season"])
	assert.Equal(t, "Zaid", b.Equal()["season"])
}
