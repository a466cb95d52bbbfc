package ledger

import (
	"encoding/json"
	"testing"

	"farmledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPatchStripDropsServerFields(t *testing.T) {
	p := Patch{
		"id":        json.RawMessage(`"x"`),
		"_id":       json.RawMessage(`"x"`),
		"ownerId":   json.RawMessage(`"U2"`),
		"userId":    json.RawMessage(`"U2"`),
		"clerkId":   json.RawMessage(`"U2"`),
		"createdAt": json.RawMessage(`"2020-01-01T00:00:00Z"`),
		"updatedAt": json.RawMessage(`"2020-01-01T00:00:00Z"`),
		"notes":     json.RawMessage(`"kept"`),
	}
	stripped := p.Strip()
	assert.Equal(t, Patch{"notes": json.RawMessage(`"kept"`)}, stripped)
	assert.Len(t, p, 8, "Strip does not modify the receiver")
}

func TestApplyReplacesNestedObjectsWhole(t *testing.T) {
	id := primitive.NewObjectID()
	current := models.CropRecord{
		ID:       id,
		OwnerID:  "U1",
		CropName: "Rice",
		SoilData: &models.SoilData{Nitrogen: num(90), PH: num(6.5)},
	}
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"soilData":{"pH":7},"ownerId":"U9","variety":"IR64"}`), &p))

	out, err := apply(current, p)
	require.NoError(t, err)
	assert.Equal(t, id, out.ID)
	assert.Equal(t, "U1", out.OwnerID)
	assert.Equal(t, "IR64", out.Variety)
	require.NotNil(t, out.SoilData)
	assert.Nil(t, out.SoilData.Nitrogen)
	assert.Equal(t, 7.0, *out.SoilData.PH)
}
