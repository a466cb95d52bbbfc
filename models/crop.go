package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CropRecord is one planting in a farmer's crop ledger.
type CropRecord struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID string             `bson:"ownerId"       json:"ownerId"`

	CropName string   `bson:"cropName"          json:"cropName"          validate:"required,max=100"`
	CropType CropType `bson:"cropType"          json:"cropType"          validate:"required,enum"`
	Variety  string   `bson:"variety,omitempty" json:"variety,omitempty" validate:"max=100"`

	PlantingDate        *Date `bson:"plantingDate"                json:"plantingDate"                validate:"required"`
	ExpectedHarvestDate *Date `bson:"expectedHarvestDate"         json:"expectedHarvestDate"         validate:"required"`
	ActualHarvestDate   *Date `bson:"actualHarvestDate,omitempty" json:"actualHarvestDate,omitempty"`

	Area     *float64   `bson:"area"     json:"area"     validate:"required,gte=0"`
	AreaUnit AreaUnit   `bson:"areaUnit" json:"areaUnit" validate:"required,enum"`
	Status   CropStatus `bson:"status"   json:"status"   validate:"required,enum"`
	Season   Season     `bson:"season"   json:"season"   validate:"required,enum"`

	YieldExpected *float64  `bson:"yieldExpected,omitempty" json:"yieldExpected,omitempty" validate:"omitempty,gte=0"`
	YieldActual   *float64  `bson:"yieldActual,omitempty"   json:"yieldActual,omitempty"   validate:"omitempty,gte=0"`
	YieldUnit     YieldUnit `bson:"yieldUnit"               json:"yieldUnit"               validate:"required,enum"`

	Location    *CropLocation `bson:"location,omitempty"    json:"location,omitempty"`
	SoilData    *SoilData     `bson:"soilData,omitempty"    json:"soilData,omitempty"`
	WeatherData *WeatherData  `bson:"weatherData,omitempty" json:"weatherData,omitempty"`

	Notes  string   `bson:"notes,omitempty"  json:"notes,omitempty"  validate:"max=1000"`
	Images []string `bson:"images,omitempty" json:"images,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CropLocation struct {
	FieldName   string       `bson:"fieldName,omitempty"   json:"fieldName,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `bson:"latitude"  json:"latitude"  validate:"gte=-90,lte=90"`
	Longitude float64 `bson:"longitude" json:"longitude" validate:"gte=-180,lte=180"`
}

// SoilData is an N-P-K + pH snapshot taken for the planting.
type SoilData struct {
	Nitrogen   *float64 `bson:"nitrogen,omitempty"   json:"nitrogen,omitempty"   validate:"omitempty,gte=0"`
	Phosphorus *float64 `bson:"phosphorus,omitempty" json:"phosphorus,omitempty" validate:"omitempty,gte=0"`
	Potassium  *float64 `bson:"potassium,omitempty"  json:"potassium,omitempty"  validate:"omitempty,gte=0"`
	PH         *float64 `bson:"pH,omitempty"         json:"pH,omitempty"         validate:"omitempty,gte=0,lte=14"`
}

type WeatherData struct {
	AvgTemperature *float64 `bson:"avgTemperature,omitempty" json:"avgTemperature,omitempty"`
	AvgRainfall    *float64 `bson:"avgRainfall,omitempty"    json:"avgRainfall,omitempty"    validate:"omitempty,gte=0"`
	AvgHumidity    *float64 `bson:"avgHumidity,omitempty"    json:"avgHumidity,omitempty"    validate:"omitempty,gte=0,lte=100"`
}

// CropSummary is the projection of a crop attached to resource records that
// reference it.
type CropSummary struct {
	ID           primitive.ObjectID `json:"id"`
	CropName     string             `json:"cropName"`
	PlantingDate *Date              `json:"plantingDate,omitempty"`
}

// Derive returns a normalized copy with defaults applied. It never touches
// identity or timestamps.
func (c CropRecord) Derive() CropRecord {
	c.CropName = strings.TrimSpace(c.CropName)
	c.Variety = strings.TrimSpace(c.Variety)
	if c.AreaUnit == "" {
		c.AreaUnit = AreaUnitAcre
	}
	if c.Status == "" {
		c.Status = CropStatusPlanned
	}
	if c.YieldUnit == "" {
		c.YieldUnit = YieldUnitQuintal
	}
	if c.Location != nil {
		loc := *c.Location
		loc.FieldName = strings.TrimSpace(loc.FieldName)
		c.Location = &loc
	}
	return c
}

func (c CropRecord) Summary() CropSummary {
	return CropSummary{ID: c.ID, CropName: c.CropName, PlantingDate: c.PlantingDate}
}
