package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultCurrency = "INR"

// ResourceRecord is one purchase or expense line in a farmer's resource ledger.
// TotalCost is derived from Quantity and CostPerUnit and is never taken from input.
type ResourceRecord struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID string             `bson:"ownerId"       json:"ownerId"`

	ResourceType ResourceType `bson:"resourceType"       json:"resourceType"       validate:"required,enum"`
	ResourceName string       `bson:"resourceName"       json:"resourceName"       validate:"required,max=200"`
	Category     string       `bson:"category,omitempty" json:"category,omitempty"`

	Quantity    *float64 `bson:"quantity"    json:"quantity"    validate:"required,gte=0,finite"`
	Unit        string   `bson:"unit"        json:"unit"        validate:"required"`
	CostPerUnit *float64 `bson:"costPerUnit" json:"costPerUnit" validate:"required,gte=0,finite"`
	TotalCost   float64  `bson:"totalCost"   json:"totalCost"   validate:"gte=0,finite"`
	Currency    string   `bson:"currency"    json:"currency"    validate:"required,len=3,alpha"`

	TransactionDate *Date `bson:"transactionDate" json:"transactionDate" validate:"required"`

	Supplier      *Supplier           `bson:"supplier,omitempty"      json:"supplier,omitempty"`
	CropReference *primitive.ObjectID `bson:"cropReference,omitempty" json:"cropReference,omitempty"`
	Purpose       string              `bson:"purpose,omitempty"       json:"purpose,omitempty" validate:"max=500"`
	Notes         string              `bson:"notes,omitempty"         json:"notes,omitempty"   validate:"max=1000"`
	Invoice       *Invoice            `bson:"invoice,omitempty"       json:"invoice,omitempty"`
	PaymentStatus PaymentStatus       `bson:"paymentStatus"           json:"paymentStatus"     validate:"required,enum"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Supplier struct {
	Name    string `bson:"name,omitempty"    json:"name,omitempty"`
	Contact string `bson:"contact,omitempty" json:"contact,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

type Invoice struct {
	Number   string `bson:"number,omitempty"   json:"number,omitempty"`
	ImageURL string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

// ResourceView is a resource record as returned to clients, with the referenced
// crop attached when it still exists.
type ResourceView struct {
	ResourceRecord
	Crop *CropSummary `json:"crop,omitempty"`
}

// ResourceSummary aggregates matching resource records of one type.
type ResourceSummary struct {
	ResourceType string  `json:"_id"`
	TotalCost    float64 `json:"totalCost"`
	Count        int64   `json:"count"`
}

// Derive returns a normalized copy with defaults applied and TotalCost
// recomputed as Quantity * CostPerUnit.
func (r ResourceRecord) Derive() ResourceRecord {
	r.ResourceName = strings.TrimSpace(r.ResourceName)
	r.Category = strings.TrimSpace(r.Category)
	r.Unit = strings.TrimSpace(r.Unit)
	r.Purpose = strings.TrimSpace(r.Purpose)

	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	if r.PaymentStatus == "" {
		r.PaymentStatus = PaymentPaid
	}
	if r.Supplier != nil {
		s := Supplier{
			Name:    strings.TrimSpace(r.Supplier.Name),
			Contact: strings.TrimSpace(r.Supplier.Contact),
			Address: strings.TrimSpace(r.Supplier.Address),
		}
		r.Supplier = &s
	}
	if r.Invoice != nil {
		inv := Invoice{
			Number:   strings.TrimSpace(r.Invoice.Number),
			ImageURL: strings.TrimSpace(r.Invoice.ImageURL),
		}
		r.Invoice = &inv
	}

	r.TotalCost = LineTotal(r.Quantity, r.CostPerUnit)
	return r
}

// LineTotal is quantity * costPerUnit; a missing factor counts as zero. A
// product beyond float64 range comes back as +Inf and fails validation.
func LineTotal(quantity, costPerUnit *float64) float64 {
	if quantity == nil || costPerUnit == nil {
		return 0
	}
	return decimal.NewFromFloat(*quantity).Mul(decimal.NewFromFloat(*costPerUnit)).InexactFloat64()
}
