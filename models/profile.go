package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserProfile holds contact details and notification preferences. There is at
// most one per owner.
type UserProfile struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID string             `bson:"ownerId"       json:"ownerId"`

	Email string `bson:"email"           json:"email"           validate:"required,email"`
	Name  string `bson:"name"            json:"name"            validate:"required,max=200"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty" validate:"omitempty,phone"`

	Address     *Address     `bson:"address,omitempty"     json:"address,omitempty"`
	FarmDetails *FarmDetails `bson:"farmDetails,omitempty" json:"farmDetails,omitempty"`
	Preferences *Preferences `bson:"preferences,omitempty" json:"preferences,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type Address struct {
	Street  string `bson:"street,omitempty"  json:"street,omitempty"`
	City    string `bson:"city,omitempty"    json:"city,omitempty"`
	State   string `bson:"state,omitempty"   json:"state,omitempty"`
	Pincode string `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

type FarmDetails struct {
	FarmName       string           `bson:"farmName,omitempty"       json:"farmName,omitempty"`
	TotalArea      *float64         `bson:"totalArea,omitempty"      json:"totalArea,omitempty"      validate:"omitempty,gte=0"`
	AreaUnit       AreaUnit         `bson:"areaUnit,omitempty"       json:"areaUnit,omitempty"       validate:"omitempty,enum"`
	SoilType       SoilType         `bson:"soilType,omitempty"       json:"soilType,omitempty"       validate:"omitempty,enum"`
	IrrigationType []IrrigationType `bson:"irrigationType,omitempty" json:"irrigationType,omitempty" validate:"dive,enum"`
}

type Preferences struct {
	SMSNotifications   bool   `bson:"smsNotifications"   json:"smsNotifications"`
	EmailNotifications bool   `bson:"emailNotifications" json:"emailNotifications"`
	Language           string `bson:"language"           json:"language"`
	Timezone           string `bson:"timezone"           json:"timezone"`
}

// DefaultPreferences are applied when a profile is first written without any.
func DefaultPreferences() Preferences {
	return Preferences{
		SMSNotifications:   true,
		EmailNotifications: true,
		Language:           "en",
		Timezone:           "Asia/Kolkata",
	}
}

// SMSEnabled reports whether the owner opted into SMS alerts.
func (p UserProfile) SMSEnabled() bool {
	return p.Preferences != nil && p.Preferences.SMSNotifications
}

func (p UserProfile) Derive() UserProfile {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)

	if p.Address != nil {
		a := *p.Address
		a.Country = strings.TrimSpace(a.Country)
		if a.Country == "" {
			a.Country = "India"
		}
		p.Address = &a
	}
	if p.FarmDetails != nil {
		fd := *p.FarmDetails
		fd.FarmName = strings.TrimSpace(fd.FarmName)
		if fd.AreaUnit == "" {
			fd.AreaUnit = AreaUnitAcre
		}
		p.FarmDetails = &fd
	}

	prefs := DefaultPreferences()
	if p.Preferences != nil {
		prefs.SMSNotifications = p.Preferences.SMSNotifications
		prefs.EmailNotifications = p.Preferences.EmailNotifications
		if p.Preferences.Language != "" {
			prefs.Language = p.Preferences.Language
		}
		if p.Preferences.Timezone != "" {
			prefs.Timezone = p.Preferences.Timezone
		}
	}
	p.Preferences = &prefs
	return p
}
