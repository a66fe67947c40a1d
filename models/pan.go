package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PanRecord holds the PAN verification step of a registration
type PanRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Aadhaar    string             `bson:"aadhaar" json:"aadhaar"`
	OrgType    string             `bson:"orgType" json:"orgType"` // option value of the organisation type select
	PAN        string             `bson:"pan" json:"pan"`
	PANName    string             `bson:"panName" json:"panName"`
	PANDob     string             `bson:"panDob" json:"panDob"` // date of birth or incorporation, as typed
	PANConsent bool               `bson:"panConsent" json:"panConsent"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
