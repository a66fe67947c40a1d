package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtpRecord is an issued one-time code. Records are never consumed or expired.
type OtpRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Aadhaar   string             `bson:"aadhaar" json:"aadhaar"`
	Name      string             `bson:"name" json:"name"`
	OTP       string             `bson:"otp" json:"-"` // never echoed back from storage
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
