package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Registration is a final form submission. Values are stored exactly as
// submitted, keyed by schema field name.
type Registration struct {
	Values    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document flattens the registration into the stored shape: the submitted
// fields alongside createdAt and updatedAt.
func (r Registration) Document() bson.M {
	doc := make(bson.M, len(r.Values)+2)
	for k, v := range r.Values {
		doc[k] = v
	}
	doc["createdAt"] = r.CreatedAt
	doc["updatedAt"] = r.UpdatedAt
	return doc
}
