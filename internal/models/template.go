package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Template is a reusable invoice layout. Built-in templates have an empty
// UserID and are visible to every user.
type Template struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Name           string             `bson:"name" json:"name"`
	Body           string             `bson:"body" json:"body"`
	DefaultNotes   string             `bson:"default_notes" json:"default_notes"`
	DefaultTaxRate float64            `bson:"default_tax_rate" json:"default_tax_rate"`
	BuiltIn        bool               `bson:"built_in" json:"built_in"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
