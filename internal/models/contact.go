package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is a per-user address-book entry. Deletion is soft: IsActive is
// flipped to false and inactive contacts are excluded from listings.
type Contact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Company   string             `bson:"company" json:"company"`
	Position  string             `bson:"position" json:"position"`
	Notes     string             `bson:"notes" json:"notes"`
	Tags      []string           `bson:"tags" json:"tags"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}
