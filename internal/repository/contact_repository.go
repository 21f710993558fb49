package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
)

// MongoContactRepository is a MongoDB implementation of ContactRepository
type MongoContactRepository struct {
	collection *mongo.Collection
}

// NewContactRepository creates a new ContactRepository backed by the contacts
// collection
func NewContactRepository(db *mongo.Database) ContactRepository {
	return &MongoContactRepository{collection: db.Collection("contacts")}
}

// Create inserts a new contact
func (r *MongoContactRepository) Create(ctx context.Context, contact *models.Contact) error {
	if contact.ID.IsZero() {
		contact.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, contact)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// FindByID finds a contact by ID
func (r *MongoContactRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	var contact models.Contact
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// List returns a page of the owner's active contacts plus the total count
func (r *MongoContactRepository) List(ctx context.Context, ownerID primitive.ObjectID, offset, limit int) ([]models.Contact, int64, error) {
	query := bson.M{"user_id": ownerID, "isActive": true}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	contacts := []models.Contact{}
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// Update replaces a contact document
func (r *MongoContactRepository) Update(ctx context.Context, contact *models.Contact) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": contact.ID}, contact)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
