package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"petshop/internal/apperr"
	"petshop/internal/models"
)

var ErrCartNotFound = apperr.NotFound("cart not found")

type CartStore struct {
	coll *mongo.Collection
}

func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{coll: db.Collection(CartsCollection)}
}

func (s *CartStore) FindByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	if err := s.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Cart{}, ErrCartNotFound
		}
		return models.Cart{}, errors.Wrap(err, "find cart")
	}
	return cart, nil
}

// Create inserts a new cart. The unique userId index rejects a second cart
// for the same user.
func (s *CartStore) Create(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (models.Cart, error) {
	ts := now()
	cart := models.Cart{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Items:     items,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := s.coll.InsertOne(ctx, cart); err != nil {
		return models.Cart{}, errors.Wrap(err, "insert cart")
	}
	return cart, nil
}

// Replace overwrites the item list of the user's cart, creating the cart
// when it does not exist yet.
func (s *CartStore) Replace(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (models.Cart, error) {
	ts := now()
	var cart models.Cart
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set":         bson.M{"items": items, "updatedAt": ts},
			"$setOnInsert": bson.M{"createdAt": ts},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&cart)
	if err != nil {
		return models.Cart{}, errors.Wrap(err, "replace cart")
	}
	return cart, nil
}

// DeleteByUser removes the user's cart. A missing cart is not an error.
func (s *CartStore) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"userId": userID})
	return errors.Wrap(err, "delete cart")
}
