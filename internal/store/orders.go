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

var ErrOrderNotFound = apperr.NotFound("order not found")

type OrderStore struct {
	coll *mongo.Collection
}

func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{coll: db.Collection(OrdersCollection)}
}

func (s *OrderStore) Create(ctx context.Context, order models.Order) (models.Order, error) {
	ts := now()
	order.ID = primitive.NewObjectID()
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	order.CreatedAt = ts
	order.UpdatedAt = ts

	if _, err := s.coll.InsertOne(ctx, order); err != nil {
		return models.Order{}, errors.Wrap(err, "insert order")
	}
	return order, nil
}

func (s *OrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, errors.Wrap(err, "find order")
	}
	return order, nil
}

func (s *OrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.find(ctx, bson.M{"userId": userID})
}

func (s *OrderStore) FindAll(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{})
}

func (s *OrderStore) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	orders, err := decodeAll[models.Order](ctx, cursor)
	if err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (models.Order, error) {
	var order models.Order
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, errors.Wrap(err, "update order status")
	}
	return order, nil
}

func (s *OrderStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete order")
	}
	if res.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
