// Package store persists the shop documents in MongoDB.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	UsersCollection    = "users"
	ProductsCollection = "products"
	CartsCollection    = "carts"
	OrdersCollection   = "orders"
)

// Stores groups every collection-backed store over one database.
type Stores struct {
	Users    *UserStore
	Products *ProductStore
	Carts    *CartStore
	Orders   *OrderStore
}

func New(db *mongo.Database) Stores {
	return Stores{
		Users:    NewUserStore(db),
		Products: NewProductStore(db),
		Carts:    NewCartStore(db),
		Orders:   NewOrderStore(db),
	}
}

// now is stubbed in tests.
var now = func() time.Time { return time.Now().UTC() }

func decodeAll[T any](ctx context.Context, cursor *mongo.Cursor) ([]T, error) {
	defer cursor.Close(ctx)

	out := make([]T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
