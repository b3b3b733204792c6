package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func createIndexes(db *mongo.Database, collection string, models ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		return errors.Wrapf(err, "create %s indexes", collection)
	}
	slog.Info("indexes ensured", "collection", collection, "indexes", names)
	return nil
}

func UserIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetName("phone_unique").SetUnique(true),
		},
	}
}

func ProductIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("category_createdAt"),
		},
	}
}

func CartIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_unique").SetUnique(true),
		},
	}
}

func OrderIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("userId_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
	}
}

func EnsureUserIndexes(db *mongo.Database) error {
	return createIndexes(db, "users", UserIndexModels()...)
}

func EnsureProductIndexes(db *mongo.Database) error {
	return createIndexes(db, "products", ProductIndexModels()...)
}

func EnsureCartIndexes(db *mongo.Database) error {
	return createIndexes(db, "carts", CartIndexModels()...)
}

func EnsureOrderIndexes(db *mongo.Database) error {
	return createIndexes(db, "orders", OrderIndexModels()...)
}

// EnsureIndexes creates every index the API relies on.
func EnsureIndexes(db *mongo.Database) error {
	for _, ensure := range []func(*mongo.Database) error{
		EnsureUserIndexes,
		EnsureProductIndexes,
		EnsureCartIndexes,
		EnsureOrderIndexes,
	} {
		if err := ensure(db); err != nil {
			return err
		}
	}
	return nil
}
