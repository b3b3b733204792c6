package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"petshop/internal/models"
)

// UserRepository is the account storage used by the auth and address
// handlers.
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	PhoneExists(ctx context.Context, phone string, exclude primitive.ObjectID) (bool, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (models.User, error)
	SaveAddresses(ctx context.Context, id primitive.ObjectID, addresses []models.Address) ([]models.Address, error)
	FindSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error)
}

type ProductRepository interface {
	List(ctx context.Context, q models.ProductQuery) ([]models.Product, int64, error)
	Featured(ctx context.Context, n int64) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	Create(ctx context.Context, product models.Product) (models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error)
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	Create(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (models.Cart, error)
	Replace(ctx context.Context, userID primitive.ObjectID, items []models.CartItem) (models.Cart, error)
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type OrderRepository interface {
	Create(ctx context.Context, order models.Order) (models.Order, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OrderMetrics receives order flow events. A nil *metrics.Metrics is valid.
type OrderMetrics interface {
	OrderCreated()
	StockRejected()
}
