package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// OrderStatuses lists every accepted status. Any status may follow any other.
var OrderStatuses = []string{OrderStatusPending, OrderStatusPaid, OrderStatusDelivered, OrderStatusCancelled}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// OrderItem is a snapshot of a product taken when the order was placed.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
}

type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Phone      string `bson:"phone" json:"phone"`
}

// Order defines the persisted order document.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	Total           float64            `bson:"total" json:"total"`
	Status          string             `bson:"status" json:"status"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderView is an order with its owner summary attached.
type OrderView struct {
	Order
	User *UserSummary `json:"user,omitempty"`
}

// WithOwners attaches owner summaries from owners to each order.
func WithOwners(orders []Order, owners map[primitive.ObjectID]UserSummary) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		view := OrderView{Order: o}
		if owner, ok := owners[o.UserID]; ok {
			summary := owner
			view.User = &summary
		}
		views = append(views, view)
	}
	return views
}

// OwnerIDs returns the distinct owners of orders.
func OwnerIDs(orders []Order) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(orders))
	ids := make([]primitive.ObjectID, 0, len(orders))
	for _, o := range orders {
		if _, ok := seen[o.UserID]; ok {
			continue
		}
		seen[o.UserID] = struct{}{}
		ids = append(ids, o.UserID)
	}
	return ids
}
