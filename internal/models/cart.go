package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Cart is the single shopping cart owned by a user.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CartLine is a cart item with its product document resolved.
type CartLine struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}

// CartView is the populated cart returned to clients.
type CartView struct {
	ID        primitive.ObjectID `json:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId,omitempty"`
	Items     []CartLine         `json:"items"`
	CreatedAt *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt *time.Time         `json:"updatedAt,omitempty"`
}

// EmptyCartView is returned when the user has no cart document.
func EmptyCartView() CartView {
	return CartView{Items: []CartLine{}}
}

// Populate resolves each item against products. Items whose product has
// been removed keep a nil product.
func (c Cart) Populate(products map[primitive.ObjectID]Product) CartView {
	lines := make([]CartLine, 0, len(c.Items))
	for _, item := range c.Items {
		line := CartLine{Quantity: item.Quantity}
		if product, ok := products[item.Product]; ok {
			p := product
			line.Product = &p
		}
		lines = append(lines, line)
	}
	createdAt, updatedAt := c.CreatedAt, c.UpdatedAt
	return CartView{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     lines,
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
	}
}

// ProductIDs returns the distinct product ids referenced by the cart.
func (c Cart) ProductIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(c.Items))
	ids := make([]primitive.ObjectID, 0, len(c.Items))
	for _, item := range c.Items {
		if _, ok := seen[item.Product]; ok {
			continue
		}
		seen[item.Product] = struct{}{}
		ids = append(ids, item.Product)
	}
	return ids
}
