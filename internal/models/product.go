package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryAll          = "all"
	DefaultProductImage  = "https://via.placeholder.com/300x300?text=No+Image"
	FeaturedProductCount = 8
)

// Categories lists the accepted product categories.
var Categories = []string{"dog", "cat", "bird", "fish", "other"}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Stock       int                `bson:"stock" json:"stock"`
	Image       string             `bson:"image" json:"image"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProductQuery is a catalog listing request. Page is 1-based.
type ProductQuery struct {
	Category string
	Search   string
	Page     int64
	Limit    int64
}

// Skip returns the number of documents before the requested page.
func (q ProductQuery) Skip() int64 {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// ProductUpdate is a partial product change; nil fields stay untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
	Image       *string
}

func (p ProductUpdate) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
}
