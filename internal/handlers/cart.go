package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petshop/internal/apperr"
	"petshop/internal/models"
	"petshop/internal/response"
)

var (
	errCartExists     = apperr.Validation("cart already exists")
	errCartItemsEmpty = apperr.Validation("cart items are required")
)

type cartItemRequest struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type cartRequest struct {
	Items []cartItemRequest `json:"items" binding:"dive"`
}

func productMissing(id string) error {
	return apperr.NotFound(fmt.Sprintf("product not found: %s", id))
}

func insufficientStock(p models.Product) error {
	return apperr.InsufficientStock(fmt.Sprintf("insufficient stock for %s (%d left)", p.Name, p.Stock))
}

// resolveCartItems checks every requested line against the catalog. Stock
// is only checked, never reserved.
func resolveCartItems(ctx context.Context, products ProductRepository, req []cartItemRequest) ([]models.CartItem, map[primitive.ObjectID]models.Product, error) {
	items := make([]models.CartItem, 0, len(req))
	for _, line := range req {
		id, err := primitive.ObjectIDFromHex(line.Product)
		if err != nil {
			return nil, nil, productMissing(line.Product)
		}
		items = append(items, models.CartItem{Product: id, Quantity: line.Quantity})
	}

	found, err := products.FindByIDs(ctx, models.Cart{Items: items}.ProductIDs())
	if err != nil {
		return nil, nil, err
	}

	for _, item := range items {
		product, ok := found[item.Product]
		if !ok {
			return nil, nil, productMissing(item.Product.Hex())
		}
		if item.Quantity > product.Stock {
			return nil, nil, insufficientStock(product)
		}
	}
	return items, found, nil
}

func GetCart(carts CartRepository, products ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cart, err := carts.FindByUser(ctx, user.ID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				response.OK(c, models.EmptyCartView())
				return
			}
			response.Error(c, err)
			return
		}

		found, err := products.FindByIDs(ctx, cart.ProductIDs())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, cart.Populate(found))
	}
}

func CreateCart(carts CartRepository, products ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req cartRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		_, err := carts.FindByUser(ctx, user.ID)
		switch {
		case err == nil:
			response.Error(c, errCartExists)
			return
		case !apperr.IsKind(err, apperr.KindNotFound):
			response.Error(c, err)
			return
		}

		if len(req.Items) == 0 {
			response.Error(c, errCartItemsEmpty)
			return
		}

		items, found, err := resolveCartItems(ctx, products, req.Items)
		if err != nil {
			response.Error(c, err)
			return
		}

		cart, err := carts.Create(ctx, user.ID, items)
		if err != nil {
			if apperr.IsKind(apperr.From(err), apperr.KindDuplicate) {
				err = errCartExists
			}
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusCreated, "cart created", cart.Populate(found))
	}
}

// UpdateCart replaces the whole item list. An empty list removes the cart.
func UpdateCart(carts CartRepository, products ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req cartRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if len(req.Items) == 0 {
			if err := carts.DeleteByUser(ctx, user.ID); err != nil {
				response.Error(c, err)
				return
			}
			response.OK(c, models.EmptyCartView())
			return
		}

		items, found, err := resolveCartItems(ctx, products, req.Items)
		if err != nil {
			response.Error(c, err)
			return
		}

		cart, err := carts.Replace(ctx, user.ID, items)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, cart.Populate(found))
	}
}

func ClearCart(carts CartRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := carts.DeleteByUser(ctx, user.ID); err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusOK, "cart cleared", models.EmptyCartView())
	}
}
