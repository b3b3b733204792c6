package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"petshop/internal/apperr"
	"petshop/internal/models"
	"petshop/internal/response"
)

var errProductNotFound = apperr.NotFound("product not found")

type productRequest struct {
	Name        string   `json:"name" binding:"required,notblank,max=100"`
	Description string   `json:"description" binding:"required,notblank,max=2000"`
	Price       *float64 `json:"price" binding:"required,min=0"`
	Category    string   `json:"category" binding:"required,oneof=dog cat bird fish other"`
	Stock       *int     `json:"stock" binding:"omitempty,min=0"`
	Image       string   `json:"image"`
}

type productUpdateRequest struct {
	Name        *string  `json:"name" binding:"omitempty,notblank,max=100"`
	Description *string  `json:"description" binding:"omitempty,notblank,max=2000"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Category    *string  `json:"category" binding:"omitempty,oneof=dog cat bird fish other"`
	Stock       *int     `json:"stock" binding:"omitempty,min=0"`
	Image       *string  `json:"image"`
}

func ListProducts(products ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			response.Error(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		items, total, err := products.List(ctx, models.ProductQuery{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			Page:     page,
			Limit:    limit,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Paginated(c, items, newPagination(page, limit, total))
	}
}

func FeaturedProducts(products ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		items, err := products.Featured(ctx, models.FeaturedProductCount)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, items)
	}
}

func ProductCategories(products ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		categories, err := products.Categories(ctx)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, categories)
	}
}

func GetProduct(products ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id", errProductNotFound)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.FindByID(ctx, id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, product)
	}
}

func CreateProduct(products ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if !bindJSON(c, &req) {
			return
		}

		product := models.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       *req.Price,
			Category:    req.Category,
			Image:       req.Image,
		}
		if req.Stock != nil {
			product.Stock = *req.Stock
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		created, err := products.Create(ctx, product)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusCreated, "product created", created)
	}
}

func UpdateProduct(products ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id", errProductNotFound)
		if !ok {
			return
		}

		var req productUpdateRequest
		if !bindJSON(c, &req) {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := products.Update(ctx, id, models.ProductUpdate{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			Stock:       req.Stock,
			Image:       req.Image,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusOK, "product updated", updated)
	}
}

func DeleteProduct(products ProductRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id", errProductNotFound)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := products.Delete(ctx, id); err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusOK, "product deleted", nil)
	}
}
