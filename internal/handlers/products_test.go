package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petshop/internal/models"
)

func newProductEngine(products *fakeProducts) http.Handler {
	r := newEngine()
	r.GET("/products", ListProducts(products))
	r.GET("/products/featured", FeaturedProducts(products))
	r.GET("/products/categories", ProductCategories(products))
	r.GET("/products/:id", GetProduct(products))
	r.POST("/products", CreateProduct(products))
	r.PUT("/products/:id", UpdateProduct(products))
	r.DELETE("/products/:id", DeleteProduct(products))
	return r
}

func seedCatalog() *fakeProducts {
	products := newFakeProducts()
	for _, p := range []models.Product{
		{Name: "Dog Food", Description: "kibble", Category: "dog"},
		{Name: "Cat Food Deluxe", Description: "wet food", Category: "cat"},
		{Name: "Cat Toy", Description: "feather wand", Category: "cat"},
		{Name: "Tuna Treats", Description: "cat food treats", Category: "cat"},
		{Name: "Bird Seed", Description: "millet", Category: "bird"},
	} {
		products.put(p)
	}
	return products
}

func TestListProductsFiltersAndPaginates(t *testing.T) {
	r := newProductEngine(seedCatalog())

	rec, env := doJSON(t, r, http.MethodGet, "/products?category=cat&search=FOOD&limit=1&page=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeData[[]models.Product](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, "Tuna Treats", list[0].Name)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.CurrentPage)
	assert.Equal(t, int64(2), env.Pagination.TotalPages)
	assert.Equal(t, int64(2), env.Pagination.TotalProducts)
	assert.True(t, env.Pagination.HasMore)

	_, env = doJSON(t, r, http.MethodGet, "/products?category=cat&search=food&limit=1&page=2", nil)
	list = decodeData[[]models.Product](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, "Cat Food Deluxe", list[0].Name)
	assert.False(t, env.Pagination.HasMore)

	_, env = doJSON(t, r, http.MethodGet, "/products?category=all", nil)
	assert.Len(t, decodeData[[]models.Product](t, env), 5)
	assert.Equal(t, int64(1), env.Pagination.TotalPages)
}

func TestListProductsRejectsBadPagination(t *testing.T) {
	r := newProductEngine(seedCatalog())

	for _, q := range []string{"page=0", "page=abc", "limit=-3", "limit=1.5"} {
		rec, env := doJSON(t, r, http.MethodGet, "/products?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.False(t, env.Success)
	}
}

func TestFeaturedAndCategories(t *testing.T) {
	products := newFakeProducts()
	for i := 0; i < 10; i++ {
		products.put(models.Product{Name: "p", Category: []string{"dog", "fish"}[i%2]})
	}
	r := newProductEngine(products)

	_, env := doJSON(t, r, http.MethodGet, "/products/featured", nil)
	assert.Len(t, decodeData[[]models.Product](t, env), models.FeaturedProductCount)

	_, env = doJSON(t, r, http.MethodGet, "/products/categories", nil)
	assert.Equal(t, []string{"dog", "fish"}, decodeData[[]string](t, env))
}

func TestGetProductNotFound(t *testing.T) {
	r := newProductEngine(seedCatalog())

	for _, id := range []string{"not-an-id", primitive.NewObjectID().Hex()} {
		rec, env := doJSON(t, r, http.MethodGet, "/products/"+id, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "product not found", env.Message)
	}
}

func TestProductAdminCRUD(t *testing.T) {
	products := newFakeProducts()
	r := newProductEngine(products)

	rec, env := doJSON(t, r, http.MethodPost, "/products", map[string]any{
		"name": "Hamster Wheel", "description": "quiet", "price": 0, "category": "other",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData[models.Product](t, env)
	assert.Equal(t, models.DefaultProductImage, created.Image)
	assert.Zero(t, created.Stock)

	rec, env = doJSON(t, r, http.MethodPut, "/products/"+created.ID.Hex(), map[string]any{"stock": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeData[models.Product](t, env)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, "Hamster Wheel", updated.Name)

	rec, _ = doJSON(t, r, http.MethodPut, "/products/"+created.ID.Hex(), map[string]any{"category": "reptile"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, r, http.MethodDelete, "/products/"+created.ID.Hex(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = doJSON(t, r, http.MethodDelete, "/products/"+created.ID.Hex(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProductValidation(t *testing.T) {
	r := newProductEngine(newFakeProducts())

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing price", map[string]any{"name": "x", "description": "y", "category": "dog"}},
		{"negative price", map[string]any{"name": "x", "description": "y", "category": "dog", "price": -1}},
		{"bad category", map[string]any{"name": "x", "description": "y", "category": "all", "price": 1}},
		{"negative stock", map[string]any{"name": "x", "description": "y", "category": "dog", "price": 1, "stock": -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, r, http.MethodPost, "/products", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
		})
	}
}
