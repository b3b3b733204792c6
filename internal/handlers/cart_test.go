package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petshop/internal/models"
)

type cartFixture struct {
	handler  http.Handler
	carts    *fakeCarts
	products *fakeProducts
	user     models.User
	bone     models.Product
	ball     models.Product
}

func newCartFixture() cartFixture {
	user := models.User{ID: primitive.NewObjectID()}
	users := newFakeUsers(user)
	products := newFakeProducts()
	bone := products.put(models.Product{Name: "Bone", Price: 50, Stock: 2, Category: "dog"})
	ball := products.put(models.Product{Name: "Ball", Price: 20, Stock: 10, Category: "dog"})
	carts := newFakeCarts()

	r := newEngine()
	g := r.Group("/cart", asUser(users, user.ID))
	g.GET("", GetCart(carts, products))
	g.POST("", CreateCart(carts, products))
	g.PUT("", UpdateCart(carts, products))
	g.DELETE("", ClearCart(carts))

	return cartFixture{handler: r, carts: carts, products: products, user: user, bone: bone, ball: ball}
}

func items(lines ...any) map[string]any {
	out := []map[string]any{}
	for i := 0; i+1 < len(lines); i += 2 {
		out = append(out, map[string]any{"product": lines[i], "quantity": lines[i+1]})
	}
	return map[string]any{"items": out}
}

func TestGetCartWithoutCartReturnsEmptyItems(t *testing.T) {
	f := newCartFixture()

	rec, env := doJSON(t, f.handler, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, string(env.Data))
}

func TestUpdateCartUpsertsAndPopulates(t *testing.T) {
	f := newCartFixture()

	rec, env := doJSON(t, f.handler, http.MethodPut, "/cart", items(f.bone.ID.Hex(), 2, f.ball.ID.Hex(), 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decodeData[models.CartView](t, env)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Bone", view.Items[0].Product.Name)
	assert.Equal(t, 2, view.Items[0].Quantity)

	assert.Equal(t, 2, f.products.stock(f.bone.ID), "cart must not reserve stock")

	_, env = doJSON(t, f.handler, http.MethodGet, "/cart", nil)
	view = decodeData[models.CartView](t, env)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, f.user.ID, view.UserID)
}

func TestUpdateCartRejectsOverStock(t *testing.T) {
	f := newCartFixture()

	rec, env := doJSON(t, f.handler, http.MethodPut, "/cart", items(f.bone.ID.Hex(), 3))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "insufficient stock for Bone (2 left)", env.Message)
	_, err := f.carts.FindByUser(context.Background(), f.user.ID)
	assert.Error(t, err)
}

func TestUpdateCartRejectsUnknownProduct(t *testing.T) {
	f := newCartFixture()
	missing := primitive.NewObjectID().Hex()

	rec, env := doJSON(t, f.handler, http.MethodPut, "/cart", items(missing, 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found: "+missing, env.Message)

	rec, env = doJSON(t, f.handler, http.MethodPut, "/cart", items("garbage", 1))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product not found: garbage", env.Message)
}

func TestUpdateCartWithEmptyListDeletesCart(t *testing.T) {
	f := newCartFixture()
	doJSON(t, f.handler, http.MethodPut, "/cart", items(f.ball.ID.Hex(), 1))

	rec, env := doJSON(t, f.handler, http.MethodPut, "/cart", map[string]any{"items": []any{}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, string(env.Data))
	_, err := f.carts.FindByUser(context.Background(), f.user.ID)
	assert.Error(t, err)
}

func TestCreateCart(t *testing.T) {
	f := newCartFixture()

	rec, env := doJSON(t, f.handler, http.MethodPost, "/cart", map[string]any{"items": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cart items are required", env.Message)

	rec, _ = doJSON(t, f.handler, http.MethodPost, "/cart", items(f.ball.ID.Hex(), 4))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = doJSON(t, f.handler, http.MethodPost, "/cart", items(f.ball.ID.Hex(), 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cart already exists", env.Message)
}

func TestCartQuantityValidation(t *testing.T) {
	f := newCartFixture()

	rec, env := doJSON(t, f.handler, http.MethodPut, "/cart", items(f.ball.ID.Hex(), 0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "quantity is required", env.Message)
}

func TestClearCart(t *testing.T) {
	f := newCartFixture()
	doJSON(t, f.handler, http.MethodPut, "/cart", items(f.ball.ID.Hex(), 1))

	rec, _ := doJSON(t, f.handler, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := f.carts.FindByUser(context.Background(), f.user.ID)
	assert.Error(t, err)
}
