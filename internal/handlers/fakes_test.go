package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petshop/internal/apperr"
	"petshop/internal/middleware"
	"petshop/internal/models"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{byID: map[primitive.ObjectID]models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, apperr.NotFound("user not found")
}

func (f *fakeUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUsers) PhoneExists(_ context.Context, phone string, exclude primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Phone == phone && u.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Create(_ context.Context, user models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = primitive.NewObjectID()
	user.Addresses = models.NormalizeDefaultAddresses(user.Addresses)
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id primitive.ObjectID, update models.ProfileUpdate) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	update.Apply(&u)
	f.byID[id] = u
	return u, nil
}

func (f *fakeUsers) SaveAddresses(_ context.Context, id primitive.ObjectID, addresses []models.Address) ([]models.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	u.Addresses = models.NormalizeDefaultAddresses(addresses)
	f.byID[id] = u
	return u.Addresses, nil
}

func (f *fakeUsers) FindSummaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]models.UserSummary{}
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

type fakeProducts struct {
	mu sync.Mutex
	// byID holds the catalog; raceOn makes DecrementStock lose the race.
	byID   map[primitive.ObjectID]models.Product
	raceOn map[primitive.ObjectID]bool
	seq    int
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{byID: map[primitive.ObjectID]models.Product{}, raceOn: map[primitive.ObjectID]bool{}}
	for _, p := range products {
		f.put(p)
	}
	return f
}

func (f *fakeProducts) put(p models.Product) models.Product {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		f.seq++
		p.CreatedAt = time.Date(2024, 1, 1, 0, 0, f.seq, 0, time.UTC)
	}
	f.byID[p.ID] = p
	return p
}

func (f *fakeProducts) stock(id primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id].Stock
}

func (f *fakeProducts) sorted() []models.Product {
	out := make([]models.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeProducts) List(_ context.Context, q models.ProductQuery) ([]models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []models.Product{}
	for _, p := range f.sorted() {
		if q.Category != "" && q.Category != models.CategoryAll && p.Category != q.Category {
			continue
		}
		if q.Search != "" && !containsFold(p.Name, q.Search) && !containsFold(p.Description, q.Search) {
			continue
		}
		matched = append(matched, p)
	}
	total := int64(len(matched))
	start := min(q.Skip(), total)
	end := min(start+q.Limit, total)
	return matched[start:end], total, nil
}

func (f *fakeProducts) Featured(_ context.Context, n int64) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted()
	return all[:min(int64(len(all)), n)], nil
}

func (f *fakeProducts) Categories(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, p := range f.sorted() {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return models.Product{}, apperr.NotFound("product not found")
	}
	return p, nil
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]models.Product{}
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, p models.Product) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NilObjectID
	if p.Image == "" {
		p.Image = models.DefaultProductImage
	}
	return f.put(p), nil
}

func (f *fakeProducts) Update(_ context.Context, id primitive.ObjectID, update models.ProductUpdate) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return models.Product{}, apperr.NotFound("product not found")
	}
	update.Apply(&p)
	f.byID[id] = p
	return p, nil
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperr.NotFound("product not found")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProducts) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok || f.raceOn[id] || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	f.byID[id] = p
	return true, nil
}

func (f *fakeProducts) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.byID[id]
	p.Stock += qty
	f.byID[id] = p
	return nil
}

type fakeCarts struct {
	mu     sync.Mutex
	byUser map[primitive.ObjectID]models.Cart
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{byUser: map[primitive.ObjectID]models.Cart{}}
}

func (f *fakeCarts) FindByUser(_ context.Context, userID primitive.ObjectID) (models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.byUser[userID]
	if !ok {
		return models.Cart{}, apperr.NotFound("cart not found")
	}
	return cart, nil
}

func (f *fakeCarts) Create(_ context.Context, userID primitive.ObjectID, items []models.CartItem) (models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart := models.Cart{ID: primitive.NewObjectID(), UserID: userID, Items: items}
	f.byUser[userID] = cart
	return cart, nil
}

func (f *fakeCarts) Replace(_ context.Context, userID primitive.ObjectID, items []models.CartItem) (models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.byUser[userID]
	if !ok {
		cart = models.Cart{ID: primitive.NewObjectID(), UserID: userID}
	}
	cart.Items = items
	f.byUser[userID] = cart
	return cart, nil
}

func (f *fakeCarts) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byUser, userID)
	return nil
}

type fakeOrders struct {
	mu        sync.Mutex
	byID      map[primitive.ObjectID]models.Order
	createErr error
	seq       int
}

func newFakeOrders(orders ...models.Order) *fakeOrders {
	f := &fakeOrders{byID: map[primitive.ObjectID]models.Order{}}
	for _, o := range orders {
		f.insert(o)
	}
	return f
}

func (f *fakeOrders) insert(o models.Order) models.Order {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	f.seq++
	o.CreatedAt = time.Date(2024, 1, 1, 0, 0, f.seq, 0, time.UTC)
	f.byID[o.ID] = o
	return o
}

func (f *fakeOrders) Create(_ context.Context, o models.Order) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Order{}, f.createErr
	}
	return f.insert(o), nil
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return models.Order{}, apperr.NotFound("order not found")
	}
	return o, nil
}

func (f *fakeOrders) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return f.filter(func(o models.Order) bool { return o.UserID == userID }), nil
}

func (f *fakeOrders) FindAll(context.Context) ([]models.Order, error) {
	return f.filter(func(models.Order) bool { return true }), nil
}

func (f *fakeOrders) filter(keep func(models.Order) bool) []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.byID {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return models.Order{}, apperr.NotFound("order not found")
	}
	o.Status = status
	f.byID[id] = o
	return o, nil
}

func (f *fakeOrders) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperr.NotFound("order not found")
	}
	delete(f.byID, id)
	return nil
}

type countingMetrics struct {
	created, rejected int
}

func (m *countingMetrics) OrderCreated()  { m.created++ }
func (m *countingMetrics) StockRejected() { m.rejected++ }

func containsFold(s, sub string) bool {
	return bytes.Contains(bytes.ToLower([]byte(s)), bytes.ToLower([]byte(sub)))
}

// asUser stands in for the token middleware in handler tests.
func asUser(users *fakeUsers, id primitive.ObjectID) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindByID(c.Request.Context(), id)
		if err == nil {
			middleware.SetUser(c, user)
		}
		c.Next()
	}
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		CurrentPage   int64 `json:"currentPage"`
		TotalPages    int64 `json:"totalPages"`
		TotalProducts int64 `json:"totalProducts"`
		HasMore       bool  `json:"hasMore"`
	} `json:"pagination"`
	Count *int `json:"count"`
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}
