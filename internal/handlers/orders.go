package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"petshop/internal/apperr"
	"petshop/internal/models"
	"petshop/internal/response"
)

var (
	errOrderNotFound   = apperr.NotFound("order not found")
	errOrderItemsEmpty = apperr.Validation("no order items")
	errOrderForbidden  = apperr.Forbidden("not authorized to view this order")
	errInvalidStatus   = apperr.Validation("status must be one of: " + strings.Join(models.OrderStatuses, ", "))
)

type orderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type shippingAddressRequest struct {
	Address    string `json:"address" binding:"required,notblank,max=200"`
	City       string `json:"city" binding:"max=100"`
	PostalCode string `json:"postalCode" binding:"max=10"`
	Phone      string `json:"phone" binding:"max=20"`
}

type orderRequest struct {
	Items           []orderItemRequest     `json:"items" binding:"dive"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress"`
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// reservation is stock taken from one product for the order being placed.
type reservation struct {
	productID primitive.ObjectID
	quantity  int
}

// releaseStock gives back every reservation. It runs detached from the
// request context so a cancelled client cannot leave stock decremented.
func releaseStock(ctx context.Context, products ProductRepository, reserved []reservation) {
	if len(reserved) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requestTimeout)
	defer cancel()

	for _, r := range reserved {
		if err := products.IncrementStock(ctx, r.productID, r.quantity); err != nil {
			slog.ErrorContext(ctx, "stock compensation failed",
				"route", "POST /orders",
				"productId", r.productID.Hex(),
				"quantity", r.quantity,
				"error", err.Error(),
			)
		}
	}
}

// placeOrder snapshots and reserves every item in request order, then
// inserts the order. Any failure releases what was already reserved.
func placeOrder(ctx context.Context, products ProductRepository, orders OrderRepository, userID primitive.ObjectID, req orderRequest) (order models.Order, err error) {
	var reserved []reservation
	defer func() {
		if err != nil {
			releaseStock(ctx, products, reserved)
		}
	}()

	items := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero

	for _, line := range req.Items {
		id, parseErr := primitive.ObjectIDFromHex(line.ProductID)
		if parseErr != nil {
			return models.Order{}, productMissing(line.ProductID)
		}

		product, findErr := products.FindByID(ctx, id)
		if findErr != nil {
			if apperr.IsKind(findErr, apperr.KindNotFound) {
				return models.Order{}, productMissing(line.ProductID)
			}
			return models.Order{}, findErr
		}
		if product.Stock < line.Quantity {
			return models.Order{}, insufficientStock(product)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Image:     product.Image,
		})
		total = total.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))

		taken, decErr := products.DecrementStock(ctx, id, line.Quantity)
		if decErr != nil {
			return models.Order{}, decErr
		}
		if !taken {
			return models.Order{}, insufficientStock(product)
		}
		reserved = append(reserved, reservation{productID: id, quantity: line.Quantity})
	}

	return orders.Create(ctx, models.Order{
		UserID: userID,
		Items:  items,
		Total:  total.Round(2).InexactFloat64(),
		Status: models.OrderStatusPending,
		ShippingAddress: models.ShippingAddress{
			Address:    strings.TrimSpace(req.ShippingAddress.Address),
			City:       strings.TrimSpace(req.ShippingAddress.City),
			PostalCode: strings.TrimSpace(req.ShippingAddress.PostalCode),
			Phone:      strings.TrimSpace(req.ShippingAddress.Phone),
		},
	})
}

func CreateOrder(products ProductRepository, orders OrderRepository, events OrderMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"

		user, ok := currentUser(c)
		if !ok {
			return
		}

		var req orderRequest
		if !bindJSON(c, &req) {
			return
		}
		if len(req.Items) == 0 {
			response.Error(c, errOrderItemsEmpty)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*requestTimeout)
		defer cancel()

		start := time.Now()
		order, err := placeOrder(ctx, products, orders, user.ID, req)
		if err != nil {
			if apperr.IsKind(err, apperr.KindInsufficientStock) {
				events.StockRejected()
			}
			response.Error(c, err)
			return
		}
		events.OrderCreated()

		slog.InfoContext(ctx, "order created",
			"route", route,
			"orderId", order.ID.Hex(),
			"userId", user.ID.Hex(),
			"items", len(order.Items),
			"elapsed", time.Since(start),
		)
		response.Message(c, http.StatusCreated, "order created", order)
	}
}

func GetMyOrders(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := orders.FindByUser(ctx, user.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Counted(c, list, len(list))
	}
}

// GetOrder is visible to the owner and to admins.
func GetOrder(orders OrderRepository, users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := objectIDParam(c, "id", errOrderNotFound)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orders.FindByID(ctx, id)
		if err != nil {
			response.Error(c, err)
			return
		}
		if order.UserID != user.ID && !user.IsAdmin() {
			response.Error(c, errOrderForbidden)
			return
		}

		owners, err := users.FindSummaries(ctx, []primitive.ObjectID{order.UserID})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, models.WithOwners([]models.Order{order}, owners)[0])
	}
}

func GetAllOrders(orders OrderRepository, users UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := orders.FindAll(ctx)
		if err != nil {
			response.Error(c, err)
			return
		}

		owners, err := users.FindSummaries(ctx, models.OwnerIDs(list))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Counted(c, models.WithOwners(list, owners), len(list))
	}
}

// UpdateOrderStatus overwrites the status; any status may follow any other.
func UpdateOrderStatus(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id", errOrderNotFound)
		if !ok {
			return
		}

		var req orderStatusRequest
		if !bindJSON(c, &req) {
			return
		}
		status := strings.ToLower(strings.TrimSpace(req.Status))
		if !models.IsValidOrderStatus(status) {
			response.Error(c, errInvalidStatus)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orders.UpdateStatus(ctx, id, status)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusOK, "order status updated", order)
	}
}

func DeleteOrder(orders OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "id", errOrderNotFound)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := orders.Delete(ctx, id); err != nil {
			response.Error(c, err)
			return
		}
		response.Message(c, http.StatusOK, "order deleted", nil)
	}
}
