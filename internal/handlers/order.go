package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/electrohub/backend/internal/mailer"
	"github.com/electrohub/backend/internal/metrics"
	"github.com/electrohub/backend/internal/models"
	"github.com/electrohub/backend/internal/mykafka"
	"github.com/electrohub/backend/internal/service/order"
)

type OrderHandler struct {
	DB       *gorm.DB
	Svc      *order.Service
	Producer *mykafka.Producer
	Mailer   *mailer.Mailer
	Metrics  *metrics.Metrics
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
	BillingAddress  string `json:"billing_address"`
	PaymentMethod   string `json:"payment_method"   validate:"required"`
	Notes           string `json:"notes"`
}

// Create converts the caller's cart into an order. All rejections leave
// cart, stock and orders untouched; notifications go out only after the
// transaction has committed.
func (h *OrderHandler) Create(c echo.Context) error {
	userID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	created, err := h.Svc.Create(c.Request().Context(), userID, order.CreateRequest{
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	})
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.OrderFailures.Add(c.Request().Context(), 1)
		}
		return orderError(err)
	}

	if h.Metrics != nil {
		ctx := c.Request().Context()
		h.Metrics.OrdersCreated.Add(ctx, 1)
		h.Metrics.RevenueTotal.Add(ctx, created.TotalAmount)
	}

	h.publish(c, "order_created", created)
	h.notify(c, created, false)

	return c.JSON(http.StatusCreated, created)
}

func (h *OrderHandler) List(c echo.Context) error {
	userID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var orders []models.Order
	err := h.DB.Preload("Items").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c echo.Context) error {
	userID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var ord models.Order
	err = h.DB.Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&ord).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	history, err := h.Svc.History(c.Request().Context(), ord.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"order":          ord,
		"status_history": history,
	})
}

// Cancel is the only status transition a customer can trigger, and only
// out of "pending".
func (h *OrderHandler) Cancel(c echo.Context) error {
	userID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	cancelled, err := h.Svc.Cancel(c.Request().Context(), userID, id)
	if err != nil {
		return orderError(err)
	}

	h.publish(c, "order_cancelled", cancelled)
	h.notify(c, cancelled, true)

	return c.JSON(http.StatusOK, cancelled)
}

// orderError maps the order service's error taxonomy onto HTTP codes.
func orderError(err error) error {
	var stockErr *order.InsufficientStockError
	var unavailErr *order.ProductUnavailableError
	var transErr *order.InvalidTransitionError

	switch {
	case errors.Is(err, order.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
	case errors.Is(err, order.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.As(err, &stockErr):
		return echo.NewHTTPError(http.StatusBadRequest, stockErr.Error())
	case errors.As(err, &unavailErr):
		return echo.NewHTTPError(http.StatusBadRequest, unavailErr.Error())
	case errors.As(err, &transErr):
		return echo.NewHTTPError(http.StatusConflict, transErr.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *OrderHandler) publish(c echo.Context, eventType string, ord *models.Order) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	event := map[string]any{
		"type":         eventType,
		"orderID":      ord.ID,
		"orderNumber":  ord.OrderNumber,
		"userID":       ord.UserID,
		"status":       ord.Status,
		"total_amount": ord.TotalAmount,
	}
	if err := h.Producer.PublishEvent(ctx, "order_events", ord.OrderNumber, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

// notify emails the customer. Mail failures are logged, never surfaced:
// the order is already committed.
func (h *OrderHandler) notify(c echo.Context, ord *models.Order, statusUpdate bool) {
	if h.Mailer == nil {
		return
	}

	var user models.User
	if err := h.DB.First(&user, ord.UserID).Error; err != nil {
		c.Logger().Errorf("notify: load user: %v", err)
		return
	}

	lines := make([]mailer.OrderLine, 0, len(ord.Items))
	for _, it := range ord.Items {
		var p models.Product
		name := ""
		if err := h.DB.Select("name").First(&p, it.ProductID).Error; err == nil {
			name = p.Name
		}
		lines = append(lines, mailer.OrderLine{
			ProductName: name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}

	n := mailer.OrderNotification{
		OrderNumber:     ord.OrderNumber,
		CustomerName:    strings.TrimSpace(user.FirstName + " " + user.LastName),
		CustomerEmail:   user.Email,
		Items:           lines,
		TotalAmount:     ord.TotalAmount,
		ShippingAddress: ord.ShippingAddress,
		Status:          string(ord.Status),
		CreatedAt:       ord.CreatedAt,
	}

	var err error
	if statusUpdate {
		err = h.Mailer.SendStatusUpdate(n)
	} else {
		err = h.Mailer.SendOrderConfirmation(n)
	}
	if err != nil {
		c.Logger().Errorf("notify: %v", err)
	}
}
