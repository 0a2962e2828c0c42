package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/electrohub/backend/internal/mailer"
	"github.com/electrohub/backend/internal/models"
	"github.com/electrohub/backend/internal/service/order"
	"github.com/electrohub/backend/internal/util"
)

const lowStockThreshold = 10

type AdminHandler struct {
	DB     *gorm.DB
	Svc    *order.Service
	Mailer *mailer.Mailer
}

// Dashboard aggregates the numbers the admin console shows on its
// landing page.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	var userCount, productCount, orderCount int64
	if err := h.DB.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&models.Product{}).Count(&productCount).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.DB.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var revenue float64
	err := h.DB.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var recent []models.Order
	if err := h.DB.Order("id DESC").Limit(5).Find(&recent).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var lowStock []models.Product
	err = h.DB.Where("stock_quantity < ? AND is_active = ?", lowStockThreshold, true).
		Order("stock_quantity ASC").
		Limit(10).
		Find(&lowStock).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	type statusCount struct {
		Status models.OrderStatus `json:"status"`
		Count  int64              `json:"count"`
	}
	var distribution []statusCount
	err = h.DB.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&distribution).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_users":         userCount,
		"total_products":      productCount,
		"total_orders":        orderCount,
		"total_revenue":       revenue,
		"recent_orders":       recent,
		"low_stock_products":  lowStock,
		"status_distribution": distribution,
	})
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.User{})
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var users []models.User
	if err := query.Order("id ASC").Offset(from).Limit(limit).Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users": users,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

// PromoteUser transfers the admin role. There is exactly one admin at a
// time, so everyone else is demoted in the same transaction.
func (h *AdminHandler) PromoteUser(c echo.Context) error {
	adminID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}
	if id == adminID {
		return echo.NewHTTPError(http.StatusBadRequest, "already the admin")
	}

	var target models.User
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&target, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "user not found")
			}
			return err
		}
		if !target.IsActive {
			return echo.NewHTTPError(http.StatusBadRequest, "cannot promote a deactivated user")
		}

		if err := tx.Model(&models.User{}).
			Where("role = ?", "admin").
			Update("role", "user").Error; err != nil {
			return err
		}
		target.Role = "admin"
		return tx.Model(&target).Update("role", "admin").Error
	})
	if txErr != nil {
		var httpErr *echo.HTTPError
		if errors.As(txErr, &httpErr) {
			return httpErr
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	return c.JSON(http.StatusOK, target)
}

func (h *AdminHandler) ToggleUserActive(c echo.Context) error {
	adminID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}
	if id == adminID {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot deactivate yourself")
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	user.IsActive = !user.IsActive
	if err := h.DB.Model(&user).Update("is_active", user.IsActive).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Order{}).
		Joins("JOIN users ON users.id = orders.user_id")

	if status := c.QueryParam("status"); status != "" {
		if !models.OrderStatus(status).Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
		}
		query = query.Where("orders.status = ?", status)
	}
	if search := c.QueryParam("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(orders.order_number) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var orders []models.Order
	err := query.Preload("Items").
		Order("orders.id DESC").
		Offset(from).Limit(limit).
		Find(&orders).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"orders": orders,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *AdminHandler) OrderDetails(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var ord models.Order
	if err := h.DB.Preload("Items").First(&ord, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var user models.User
	if err := h.DB.First(&user, ord.UserID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	type itemView struct {
		models.OrderItem
		ProductName string `json:"product_name"`
	}
	items := make([]itemView, 0, len(ord.Items))
	for _, it := range ord.Items {
		var p models.Product
		name := ""
		if err := h.DB.Select("name").First(&p, it.ProductID).Error; err == nil {
			name = p.Name
		}
		items = append(items, itemView{OrderItem: it, ProductName: name})
	}

	history, err := h.Svc.History(c.Request().Context(), ord.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"order":          ord,
		"customer":       user,
		"items":          items,
		"status_history": history,
	})
}

// SetOrderStatus is the administrative override; the acting admin's id
// is recorded in the status ledger.
func (h *AdminHandler) SetOrderStatus(c echo.Context) error {
	adminID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor := fmt.Sprintf("admin:%d", adminID)
	updated, err := h.Svc.SetStatus(c.Request().Context(), id, models.OrderStatus(req.Status), actor)
	if err != nil {
		return orderError(err)
	}

	h.notifyStatus(c, updated)
	return c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) notifyStatus(c echo.Context, ord *models.Order) {
	if h.Mailer == nil {
		return
	}
	var user models.User
	if err := h.DB.First(&user, ord.UserID).Error; err != nil {
		c.Logger().Errorf("notify: load user: %v", err)
		return
	}
	n := mailer.OrderNotification{
		OrderNumber:   ord.OrderNumber,
		CustomerName:  strings.TrimSpace(user.FirstName + " " + user.LastName),
		CustomerEmail: user.Email,
		TotalAmount:   ord.TotalAmount,
		Status:        string(ord.Status),
		CreatedAt:     ord.CreatedAt,
	}
	if err := h.Mailer.SendStatusUpdate(n); err != nil {
		c.Logger().Errorf("notify: %v", err)
	}
}
