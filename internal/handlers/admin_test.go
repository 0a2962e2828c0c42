package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/electrohub/backend/internal/models"
	"github.com/electrohub/backend/internal/service/order"
)

func adminContext(t *testing.T, method, target, body string, adminID uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := newContext(t, method, target, body)
	c.Set("userID", adminID)
	c.Set("role", "admin")
	return c, rec
}

func adminCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", "admin").Count(&n).Error)
	return n
}

func TestPromoteUserKeepsSingleAdmin(t *testing.T) {
	db := newTestDB(t)
	h := &AdminHandler{DB: db, Svc: &order.Service{DB: db}}

	admin := seedAccount(t, db, "admin@example.com", "secret-password", "admin", true)
	target := seedAccount(t, db, "next@example.com", "secret-password", "user", true)

	c, rec := adminContext(t, http.MethodPost, "/api/v1/admin/users/:id/promote", "", admin.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(target.ID)))
	require.NoError(t, h.PromoteUser(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.EqualValues(t, 1, adminCount(t, db))

	var oldAdmin, newAdmin models.User
	require.NoError(t, db.First(&oldAdmin, admin.ID).Error)
	require.NoError(t, db.First(&newAdmin, target.ID).Error)
	require.Equal(t, "user", oldAdmin.Role)
	require.Equal(t, "admin", newAdmin.Role)
}

func TestPromoteSelfRejected(t *testing.T) {
	db := newTestDB(t)
	h := &AdminHandler{DB: db, Svc: &order.Service{DB: db}}

	admin := seedAccount(t, db, "admin@example.com", "secret-password", "admin", true)

	c, _ := adminContext(t, http.MethodPost, "/api/v1/admin/users/:id/promote", "", admin.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(admin.ID)))
	err := h.PromoteUser(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
	require.EqualValues(t, 1, adminCount(t, db))
}

func TestPromoteDeactivatedUserRejected(t *testing.T) {
	db := newTestDB(t)
	h := &AdminHandler{DB: db, Svc: &order.Service{DB: db}}

	admin := seedAccount(t, db, "admin@example.com", "secret-password", "admin", true)
	target := seedAccount(t, db, "gone@example.com", "secret-password", "user", false)

	c, _ := adminContext(t, http.MethodPost, "/api/v1/admin/users/:id/promote", "", admin.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(target.ID)))
	err := h.PromoteUser(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)

	// The failed transaction must not have demoted the current admin.
	var current models.User
	require.NoError(t, db.First(&current, admin.ID).Error)
	require.Equal(t, "admin", current.Role)
}

func TestToggleUserActiveSelfRejected(t *testing.T) {
	db := newTestDB(t)
	h := &AdminHandler{DB: db, Svc: &order.Service{DB: db}}

	admin := seedAccount(t, db, "admin@example.com", "secret-password", "admin", true)

	c, _ := adminContext(t, http.MethodPost, "/api/v1/admin/users/:id/toggle-active", "", admin.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(admin.ID)))
	err := h.ToggleUserActive(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestToggleUserActive(t *testing.T) {
	db := newTestDB(t)
	h := &AdminHandler{DB: db, Svc: &order.Service{DB: db}}

	admin := seedAccount(t, db, "admin@example.com", "secret-password", "admin", true)
	target := seedAccount(t, db, "user@example.com", "secret-password", "user", true)

	c, rec := adminContext(t, http.MethodPost, "/api/v1/admin/users/:id/toggle-active", "", admin.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(target.ID)))
	require.NoError(t, h.ToggleUserActive(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, target.ID).Error)
	require.False(t, updated.IsActive)
}

func seedOrderWithHistory(t *testing.T, db *gorm.DB, svc *order.Service, userID uint) *models.Order {
	t.Helper()
	p := models.Product{Name: "Widget", Price: 3.00, StockQuantity: 5, IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: userID, ProductID: p.ID, Quantity: 1}).Error)

	ord, err := svc.Create(t.Context(), userID, order.CreateRequest{
		ShippingAddress: "1 Main St",
		PaymentMethod:   "card",
	})
	require.NoError(t, err)
	return ord
}

func TestSetOrderStatusRecordsAdminActor(t *testing.T) {
	db := newTestDB(t)
	svc := &order.Service{DB: db}
	h := &AdminHandler{DB: db, Svc: svc}

	admin := seedAccount(t, db, "admin@example.com", "secret-password", "admin", true)
	buyer := seedAccount(t, db, "buyer@example.com", "secret-password", "user", true)
	ord := seedOrderWithHistory(t, db, svc, buyer.ID)

	c, rec := adminContext(t, http.MethodPatch, "/api/v1/admin/orders/:id/status",
		`{"status":"confirmed"}`, admin.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(ord.ID)))
	require.NoError(t, h.SetOrderStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	history, err := svc.History(t.Context(), ord.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "admin:"+strconv.Itoa(int(admin.ID)), history[1].Actor)
}

func TestSetOrderStatusUnknownValue(t *testing.T) {
	db := newTestDB(t)
	svc := &order.Service{DB: db}
	h := &AdminHandler{DB: db, Svc: svc}

	admin := seedAccount(t, db, "admin@example.com", "secret-password", "admin", true)
	buyer := seedAccount(t, db, "buyer@example.com", "secret-password", "user", true)
	ord := seedOrderWithHistory(t, db, svc, buyer.ID)

	c, _ := adminContext(t, http.MethodPatch, "/api/v1/admin/orders/:id/status",
		`{"status":"misplaced"}`, admin.ID)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(ord.ID)))
	err := h.SetOrderStatus(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestDashboardAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := &order.Service{DB: db}
	h := &AdminHandler{DB: db, Svc: svc}

	admin := seedAccount(t, db, "admin@example.com", "secret-password", "admin", true)
	buyer := seedAccount(t, db, "buyer@example.com", "secret-password", "user", true)
	seedOrderWithHistory(t, db, svc, buyer.ID)

	c, rec := adminContext(t, http.MethodGet, "/api/v1/admin/dashboard", "", admin.ID)
	require.NoError(t, h.Dashboard(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, `"total_users":2`)
	require.Contains(t, body, `"total_orders":1`)
	require.Contains(t, body, `"total_revenue":3`)
	require.Contains(t, body, "low_stock_products")
	require.Contains(t, body, "status_distribution")
}
