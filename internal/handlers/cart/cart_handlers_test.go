package cart

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/electrohub/backend/internal/config"
	"github.com/electrohub/backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func newContext(t *testing.T, method, target, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", userID)
	return c, rec
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int, active bool) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, StockQuantity: stock, IsActive: active}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestAddToCartCreatesLine(t *testing.T) {
	db := newTestDB(t)
	h := &CartHandler{DB: db}
	p := seedProduct(t, db, "Widget", 4.00, 10, true)

	c, rec := newContext(t, http.MethodPost, "/api/v1/cart/items",
		`{"product_id": `+strconv.Itoa(int(p.ID))+`, "quantity": 2}`, 1)
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.CartItem
	require.NoError(t, db.Where("user_id = ? AND product_id = ?", 1, p.ID).First(&item).Error)
	require.EqualValues(t, 2, item.Quantity)
}

func TestAddToCartMergesQuantity(t *testing.T) {
	db := newTestDB(t)
	h := &CartHandler{DB: db}
	p := seedProduct(t, db, "Widget", 4.00, 10, true)

	body := `{"product_id": ` + strconv.Itoa(int(p.ID)) + `, "quantity": 2}`
	c, _ := newContext(t, http.MethodPost, "/api/v1/cart/items", body, 1)
	require.NoError(t, h.AddToCart(c))
	c, _ = newContext(t, http.MethodPost, "/api/v1/cart/items", body, 1)
	require.NoError(t, h.AddToCart(c))

	var items []models.CartItem
	require.NoError(t, db.Where("user_id = ?", 1).Find(&items).Error)
	require.Len(t, items, 1, "one line per (user, product)")
	require.EqualValues(t, 4, items[0].Quantity)
}

func TestAddToCartRejectsInactiveProduct(t *testing.T) {
	db := newTestDB(t)
	h := &CartHandler{DB: db}
	p := seedProduct(t, db, "Retired", 4.00, 10, false)

	c, _ := newContext(t, http.MethodPost, "/api/v1/cart/items",
		`{"product_id": `+strconv.Itoa(int(p.ID))+`, "quantity": 1}`, 1)
	err := h.AddToCart(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	db := newTestDB(t)
	h := &CartHandler{DB: db}
	p := seedProduct(t, db, "Widget", 4.00, 10, true)

	item := models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 3}
	require.NoError(t, db.Create(&item).Error)

	c, rec := newContext(t, http.MethodPatch, "/api/v1/cart/items/:id", `{"quantity": 0}`, 1)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(item.ID)))
	require.NoError(t, h.UpdateItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&n).Error)
	require.Zero(t, n)
}

func TestUpdateItemOtherUsersLine(t *testing.T) {
	db := newTestDB(t)
	h := &CartHandler{DB: db}
	p := seedProduct(t, db, "Widget", 4.00, 10, true)

	item := models.CartItem{UserID: 2, ProductID: p.ID, Quantity: 3}
	require.NoError(t, db.Create(&item).Error)

	c, _ := newContext(t, http.MethodPatch, "/api/v1/cart/items/:id", `{"quantity": 5}`, 1)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(item.ID)))
	err := h.UpdateItem(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestClearCart(t *testing.T) {
	db := newTestDB(t)
	h := &CartHandler{DB: db}
	pa := seedProduct(t, db, "A", 1.00, 10, true)
	pb := seedProduct(t, db, "B", 2.00, 10, true)
	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: pa.ID, Quantity: 1}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: pb.ID, Quantity: 2}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: 2, ProductID: pa.ID, Quantity: 1}).Error)

	c, _ := newContext(t, http.MethodDelete, "/api/v1/cart", "", 1)
	require.NoError(t, h.ClearCart(c))

	var mine, theirs int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&mine).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", 2).Count(&theirs).Error)
	require.Zero(t, mine)
	require.EqualValues(t, 1, theirs, "other carts untouched")
}

func TestCartTotal(t *testing.T) {
	db := newTestDB(t)
	h := &CartHandler{DB: db}
	pa := seedProduct(t, db, "A", 10.00, 10, true)
	pb := seedProduct(t, db, "B", 5.00, 10, true)
	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: pa.ID, Quantity: 2}).Error)
	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: pb.ID, Quantity: 1}).Error)

	c, rec := newContext(t, http.MethodGet, "/api/v1/cart/total", "", 1)
	require.NoError(t, h.CartTotal(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total_amount":25`)
}
