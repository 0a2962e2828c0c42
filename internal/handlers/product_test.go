package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/electrohub/backend/internal/models"
)

func seedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	cat := models.Category{Name: name}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name string, categoryID uint, active bool) models.Product {
	t.Helper()
	p := models.Product{
		Name:          name,
		Price:         9.99,
		StockQuantity: 5,
		CategoryID:    categoryID,
		IsActive:      active,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestGetProductsFiltersInactive(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	cat := seedCategory(t, db, "Laptops")
	seedCatalogProduct(t, db, "Visible", cat.ID, true)
	seedCatalogProduct(t, db, "Hidden", cat.ID, false)

	c, rec := newContext(t, http.MethodGet, "/api/v1/products", "")
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "Visible")
	require.NotContains(t, body, "Hidden")
	require.Contains(t, body, `"total":1`)
}

func TestGetProductsSearchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	cat := seedCategory(t, db, "Laptops")
	seedCatalogProduct(t, db, "ThinkPad X1", cat.ID, true)
	seedCatalogProduct(t, db, "MacBook Air", cat.ID, true)

	c, rec := newContext(t, http.MethodGet, "/api/v1/products?search=thinkpad", "")
	require.NoError(t, h.GetProducts(c))

	body := rec.Body.String()
	require.Contains(t, body, "ThinkPad X1")
	require.NotContains(t, body, "MacBook Air")
}

func TestGetProductHidesInactive(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	cat := seedCategory(t, db, "Laptops")
	p := seedCatalogProduct(t, db, "Hidden", cat.ID, false)

	c, _ := newContext(t, http.MethodGet, "/api/v1/products/:id", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(p.ID)))
	err := h.GetProduct(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestCreateProductRequiresCategory(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}

	c, _ := newContext(t, http.MethodPost, "/api/v1/admin/products",
		`{"name":"Orphan","price":1.00,"stock_quantity":1,"category_id":999}`)
	err := h.CreateProduct(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestCreateProductPersistsSpecs(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	cat := seedCategory(t, db, "Laptops")

	c, rec := newContext(t, http.MethodPost, "/api/v1/admin/products",
		`{"name":"ThinkPad","price":999.00,"stock_quantity":3,"category_id":`+strconv.Itoa(int(cat.ID))+`,"specs":{"ram":"32GB","cpu":"i7"}}`)
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var stored models.Product
	require.NoError(t, db.Where("name = ?", "ThinkPad").First(&stored).Error)
	require.Equal(t, "32GB", stored.Specs["ram"])
	require.Equal(t, "i7", stored.Specs["cpu"])
}

func TestDeleteProductReferencedByOrderRefused(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	cat := seedCategory(t, db, "Laptops")
	p := seedCatalogProduct(t, db, "Ordered Once", cat.ID, true)

	ord := models.Order{UserID: 1, OrderNumber: "ORD-TESTTEST", TotalAmount: 9.99, Status: models.OrderStatusPending}
	require.NoError(t, db.Create(&ord).Error)
	require.NoError(t, db.Create(&models.OrderItem{
		OrderID: ord.ID, ProductID: p.ID, Quantity: 1, UnitPrice: 9.99, LineTotal: 9.99,
	}).Error)

	c, _ := newContext(t, http.MethodDelete, "/api/v1/admin/products/:id", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(p.ID)))
	err := h.DeleteProduct(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)

	var still models.Product
	require.NoError(t, db.First(&still, p.ID).Error)
}

func TestDeleteProductRemovesCartLines(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	cat := seedCategory(t, db, "Laptops")
	p := seedCatalogProduct(t, db, "Unsold", cat.ID, true)
	require.NoError(t, db.Create(&models.CartItem{UserID: 1, ProductID: p.ID, Quantity: 1}).Error)

	c, rec := newContext(t, http.MethodDelete, "/api/v1/admin/products/:id", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(p.ID)))
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("product_id = ?", p.ID).Count(&n).Error)
	require.Zero(t, n)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	seedCategory(t, db, "Laptops")

	c, _ := newContext(t, http.MethodPost, "/api/v1/admin/categories", `{"name":"Laptops"}`)
	err := h.CreateCategory(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestDeleteCategoryWithProductsRefused(t *testing.T) {
	db := newTestDB(t)
	h := &ProductHandler{DB: db}
	cat := seedCategory(t, db, "Laptops")
	seedCatalogProduct(t, db, "ThinkPad", cat.ID, true)

	c, _ := newContext(t, http.MethodDelete, "/api/v1/admin/categories/:id", "")
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(cat.ID)))
	err := h.DeleteCategory(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}
