package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/electrohub/backend/internal/models"
	"github.com/electrohub/backend/internal/mykafka"
)

type SupportHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type ContactRequest struct {
	Name    string `json:"name"    validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func newTicketNumber() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "TICKET-" + strings.ToUpper(hex[:8])
}

// Contact accepts a contact form submission and opens a support ticket.
// The route is public; submissions from known emails are attached to
// the matching account.
func (h *SupportHandler) Contact(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ticket := models.SupportTicket{
		TicketNumber: newTicketNumber(),
		Name:         req.Name,
		Email:        req.Email,
		Subject:      req.Subject,
		Message:      req.Message,
		Status:       "open",
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err == nil {
		ticket.UserID = user.ID
	}

	if err := h.DB.Create(&ticket).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.Producer != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		event := map[string]any{
			"type":         "ticket_created",
			"ticketNumber": ticket.TicketNumber,
			"email":        ticket.Email,
		}
		if err := h.Producer.PublishEvent(ctx, "support_events", ticket.TicketNumber, event); err != nil {
			c.Logger().Errorf("kafka publish error: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":       "contact form submitted",
		"ticket_number": ticket.TicketNumber,
		"status":        ticket.Status,
	})
}

// Tickets lists the caller's support tickets, including guest
// submissions made with the account's email before registering.
func (h *SupportHandler) Tickets(c echo.Context) error {
	userID, ok := c.Get("userID").(uint)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	var tickets []models.SupportTicket
	err := h.DB.Where("user_id = ? OR email = ?", userID, user.Email).
		Order("id DESC").
		Find(&tickets).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tickets)
}

type faqEntry struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var faqEntries = []faqEntry{
	{1, "Shipping", "How long does shipping take?",
		"Standard shipping takes 3-5 business days. Express shipping takes 1-2 business days."},
	{2, "Returns", "What is your return policy?",
		"We offer 30-day returns for most items. Products must be in original condition with packaging."},
	{3, "Payment", "What payment methods do you accept?",
		"We accept all major credit cards, PayPal, and bank transfers."},
	{4, "Warranty", "Do products come with warranty?",
		"Yes, all products come with manufacturer warranty. Extended warranty options are available."},
	{5, "Account", "How do I track my order?",
		"You can track your order in the 'My Orders' section after logging into your account."},
}

func (h *SupportHandler) FAQ(c echo.Context) error {
	return c.JSON(http.StatusOK, faqEntries)
}

type shippingMethod struct {
	Name         string  `json:"name"`
	Cost         float64 `json:"cost"`
	DeliveryTime string  `json:"delivery_time"`
	Description  string  `json:"description"`
}

func (h *SupportHandler) ShippingInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"free_shipping_threshold": 50.00,
		"shipping_methods": []shippingMethod{
			{"Standard Shipping", 9.99, "3-5 business days", "Our most economical shipping option"},
			{"Express Shipping", 19.99, "1-2 business days", "Fast delivery for urgent orders"},
			{"Same Day Delivery", 29.99, "Same day", "Available in select cities"},
		},
		"shipping_regions": []string{
			"United States",
			"Canada",
			"United Kingdom",
			"European Union",
		},
	})
}

func (h *SupportHandler) ReturnPolicy(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"return_window_days": 30,
		"conditions": []string{
			"Items must be in original condition",
			"Original packaging required",
			"No signs of wear or damage",
			"All accessories included",
		},
		"non_returnable_items": []string{
			"Software and digital products",
			"Personalized items",
			"Items damaged by misuse",
		},
		"return_process": []string{
			"Login to your account",
			"Go to 'My Orders'",
			"Select 'Return Item'",
			"Print return label",
			"Package and ship item",
		},
		"refund_timeframe": "5-7 business days after we receive the item",
	})
}
