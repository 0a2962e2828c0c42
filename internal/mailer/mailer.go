package mailer

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// OrderNotification is the payload handed to the notification channel
// after order creation and after each status transition.
type OrderNotification struct {
	OrderNumber     string      `json:"order_number"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	Items           []OrderLine `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	Status          string      `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
}

type OrderLine struct {
	ProductName string  `json:"product_name"`
	Quantity    uint    `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	BaseURL  string
}

func (m *Mailer) send(to, subject, body string) error {
	addr := net.JoinHostPort(m.Host, m.Port)

	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *Mailer) SendVerification(to, name, token string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nPlease verify your email address by opening the link below:\n\n%s/verify-email?token=%s\n\nThe link expires in 24 hours.\n",
		name, m.BaseURL, token,
	)
	return m.send(to, "Verify your email", body)
}

func (m *Mailer) SendOrderConfirmation(n OrderNotification) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThank you for your order %s.\n\n", n.CustomerName, n.OrderNumber)
	for _, it := range n.Items {
		fmt.Fprintf(&b, "  %s x%d @ %.2f = %.2f\n", it.ProductName, it.Quantity, it.UnitPrice, it.LineTotal)
	}
	fmt.Fprintf(&b, "\nTotal: %.2f\n\nShipping to:\n%s\n", n.TotalAmount, n.ShippingAddress)
	return m.send(n.CustomerEmail, "Order confirmation "+n.OrderNumber, b.String())
}

func (m *Mailer) SendStatusUpdate(n OrderNotification) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour order %s is now %q.\n\nTotal: %.2f\n",
		n.CustomerName, n.OrderNumber, n.Status, n.TotalAmount,
	)
	return m.send(n.CustomerEmail, "Order "+n.OrderNumber+" update", body)
}
