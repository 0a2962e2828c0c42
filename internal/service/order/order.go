package order

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/electrohub/backend/internal/models"
)

// maxNumberAttempts bounds the regenerate-and-retry loop on an order
// number collision.
const maxNumberAttempts = 5

// Service implements the cart-to-order conversion and the order status
// lifecycle. Every mutation runs inside a single transaction with
// rollback on any failure path.
type Service struct {
	DB *gorm.DB
}

type CreateRequest struct {
	ShippingAddress string
	BillingAddress  string
	PaymentMethod   string
	Notes           string
}

// Create converts the user's cart into exactly one order: validates
// every line against live stock before touching anything, snapshots
// unit prices, decrements stock, clears the cart and writes the
// initial "pending" status record — all inside one transaction. A
// duplicate order number retries the whole transaction with a fresh
// number and is never surfaced to the caller.
func (s *Service) Create(ctx context.Context, userID uint, req CreateRequest) (*models.Order, error) {
	if req.BillingAddress == "" {
		req.BillingAddress = req.ShippingAddress
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		created, err := s.createOnce(ctx, userID, req, NewOrderNumber())
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return created, nil
	}
	return nil, fmt.Errorf("could not allocate a unique order number after %d attempts", maxNumberAttempts)
}

func (s *Service) createOnce(ctx context.Context, userID uint, req CreateRequest, number string) (*models.Order, error) {
	var order models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("product_id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		// Validate every line before any mutation: a single bad line
		// aborts the whole conversion untouched.
		var total float64
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			var p models.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductUnavailableError{ProductID: it.ProductID}
				}
				return err
			}
			if !p.IsActive {
				return &ProductUnavailableError{ProductID: it.ProductID}
			}
			if p.StockQuantity < int(it.Quantity) {
				return &InsufficientStockError{
					ProductID: p.ID,
					Name:      p.Name,
					Requested: int(it.Quantity),
					Available: p.StockQuantity,
				}
			}

			lineTotal := p.Price * float64(it.Quantity)
			total += lineTotal
			orderItems = append(orderItems, models.OrderItem{
				ProductID: p.ID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
				LineTotal: lineTotal,
			})
		}

		order = models.Order{
			UserID:          userID,
			OrderNumber:     number,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			PaymentMethod:   req.PaymentMethod,
			PaymentStatus:   "pending",
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
			Notes:           req.Notes,
			Items:           orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Guarded decrement: the stock_quantity >= ? predicate makes
		// concurrent conversions of the same product serialize on the
		// row — a racing request that would oversell matches zero rows
		// and aborts.
		for _, oi := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", oi.ProductID, oi.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", oi.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var p models.Product
				_ = tx.First(&p, oi.ProductID).Error
				return &InsufficientStockError{
					ProductID: oi.ProductID,
					Name:      p.Name,
					Requested: int(oi.Quantity),
					Available: p.StockQuantity,
				}
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		return tx.Create(&models.OrderStatusRecord{
			OrderID: order.ID,
			Status:  models.OrderStatusPending,
			Actor:   models.ActorSystem,
		}).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return &order, nil
}

// Cancel lets the owning user cancel a pending order. Stock is not
// restored on cancellation; restocking is an inventory operation, not
// part of the order workflow.
func (s *Service) Cancel(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !CanTransition(order.Status, models.OrderStatusCancelled) {
			return &InvalidTransitionError{From: order.Status, To: models.OrderStatusCancelled}
		}
		return s.transition(tx, &order, models.OrderStatusCancelled, models.ActorUser)
	})
	if txErr != nil {
		return nil, txErr
	}
	return &order, nil
}

// SetStatus is the administrative override: any enumerated status may
// be forced regardless of the current one, but values outside the
// enumeration are rejected.
func (s *Service) SetStatus(ctx context.Context, orderID uint, status models.OrderStatus, actor string) (*models.Order, error) {
	var order models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !status.Valid() {
			return &InvalidTransitionError{From: order.Status, To: status}
		}
		return s.transition(tx, &order, status, actor)
	})
	if txErr != nil {
		return nil, txErr
	}
	return &order, nil
}

// transition flips the denormalized status column and appends one
// history record. Prior records are never touched.
func (s *Service) transition(tx *gorm.DB, order *models.Order, status models.OrderStatus, actor string) error {
	if err := tx.Model(order).Update("status", status).Error; err != nil {
		return err
	}
	order.Status = status
	return tx.Create(&models.OrderStatusRecord{
		OrderID: order.ID,
		Status:  status,
		Actor:   actor,
	}).Error
}

// History returns the append-only status ledger, oldest first.
func (s *Service) History(ctx context.Context, orderID uint) ([]models.OrderStatusRecord, error) {
	var records []models.OrderStatusRecord
	err := s.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
