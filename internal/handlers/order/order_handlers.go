package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hahacafe/coffee-shop/internal/handlers"
	"github.com/hahacafe/coffee-shop/internal/jwtmiddleware"
	"github.com/hahacafe/coffee-shop/internal/models"
	"github.com/hahacafe/coffee-shop/internal/mykafka"
)

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

type createOrderItem struct {
	ID       uint   `json:"id"       validate:"required"`
	Quantity uint   `json:"quantity" validate:"required"`
	Size     string `json:"size"`
	Price    int64  `json:"price"`
}

type createOrderRequest struct {
	Items         []createOrderItem `json:"items" validate:"required,min=1,dive"`
	TotalAmount   int64             `json:"totalAmount"`
	Status        string            `json:"status"`
	Address       string            `json:"address"`
	Note          string            `json:"note"`
	PaymentMethod string            `json:"paymentMethod"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
}

// CreateOrder persists one order row plus one item row per line, all inside a
// single transaction. Item prices are the caller's snapshot and totalAmount is
// trusted as-is. Unknown status and payment method strings silently map to
// their defaults.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	customerName := req.CustomerName
	customerPhone := req.CustomerPhone
	if customerName == "" || customerPhone == "" {
		var user models.User
		if err := h.DB.First(&user, userID).Error; err == nil {
			if customerName == "" {
				customerName = handlers.FullName(&user)
			}
			if customerPhone == "" {
				customerPhone = user.Phone
			}
		}
	}

	order := models.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		TotalAmount:     req.TotalAmount,
		StatusID:        int(models.ParseStatus(req.Status)),
		DeliveryAddress: req.Address,
		Notes:           req.Note,
		PaymentMethodID: int(models.ParsePaymentMethod(req.PaymentMethod)),
		DeliveryMethod:  "deliver",
		CustomerName:    customerName,
		CustomerPhone:   customerPhone,
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, it := range req.Items {
			item := models.OrderItem{
				ID:        uuid.NewString(),
				OrderID:   order.ID,
				ProductID: it.ID,
				Quantity:  it.Quantity,
				Size:      it.Size,
				Price:     it.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		c.Logger().Errorf("order create error: %v", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.publish(c, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.TotalAmount,
		"status":  models.Status(order.StatusID).String(),
	})
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "order created successfully",
		"orderId": order.ID,
	})
}

type orderItemView struct {
	ID          string `json:"id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"productName"`
	Price       int64  `json:"price"`
	Quantity    uint   `json:"quantity"`
	Size        string `json:"size"`
	Image       string `json:"image"`
}

type orderView struct {
	ID                    string          `json:"id"`
	TotalAmount           int64           `json:"totalAmount"`
	Status                string          `json:"status"`
	Date                  time.Time       `json:"date"`
	Address               string          `json:"address"`
	Note                  string          `json:"note"`
	PaymentMethod         string          `json:"paymentMethod"`
	CustomerName          string          `json:"customerName"`
	CustomerPhone         string          `json:"customerPhone"`
	UserConfirmedTransfer bool            `json:"userConfirmedTransfer"`
	Items                 []orderItemView `json:"items"`
}

// GetOrderHistory lists the caller's orders, newest first, with nested items
// joined to product names.
func (h *OrderHandler) GetOrderHistory(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		c.Logger().Errorf("order history error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		var items []orderItemView
		if err := h.DB.Table("order_items").
			Select("order_items.id, order_items.product_id, products.name AS product_name, "+
				"order_items.price, order_items.quantity, order_items.size, products.image").
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("order_items.order_id = ?", o.ID).
			Scan(&items).Error; err != nil {
			c.Logger().Errorf("order items error: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}

		views = append(views, orderView{
			ID:                    o.ID,
			TotalAmount:           o.TotalAmount,
			Status:                models.Status(o.StatusID).String(),
			Date:                  o.CreatedAt,
			Address:               o.DeliveryAddress,
			Note:                  o.Notes,
			PaymentMethod:         models.PaymentMethod(o.PaymentMethodID).String(),
			CustomerName:          o.CustomerName,
			CustomerPhone:         o.CustomerPhone,
			UserConfirmedTransfer: o.UserConfirmedTransfer,
			Items:                 items,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// loadOwnedOrder enforces the ownership check shared by the mutating
// endpoints: 404 when the order does not exist, 403 when it belongs to
// someone else.
func (h *OrderHandler) loadOwnedOrder(c echo.Context, userID uint) (*models.Order, error) {
	orderID := c.Param("orderId")

	var order models.Order
	if err := h.DB.Where("id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		c.Logger().Errorf("order lookup error: %v", err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if order.UserID != userID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "no permission to update this order")
	}
	return &order, nil
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.loadOwnedOrder(c, userID)
	if err != nil {
		return err
	}

	next := models.ParseStatus(req.Status)
	switch models.Status(order.StatusID).CanTransitionTo(next) {
	case models.TransitionRejectedTerminal:
		return echo.NewHTTPError(http.StatusBadRequest, "cannot update a delivered order")
	case models.TransitionRejectedInTransit:
		return echo.NewHTTPError(http.StatusBadRequest, "cannot cancel an order that is out for delivery")
	}

	if err := h.DB.Model(order).Update("status_id", int(next)).Error; err != nil {
		c.Logger().Errorf("order status update error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.publish(c, map[string]any{
		"type":    "order_status_updated",
		"userID":  userID,
		"orderID": order.ID,
		"status":  next.String(),
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "order status updated successfully"})
}

// ConfirmUserTransfer records the user's claim of having sent payment and
// forces the order to pending regardless of its prior state. This is "payment
// claimed, awaiting manual verification", not a verified payment.
func (h *OrderHandler) ConfirmUserTransfer(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	order, err := h.loadOwnedOrder(c, userID)
	if err != nil {
		return err
	}

	now := time.Now()
	updates := map[string]any{
		"user_confirmed_transfer":    true,
		"user_confirmed_transfer_at": now,
		"status_id":                  int(models.StatusPending),
	}
	if err := h.DB.Model(order).Updates(updates).Error; err != nil {
		c.Logger().Errorf("confirm transfer error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.publish(c, map[string]any{
		"type":    "transfer_confirmed",
		"userID":  userID,
		"orderID": order.ID,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "transfer confirmed"})
}
