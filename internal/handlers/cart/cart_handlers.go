package cart

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hahacafe/coffee-shop/internal/jwtmiddleware"
	"github.com/hahacafe/coffee-shop/internal/models"
	"github.com/hahacafe/coffee-shop/internal/mykafka"
	"github.com/hahacafe/coffee-shop/internal/pricing"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

// cartLine is one cart row joined with product and size details.
type cartLine struct {
	ID            string `json:"id"`
	ProductID     uint   `json:"product_id"`
	ProductName   string `json:"product_name"`
	ProductImage  string `json:"product_image"`
	ProductPrice  int64  `json:"product_price"`
	Size          string `json:"size"`
	PriceModifier int64  `json:"price_modifier"`
	Quantity      uint   `json:"quantity"`
	LineTotal     int64  `json:"line_total"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	var lines []cartLine
	if err := h.DB.Table("cart_items").
		Select("cart_items.id, cart_items.product_id, products.name AS product_name, "+
			"products.image AS product_image, products.price AS product_price, "+
			"cart_items.size, COALESCE(product_sizes.price_modifier, 0) AS price_modifier, "+
			"cart_items.quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Joins("LEFT JOIN product_sizes ON product_sizes.product_id = products.id AND product_sizes.size = cart_items.size").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at DESC").
		Scan(&lines).Error; err != nil {
		c.Logger().Errorf("cart read error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	lineTotals := make([]int64, len(lines))
	for i := range lines {
		lines[i].LineTotal = pricing.LineTotal(lines[i].ProductPrice, lines[i].PriceModifier, lines[i].Quantity)
		lineTotals[i] = lines[i].LineTotal
	}
	subtotal := pricing.Subtotal(lineTotals)

	delivery := c.QueryParam("delivery")
	if delivery == "" {
		delivery = pricing.MethodPickup
	}
	discount := c.QueryParam("discount") == "1" || c.QueryParam("discount") == "true"
	payable := pricing.Payable(subtotal, delivery, discount)

	deliveryFee := int64(0)
	if delivery == pricing.MethodDeliver {
		deliveryFee = pricing.DeliveryFee
	}
	discountAmount := int64(0)
	if discount {
		discountAmount = subtotal * pricing.DiscountPercent / 100
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items": lines,
		"totals": echo.Map{
			"subtotal":     subtotal,
			"delivery_fee": deliveryFee,
			"discount":     discountAmount,
			"payable":      payable,
		},
	})
}

// AddToCart merges onto an existing (user, product, size) row atomically: the
// unique index plus INSERT .. ON CONFLICT increments quantity instead of
// racing a read-then-write.
func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint   `json:"productId" validate:"required"`
		Quantity  uint   `json:"quantity"  validate:"required"`
		Size      string `json:"size"      validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item := models.CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: req.ProductID,
		Size:      req.Size,
		Quantity:  req.Quantity,
	}
	if err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "size"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(&item).Error; err != nil {
		c.Logger().Errorf("cart upsert error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	// The insert id is discarded on conflict; read back the surviving row.
	var stored models.CartItem
	if err := h.DB.
		Where("user_id = ? AND product_id = ? AND size = ?", userID, req.ProductID, req.Size).
		First(&stored).Error; err != nil {
		c.Logger().Errorf("cart read-back error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"itemID":    stored.ID,
		"productID": stored.ProductID,
		"size":      stored.Size,
		"quantity":  stored.Quantity,
	})
	return c.JSON(http.StatusCreated, echo.Map{"id": stored.ID})
}

// UpdateCartItem overwrites quantity by row id. Ownership is the caller's
// responsibility at this layer.
func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	var req struct {
		Quantity uint `json:"quantity" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tx := h.DB.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", req.Quantity)
	if tx.Error != nil {
		c.Logger().Errorf("cart update error: %v", tx.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if tx.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	h.publish(c, map[string]any{
		"type":     "cart_item_updated",
		"userID":   userID,
		"itemID":   id,
		"quantity": req.Quantity,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "cart updated"})
}

func (h *CartHandler) RemoveCartItem(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	tx := h.DB.Where("id = ?", id).Delete(&models.CartItem{})
	if tx.Error != nil {
		c.Logger().Errorf("cart delete error: %v", tx.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if tx.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
	}

	h.publish(c, map[string]any{
		"type":   "cart_item_removed",
		"userID": userID,
		"itemID": id,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "cart item removed"})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := jwtmiddleware.UserID(c)
	if err != nil {
		return err
	}

	if err := h.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		c.Logger().Errorf("cart clear error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	h.publish(c, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "cart cleared"})
}
