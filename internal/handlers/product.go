package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hahacafe/coffee-shop/internal/models"
	"github.com/hahacafe/coffee-shop/internal/util"
)

// ProductHandler serves the read-mostly catalog. All routes are public.
type ProductHandler struct {
	DB *gorm.DB
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

const productSelect = "products.id, products.category_id, products.name, products.description, " +
	"products.full_description, products.image, products.price, products.rating, " +
	"products.reviews_count, products.created_at, categories.name AS category_name"

func (h *ProductHandler) productQuery() *gorm.DB {
	return h.DB.Table("products").
		Select(productSelect).
		Joins("JOIN categories ON categories.id = products.category_id")
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Product{}).Count(&total).Error; err != nil {
		c.Logger().Errorf("product count error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	var items []models.ProductView
	if err := h.productQuery().
		Order("products.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&items).Error; err != nil {
		c.Logger().Errorf("product list error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": echo.Map{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var product models.ProductView
	tx := h.productQuery().Where("products.id = ?", id).Scan(&product)
	if tx.Error != nil {
		c.Logger().Errorf("product lookup error: %v", tx.Error)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if tx.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	var sizes []models.ProductSize
	if err := h.DB.Where("product_id = ?", id).Find(&sizes).Error; err != nil {
		c.Logger().Errorf("product sizes error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":              product.ID,
		"category_id":     product.CategoryID,
		"category_name":   product.CategoryName,
		"name":            product.Name,
		"description":     product.Description,
		"fullDescription": product.FullDescription,
		"image":           product.Image,
		"price":           product.Price,
		"rating":          product.Rating,
		"reviews_count":   product.ReviewsCount,
		"created_at":      product.CreatedAt,
		"sizes":           sizes,
	})
}

func (h *ProductHandler) GetProductsByCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		c.Logger().Errorf("category lookup error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	var items []models.ProductView
	if err := h.productQuery().
		Where("products.category_id = ?", id).
		Order("products.created_at DESC").
		Scan(&items).Error; err != nil {
		c.Logger().Errorf("category products error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		c.Logger().Errorf("categories list error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, categories)
}
