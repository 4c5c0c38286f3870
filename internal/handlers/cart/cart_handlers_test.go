package cart

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/hahacafe/coffee-shop/internal/models"
)

func seedProduct(t *testing.T, env *testEnv, name string, price int64) models.Product {
	cat := models.Category{Name: "Coffee"}
	require.NoError(t, env.DB.FirstOrCreate(&cat, models.Category{Name: "Coffee"}).Error)
	p := models.Product{CategoryID: cat.ID, Name: name, Description: "test", Price: price}
	require.NoError(t, env.DB.Create(&p).Error)
	return p
}

func addToCart(t *testing.T, env *testEnv, userID, productID uint, qty uint, size string) string {
	body := map[string]interface{}{"productId": productID, "quantity": qty, "size": size}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/cart", body, userID)
	require.NoError(t, env.H.AddToCart(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

func TestAddToCartMergesDuplicates(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Latte", 50000)

	id1 := addToCart(t, env, 1, p.ID, 2, "M")
	id2 := addToCart(t, env, 1, p.ID, 3, "M")
	require.Equal(t, id1, id2)

	var items []models.CartItem
	require.NoError(t, env.DB.Where("user_id = ?", 1).Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, uint(5), items[0].Quantity)
}

func TestAddToCartDifferentSizesAreSeparateRows(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Latte", 50000)

	addToCart(t, env, 1, p.ID, 1, "M")
	addToCart(t, env, 1, p.ID, 1, "L")

	var count int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestAddToCartMissingFields(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []map[string]interface{}{
		{"quantity": 1, "size": "M"},
		{"productId": 1, "size": "M"},
		{"productId": 1, "quantity": 1},
	} {
		_, c := env.doJSONRequest(http.MethodPost, "/api/cart", body, 1)
		err := env.H.AddToCart(c)
		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		require.Equal(t, http.StatusBadRequest, he.Code)
	}
}

func TestGetCartTotals(t *testing.T) {
	env := newTestEnv(t)
	a := seedProduct(t, env, "Latte", 50000)
	b := seedProduct(t, env, "Mocha", 70000)

	addToCart(t, env, 1, a.ID, 2, "M")
	addToCart(t, env, 1, b.ID, 1, "L")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/cart?delivery=deliver&discount=1", nil, 1)
	require.NoError(t, env.H.GetCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items  []cartLine `json:"items"`
		Totals struct {
			Subtotal    int64 `json:"subtotal"`
			DeliveryFee int64 `json:"delivery_fee"`
			Discount    int64 `json:"discount"`
			Payable     int64 `json:"payable"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	require.Equal(t, int64(170000), resp.Totals.Subtotal)
	require.Equal(t, int64(20000), resp.Totals.DeliveryFee)
	require.Equal(t, int64(17000), resp.Totals.Discount)
	require.Equal(t, int64(173000), resp.Totals.Payable)
}

func TestGetCartAppliesSizeModifier(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Latte", 50000)
	require.NoError(t, env.DB.Create(&models.ProductSize{ProductID: p.ID, Size: "L", PriceModifier: 10000}).Error)

	addToCart(t, env, 1, p.ID, 2, "L")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/cart", nil, 1)
	require.NoError(t, env.H.GetCart(c))

	var resp struct {
		Items []cartLine `json:"items"`
		Totals struct {
			Subtotal int64 `json:"subtotal"`
			Payable  int64 `json:"payable"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	require.Equal(t, int64(120000), resp.Items[0].LineTotal)
	require.Equal(t, int64(120000), resp.Totals.Subtotal)
	require.Equal(t, int64(120000), resp.Totals.Payable)
}

func TestUpdateCartItem(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Latte", 50000)
	id := addToCart(t, env, 1, p.ID, 1, "M")

	rec, c := env.doJSONRequest(http.MethodPut, "/api/cart/"+id, map[string]uint{"quantity": 7}, 1)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, env.H.UpdateCartItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.CartItem
	require.NoError(t, env.DB.First(&item, "id = ?", id).Error)
	require.Equal(t, uint(7), item.Quantity)
}

func TestRemoveCartItem(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Latte", 50000)
	id := addToCart(t, env, 1, p.ID, 1, "M")

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/cart/"+id, nil, 1)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, env.H.RemoveCartItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestClearCartOnlyClearsOwnItems(t *testing.T) {
	env := newTestEnv(t)
	p := seedProduct(t, env, "Latte", 50000)
	addToCart(t, env, 1, p.ID, 1, "M")
	addToCart(t, env, 2, p.ID, 1, "M")

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/cart/clear/all", nil, 1)
	require.NoError(t, env.H.ClearCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var remaining []models.CartItem
	require.NoError(t, env.DB.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, uint(2), remaining[0].UserID)
}
