package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hahacafe/coffee-shop/internal/config"
	"github.com/hahacafe/coffee-shop/internal/models"
)

func newTestService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	svc, err := NewService(db, "", "", "", "products")
	require.NoError(t, err)
	require.Nil(t, svc.ES)
	return svc
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	coffee := models.Category{Name: "Coffee"}
	tea := models.Category{Name: "Tea"}
	require.NoError(t, db.Create(&coffee).Error)
	require.NoError(t, db.Create(&tea).Error)

	products := []models.Product{
		{CategoryID: coffee.ID, Name: "Cappuccino", Description: "espresso with steamed milk", Price: 55000},
		{CategoryID: coffee.ID, Name: "Americano", Description: "espresso and hot water", Price: 45000},
		{CategoryID: tea.ID, Name: "Green Tea Latte", Description: "matcha with milk", Price: 60000},
	}
	for i := range products {
		require.NoError(t, db.Create(&products[i]).Error)
	}
}

func TestSearchMatchesNameAndDescription(t *testing.T) {
	svc := newTestService(t)
	seedCatalog(t, svc.DB)

	res, err := svc.Search(context.Background(), "Cappuccino")
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	require.Equal(t, "Cappuccino", res.Products[0].Name)
	require.Equal(t, "Coffee", res.Products[0].CategoryName)

	res, err = svc.Search(context.Background(), "espresso")
	require.NoError(t, err)
	require.Len(t, res.Products, 2)
}

func TestSearchMatchesCategories(t *testing.T) {
	svc := newTestService(t)
	seedCatalog(t, svc.DB)

	res, err := svc.Search(context.Background(), "Tea")
	require.NoError(t, err)
	require.Len(t, res.Categories, 1)
	require.Equal(t, "Tea", res.Categories[0].Name)
	require.Len(t, res.Products, 1)
}

func TestSearchNoMatches(t *testing.T) {
	svc := newTestService(t)
	seedCatalog(t, svc.DB)

	res, err := svc.Search(context.Background(), "smoothie")
	require.NoError(t, err)
	require.Empty(t, res.Products)
	require.Empty(t, res.Categories)
}

func TestSearchLimitsResults(t *testing.T) {
	svc := newTestService(t)

	cat := models.Category{Name: "Coffee"}
	require.NoError(t, svc.DB.Create(&cat).Error)
	for i := 0; i < 15; i++ {
		p := models.Product{CategoryID: cat.ID, Name: fmt.Sprintf("Blend %02d", i), Description: "house blend", Price: 40000}
		require.NoError(t, svc.DB.Create(&p).Error)
	}

	res, err := svc.Search(context.Background(), "Blend")
	require.NoError(t, err)
	require.Len(t, res.Products, productLimit)
}
