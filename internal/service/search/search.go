package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"gorm.io/gorm"

	"github.com/hahacafe/coffee-shop/internal/models"
)

const (
	productLimit  = 10
	categoryLimit = 5
)

// Service answers substring search over the catalog. With an Elasticsearch
// client it runs a fuzzy multi_match; without one it degrades to SQL LIKE,
// which is the reference behavior.
type Service struct {
	DB    *gorm.DB
	ES    *elasticsearch.Client
	Index string
}

type Result struct {
	Products   []models.ProductView `json:"products"`
	Categories []models.Category    `json:"categories"`
}

// NewService builds the service; esURL may be empty, in which case no ES
// client is created and every query takes the database path.
func NewService(db *gorm.DB, esURL, esUser, esPassword, index string) (*Service, error) {
	svc := &Service{DB: db, Index: index}
	if esURL == "" {
		return svc, nil
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{esURL},
		Username:  esUser,
		Password:  esPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	svc.ES = client
	return svc, nil
}

func (s *Service) Search(ctx context.Context, query string) (*Result, error) {
	var (
		products []models.ProductView
		err      error
	)
	if s.ES != nil {
		products, err = s.searchES(ctx, query)
	} else {
		products, err = s.searchDB(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	var categories []models.Category
	if err := s.DB.WithContext(ctx).
		Where("name LIKE ?", "%"+query+"%").
		Limit(categoryLimit).
		Find(&categories).Error; err != nil {
		return nil, err
	}

	return &Result{Products: products, Categories: categories}, nil
}

func (s *Service) searchDB(ctx context.Context, query string) ([]models.ProductView, error) {
	like := "%" + query + "%"
	var products []models.ProductView
	err := s.DB.WithContext(ctx).
		Table("products").
		Select("products.id, products.category_id, products.name, products.description, "+
			"products.full_description, products.image, products.price, products.rating, "+
			"products.reviews_count, products.created_at, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.name LIKE ? OR products.description LIKE ?", like, like).
		Limit(productLimit).
		Scan(&products).Error
	return products, err
}

func (s *Service) searchES(ctx context.Context, query string) ([]models.ProductView, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"size": productLimit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := s.ES.Search(
		s.ES.Search.WithContext(ctx),
		s.ES.Search.WithIndex(s.Index),
		s.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.ProductView `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	products := make([]models.ProductView, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return products, nil
}
