package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"robostore/internal/models"
	"robostore/internal/redisclient"
	"robostore/internal/util"
)

// ProductStore is the persistence surface the catalog service needs.
type ProductStore interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
}

// CatalogService provides read-only access to the product catalog, with a
// read-through cache for single-product lookups. The cache may be nil.
type CatalogService struct {
	store    ProductStore
	cache    *redisclient.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store ProductStore, cache *redisclient.Client, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   util.GetLogger(),
	}
}

// GetProduct retrieves a product by id. Products are read-mostly, so a
// short-TTL cache is safe; cache failures fall through to the store.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.GetProduct(ctx, id)
		if err != nil {
			s.logger.Warn("Catalog cache read failed", zap.String("product_id", id), zap.Error(err))
		} else if cached != nil {
			util.CatalogCacheHitsTotal.Inc()
			return cached, nil
		}
		util.CatalogCacheMissesTotal.Inc()
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product, s.cacheTTL); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.String("product_id", id), zap.Error(err))
		}
	}
	return product, nil
}

// ListProducts retrieves products matching the filter, capped at 100.
func (s *CatalogService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	return s.store.ListProducts(ctx, filter)
}

// Categories returns the static catalog groupings.
func (s *CatalogService) Categories() []models.Category {
	return []models.Category{
		{ID: "home_automation", Name: "Home Automation", Description: "Smart robots for your home"},
		{ID: "educational", Name: "Educational", Description: "Learning and hobby robotics"},
		{ID: "ai_companion", Name: "AI Companions", Description: "Intelligent companion robots"},
	}
}
