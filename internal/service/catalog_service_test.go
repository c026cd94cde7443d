package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robostore/internal/apperr"
	"robostore/internal/models"
)

func newCatalogFixture(t *testing.T) (*CatalogService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.addProduct(models.Product{
		ID: "p1", Name: "RoboVac Pro X1",
		Description: "Advanced home cleaning robot",
		Category:    "home_automation", Featured: true, Price: 599.99,
	})
	store.addProduct(models.Product{
		ID: "p2", Name: "EduBot Learning Kit",
		Description: "Complete robotics learning kit",
		Category:    "educational", Featured: false, Price: 199.99,
	})
	store.addProduct(models.Product{
		ID: "p3", Name: "Smart Home Hub",
		Description: "Pairs with the robovac line",
		Category:    "home_automation", Featured: true, Price: 899.99,
	})
	return NewCatalogService(store, nil, 0), store
}

func TestGetProductNotFound(t *testing.T) {
	svc, _ := newCatalogFixture(t)

	_, err := svc.GetProduct(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListProductsSearchIsCaseInsensitive(t *testing.T) {
	svc, _ := newCatalogFixture(t)

	products, err := svc.ListProducts(context.Background(), models.ProductFilter{Search: "RoboVac"})
	require.NoError(t, err)

	// matches name on p1 and description on p3, never p2
	require.Len(t, products, 2)
	ids := []string{products[0].ID, products[1].ID}
	assert.ElementsMatch(t, []string{"p1", "p3"}, ids)
}

func TestListProductsCombinesFilters(t *testing.T) {
	svc, _ := newCatalogFixture(t)
	featured := true

	products, err := svc.ListProducts(context.Background(), models.ProductFilter{
		Category: "home_automation",
		Search:   "cleaning",
		Featured: &featured,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestCategoriesAreStatic(t *testing.T) {
	svc, _ := newCatalogFixture(t)

	categories := svc.Categories()
	require.Len(t, categories, 3)
	assert.Equal(t, "home_automation", categories[0].ID)
}
