package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/prasetyo/storefront/cart/internal/client"
	"github.com/prasetyo/storefront/cart/internal/repository"
	"github.com/prasetyo/storefront/cart/pkg/cart"
	inErrors "github.com/prasetyo/storefront/internal/errors"
)

// memoryStore is a document-store stand-in: every Find returns a fresh copy
// of the stored document, so stale reads behave like they would against the
// real store.
type memoryStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{carts: map[string][]byte{}}
}

func (m *memoryStore) Find(_ context.Context, owner cart.Owner) (*cart.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.carts[repository.StoreKey(owner)]
	if !ok {
		return nil, inErrors.ErrCartNotFound
	}
	crt := cart.Cart{}
	if err := json.Unmarshal(raw, &crt); err != nil {
		return nil, err
	}
	return &crt, nil
}

func (m *memoryStore) Save(_ context.Context, crt *cart.Cart) error {
	raw, err := json.Marshal(crt)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[repository.StoreKey(crt.Owner)] = raw
	return nil
}

func (m *memoryStore) Delete(_ context.Context, owner cart.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, repository.StoreKey(owner))
	return nil
}

func (m *memoryStore) contains(owner cart.Owner) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.carts[repository.StoreKey(owner)]
	return ok
}

func (m *memoryStore) size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.carts)
}

type stubCatalog struct {
	products map[uuid.UUID]client.Product
}

func (s stubCatalog) FindProductById(
	_ context.Context,
	productId uuid.UUID,
) (client.Product, error) {
	product, ok := s.products[productId]
	if !ok {
		return client.Product{}, inErrors.ErrProductNotFound
	}
	return product, nil
}

func newTestProduct(price int64) client.Product {
	return client.Product{
		ID:       uuid.New(),
		Name:     "classic tee",
		Price:    decimal.NewFromInt(price),
		ImageUrl: "https://cdn.example.com/classic-tee.jpg",
	}
}

func newTestService(t *testing.T, products ...client.Product) (*CartService, *memoryStore) {
	t.Helper()

	catalog := stubCatalog{products: map[uuid.UUID]client.Product{}}
	for _, product := range products {
		catalog.products[product.ID] = product
	}
	store := newMemoryStore()
	return NewCartService(store, catalog), store
}
