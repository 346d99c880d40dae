package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reybrally/product-composite-service/internal/adapters/cache"
	kaf "github.com/reybrally/product-composite-service/internal/adapters/kafka"
	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
	"github.com/reybrally/product-composite-service/internal/logging"
	"github.com/reybrally/product-composite-service/internal/services"
)

func TestMain(m *testing.M) {
	logging.InitLogger()
	os.Exit(m.Run())
}

type fakeProductStore struct {
	products  map[int]domain.Product
	createErr error
	deleteErr error
	created   []int
	deleted   []int
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[int]domain.Product{}}
}

func (s *fakeProductStore) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if s.createErr != nil {
		return domain.Product{}, s.createErr
	}
	if _, ok := s.products[p.ProductID]; ok {
		return domain.Product{}, fmt.Errorf("%w: Duplicate key, productId: %d", app.ErrInvalidInput, p.ProductID)
	}
	s.products[p.ProductID] = p
	s.created = append(s.created, p.ProductID)
	return p, nil
}

func (s *fakeProductStore) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	p, ok := s.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: no product found for productId: %d", app.ErrNotFound, productID)
	}
	return p, nil
}

func (s *fakeProductStore) DeleteProduct(ctx context.Context, productID int) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.products, productID)
	s.deleted = append(s.deleted, productID)
	return nil
}

func createMessage(t *testing.T, key int, p domain.Product) kaf.Message {
	t.Helper()
	body, err := json.Marshal(kaf.NewCreateEvent(key, p))
	require.NoError(t, err)
	env, err := kaf.DecodeEvent(body)
	require.NoError(t, err)
	return kaf.Message{Topic: "products", Key: []byte("1"), Envelope: env}
}

func deleteMessage(t *testing.T, key int) kaf.Message {
	t.Helper()
	body, err := json.Marshal(kaf.NewDeleteEvent[domain.Product](key))
	require.NoError(t, err)
	env, err := kaf.DecodeEvent(body)
	require.NoError(t, err)
	return kaf.Message{Topic: "products", Key: []byte("1"), Envelope: env}
}

func newProductProcessor(store *fakeProductStore) *ProductProcessor {
	svc := services.NewProductService(store, cache.NewCacheService(16), "test-host")
	return NewProductProcessor(svc)
}

func TestProductCreateApplied(t *testing.T) {
	store := newFakeProductStore()
	p := newProductProcessor(store)

	msg := createMessage(t, 1, domain.Product{ProductID: 1, Name: "name", Weight: 1})
	require.NoError(t, p.Handle(context.Background(), msg))
	assert.Equal(t, []int{1}, store.created)
}

func TestProductCreateInvalidKeyDropped(t *testing.T) {
	store := newFakeProductStore()
	p := newProductProcessor(store)

	msg := createMessage(t, -1, domain.Product{ProductID: -1, Name: "name", Weight: 1})
	// Terminal: handled without error so the message is committed, but no
	// row is written.
	require.NoError(t, p.Handle(context.Background(), msg))
	assert.Empty(t, store.created)
}

func TestProductCreateRedeliveryIsTerminalDuplicate(t *testing.T) {
	store := newFakeProductStore()
	p := newProductProcessor(store)

	msg := createMessage(t, 1, domain.Product{ProductID: 1, Name: "name", Weight: 1})
	require.NoError(t, p.Handle(context.Background(), msg))
	// Redelivered CREATE hits the uniqueness constraint and is dropped, not
	// retried.
	require.NoError(t, p.Handle(context.Background(), msg))
	assert.Equal(t, []int{1}, store.created)
}

func TestProductCreateTransientStoreErrorIsRetryable(t *testing.T) {
	store := newFakeProductStore()
	store.createErr = errors.New("connection reset")
	p := newProductProcessor(store)

	msg := createMessage(t, 1, domain.Product{ProductID: 1, Name: "name", Weight: 1})
	err := p.Handle(context.Background(), msg)
	require.Error(t, err)
}

func TestProductDeleteIdempotent(t *testing.T) {
	store := newFakeProductStore()
	p := newProductProcessor(store)

	// Deleting a product that never existed is a success with zero rows.
	require.NoError(t, p.Handle(context.Background(), deleteMessage(t, 99)))
	require.NoError(t, p.Handle(context.Background(), deleteMessage(t, 99)))
	assert.Equal(t, []int{99, 99}, store.deleted)
}

func TestUnknownEventTypeDropped(t *testing.T) {
	store := newFakeProductStore()
	p := newProductProcessor(store)

	msg := kaf.Message{
		Topic:    "products",
		Key:      []byte("1"),
		Envelope: kaf.Event[json.RawMessage]{EventType: "UPDATE", Key: 1},
	}
	require.NoError(t, p.Handle(context.Background(), msg))
	assert.Empty(t, store.created)
	assert.Empty(t, store.deleted)
}

func TestCreateNullPayloadDropped(t *testing.T) {
	store := newFakeProductStore()
	p := newProductProcessor(store)

	msg := kaf.Message{
		Topic:    "products",
		Key:      []byte("1"),
		Envelope: kaf.Event[json.RawMessage]{EventType: kaf.EventCreate, Key: 1},
	}
	require.NoError(t, p.Handle(context.Background(), msg))
	assert.Empty(t, store.created)
}

type fakeRecommendationStore struct {
	rows map[int][]domain.Recommendation
}

func (s *fakeRecommendationStore) CreateRecommendation(ctx context.Context, r domain.Recommendation) (domain.Recommendation, error) {
	for _, existing := range s.rows[r.ProductID] {
		if existing.RecommendationID == r.RecommendationID {
			return domain.Recommendation{}, fmt.Errorf("%w: Duplicate key, productId: %d, recommendationId: %d",
				app.ErrInvalidInput, r.ProductID, r.RecommendationID)
		}
	}
	s.rows[r.ProductID] = append(s.rows[r.ProductID], r)
	return r, nil
}

func (s *fakeRecommendationStore) GetRecommendations(ctx context.Context, productID int) ([]domain.Recommendation, error) {
	return s.rows[productID], nil
}

func (s *fakeRecommendationStore) DeleteRecommendations(ctx context.Context, productID int) error {
	delete(s.rows, productID)
	return nil
}

func TestRecommendationDeleteWithZeroRows(t *testing.T) {
	store := &fakeRecommendationStore{rows: map[int][]domain.Recommendation{}}
	svc := services.NewRecommendationService(store, "test-host")
	p := NewRecommendationProcessor(svc)

	body, err := json.Marshal(kaf.NewDeleteEvent[domain.Recommendation](5))
	require.NoError(t, err)
	env, err := kaf.DecodeEvent(body)
	require.NoError(t, err)

	require.NoError(t, p.Handle(context.Background(), kaf.Message{Topic: "recommendations", Envelope: env}))
}

func TestRecommendationCreateApplied(t *testing.T) {
	store := &fakeRecommendationStore{rows: map[int][]domain.Recommendation{}}
	svc := services.NewRecommendationService(store, "test-host")
	p := NewRecommendationProcessor(svc)

	rec := domain.Recommendation{ProductID: 1, RecommendationID: 1, Author: "a", Rate: 1, Content: "c"}
	body, err := json.Marshal(kaf.NewCreateEvent(1, rec))
	require.NoError(t, err)
	env, err := kaf.DecodeEvent(body)
	require.NoError(t, err)

	require.NoError(t, p.Handle(context.Background(), kaf.Message{Topic: "recommendations", Envelope: env}))
	assert.Len(t, store.rows[1], 1)
}
