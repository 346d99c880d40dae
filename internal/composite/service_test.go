package composite

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kaf "github.com/reybrally/product-composite-service/internal/adapters/kafka"
	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
	"github.com/reybrally/product-composite-service/internal/logging"
)

func TestMain(m *testing.M) {
	logging.InitLogger()
	os.Exit(m.Run())
}

type stubProducts struct {
	delay   time.Duration
	product domain.Product
	err     error
}

func (s *stubProducts) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return domain.Product{}, ctx.Err()
	}
	if s.err != nil {
		return domain.Product{}, s.err
	}
	return s.product, nil
}

func (s *stubProducts) Health(ctx context.Context) error { return s.err }

type stubRecommendations struct {
	delay time.Duration
	recs  []domain.Recommendation
	err   error
}

func (s *stubRecommendations) GetRecommendations(ctx context.Context, productID int) ([]domain.Recommendation, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.recs, nil
}

func (s *stubRecommendations) Health(ctx context.Context) error { return s.err }

type stubReviews struct {
	delay time.Duration
	revs  []domain.Review
	err   error
}

func (s *stubReviews) GetReviews(ctx context.Context, productID int) ([]domain.Review, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.revs, nil
}

func (s *stubReviews) Health(ctx context.Context) error { return s.err }

type published struct {
	topic string
	key   int
	event kaf.Event[json.RawMessage]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, key int, event any) error {
	if p.err != nil {
		return p.err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	env, err := kaf.DecodeEvent(body)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.events = append(p.events, published{topic: topic, key: key, event: env})
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) recorded() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]published, len(p.events))
	copy(out, p.events)
	return out
}

var testTopics = Topics{
	Products:        "products",
	Recommendations: "recommendations",
	Reviews:         "reviews",
}

func newTestService(p ProductSource, rec RecommendationSource, rev ReviewSource, pub Publisher) *Service {
	return NewService(p, rec, rev, pub, testTopics, "composite-host/1.2.3.4:8080")
}

func TestGetCompositeFanOutLatencyIsMaxNotSum(t *testing.T) {
	const delay = 100 * time.Millisecond

	svc := newTestService(
		&stubProducts{delay: delay, product: domain.Product{ProductID: 1, Name: "name", Weight: 1, ServiceAddress: "p-host"}},
		&stubRecommendations{delay: delay, recs: []domain.Recommendation{{ProductID: 1, RecommendationID: 1, ServiceAddress: "rec-host"}}},
		&stubReviews{delay: delay, revs: []domain.Review{{ProductID: 1, ReviewID: 1, ServiceAddress: "rev-host"}}},
		&recordingPublisher{},
	)

	start := time.Now()
	agg, err := svc.GetComposite(context.Background(), 1)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 1, agg.ProductID)
	// Three 100ms calls issued concurrently must finish near 100ms, far
	// below the 300ms a sequential chain would need.
	assert.Less(t, elapsed, 250*time.Millisecond, "fan-out must run concurrently")
	assert.GreaterOrEqual(t, elapsed, delay)
}

func TestGetCompositeProductNotFoundFailsWhole(t *testing.T) {
	svc := newTestService(
		&stubProducts{err: app.ErrNotFound},
		&stubRecommendations{recs: []domain.Recommendation{{ProductID: 1, RecommendationID: 1}}},
		&stubReviews{revs: []domain.Review{{ProductID: 1, ReviewID: 1}}},
		&recordingPublisher{},
	)

	_, err := svc.GetComposite(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestGetCompositeSecondaryFailureDowngradedToEmpty(t *testing.T) {
	svc := newTestService(
		&stubProducts{product: domain.Product{ProductID: 1, Name: "name", Weight: 1, ServiceAddress: "p-host"}},
		&stubRecommendations{err: errors.New("connection refused")},
		&stubReviews{revs: []domain.Review{{ProductID: 1, ReviewID: 1, Author: "a", ServiceAddress: "rev-host"}}},
		&recordingPublisher{},
	)

	agg, err := svc.GetComposite(context.Background(), 1)
	require.NoError(t, err)

	assert.Empty(t, agg.Recommendations)
	assert.Len(t, agg.Reviews, 1)
	assert.Equal(t, "", agg.ServiceAddresses.Recommendation)
	assert.Equal(t, "rev-host", agg.ServiceAddresses.Review)
	assert.Equal(t, "p-host", agg.ServiceAddresses.Product)
	assert.Equal(t, "composite-host/1.2.3.4:8080", agg.ServiceAddresses.Composite)
}

func TestGetCompositeBothSecondariesFail(t *testing.T) {
	svc := newTestService(
		&stubProducts{product: domain.Product{ProductID: 1, Name: "name", Weight: 1}},
		&stubRecommendations{err: app.ErrTimeout},
		&stubReviews{err: errors.New("boom")},
		&recordingPublisher{},
	)

	agg, err := svc.GetComposite(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, agg.Recommendations)
	assert.Empty(t, agg.Reviews)
}

func TestGetCompositeInvalidID(t *testing.T) {
	svc := newTestService(&stubProducts{}, &stubRecommendations{}, &stubReviews{}, &recordingPublisher{})

	_, err := svc.GetComposite(context.Background(), -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrInvalidInput)
}

func TestCreateCompositeEmitsOneEventPerEntity(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(&stubProducts{}, &stubRecommendations{}, &stubReviews{}, pub)

	agg := domain.ProductAggregate{
		ProductID: 1,
		Name:      "name",
		Weight:    1,
		Recommendations: []domain.RecommendationSummary{
			{RecommendationID: 1, Author: "a", Rate: 1, Content: "c"},
		},
		Reviews: []domain.ReviewSummary{
			{ReviewID: 1, Author: "a", Subject: "s", Content: "c"},
		},
	}
	require.NoError(t, svc.CreateComposite(context.Background(), agg))

	events := pub.recorded()
	require.Len(t, events, 3)

	assert.Equal(t, "products", events[0].topic)
	assert.Equal(t, "recommendations", events[1].topic)
	assert.Equal(t, "reviews", events[2].topic)
	for _, ev := range events {
		assert.Equal(t, 1, ev.key)
		assert.Equal(t, kaf.EventCreate, ev.event.EventType)
		assert.Equal(t, 1, ev.event.Key)
	}

	var rec domain.Recommendation
	require.NotNil(t, events[1].event.Data)
	require.NoError(t, json.Unmarshal(*events[1].event.Data, &rec))
	assert.Equal(t, domain.Recommendation{ProductID: 1, RecommendationID: 1, Author: "a", Rate: 1, Content: "c"}, rec)
}

func TestCreateCompositeOrderAndCount(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(&stubProducts{}, &stubRecommendations{}, &stubReviews{}, pub)

	agg := domain.ProductAggregate{
		ProductID: 7,
		Name:      "many",
		Weight:    2,
		Recommendations: []domain.RecommendationSummary{
			{RecommendationID: 1}, {RecommendationID: 2}, {RecommendationID: 3},
		},
		Reviews: []domain.ReviewSummary{
			{ReviewID: 1}, {ReviewID: 2},
		},
	}
	require.NoError(t, svc.CreateComposite(context.Background(), agg))

	events := pub.recorded()
	require.Len(t, events, 6)
	assert.Equal(t, "products", events[0].topic)
	for _, ev := range events[1:4] {
		assert.Equal(t, "recommendations", ev.topic)
	}
	for _, ev := range events[4:] {
		assert.Equal(t, "reviews", ev.topic)
	}
}

func TestCreateCompositeInvalidProduct(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(&stubProducts{}, &stubRecommendations{}, &stubReviews{}, pub)

	err := svc.CreateComposite(context.Background(), domain.ProductAggregate{ProductID: 0, Name: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, app.ErrInvalidInput)
	assert.Empty(t, pub.recorded())
}

func TestDeleteCompositeIdempotent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(&stubProducts{err: app.ErrNotFound}, &stubRecommendations{}, &stubReviews{}, pub)

	require.NoError(t, svc.DeleteComposite(context.Background(), 42))
	require.NoError(t, svc.DeleteComposite(context.Background(), 42))

	events := pub.recorded()
	require.Len(t, events, 6)
	for _, ev := range events {
		assert.Equal(t, kaf.EventDelete, ev.event.EventType)
		assert.Equal(t, 42, ev.key)
	}
	assert.Equal(t, "products", events[0].topic)
	assert.Equal(t, "recommendations", events[1].topic)
	assert.Equal(t, "reviews", events[2].topic)
}

func TestHealthReportsEachDownstream(t *testing.T) {
	svc := newTestService(
		&stubProducts{},
		&stubRecommendations{err: errors.New("down")},
		&stubReviews{},
		&recordingPublisher{},
	)

	h := svc.Health(context.Background())
	assert.True(t, h.ProductUp)
	assert.False(t, h.RecommendationUp)
	assert.True(t, h.ReviewUp)
	assert.False(t, h.AllUp())
}
