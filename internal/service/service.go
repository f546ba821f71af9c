package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"water-features-api/internal/cache"
	"water-features-api/internal/models"
	"water-features-api/internal/realtime"
	"water-features-api/internal/sparql"

	"golang.org/x/sync/singleflight"
)

const (
	// collectionTTL keeps preloaded per-category collections warm for half a day.
	collectionTTL = 12 * time.Hour

	// preloadPageSize is the page window fetched for each category during preload.
	preloadPageSize = 100

	categoryKeyPrefix = "category:"
	featureKeyPrefix  = "feature:"
)

// ErrInvalidCategory is returned for direct lookups of a category outside the fixed set.
var ErrInvalidCategory = errors.New("invalid water feature category")

// Executor is the transport boundary; *sparql.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, query string) (sparql.ResultSet, error)
}

// Caches groups the three stores the service keeps warm. They are constructed
// once in main and shared with the janitor.
type Caches struct {
	// Queries holds raw result sets keyed by query fingerprint.
	Queries cache.Cache[string, sparql.ResultSet]
	// Collections holds normalized per-category lists.
	Collections cache.Cache[string, []models.WaterFeature]
	// Features holds individually fetched records keyed by entity id.
	Features cache.Cache[string, models.WaterFeature]
}

// NewCaches builds concurrency-safe stores sharing one default TTL.
func NewCaches(defaultTTL time.Duration) Caches {
	opts := cache.Options{ConcurrencySafe: true, DefaultTTL: defaultTTL}
	return Caches{
		Queries:     cache.NewSimpleCache[string, sparql.ResultSet](opts),
		Collections: cache.NewSimpleCache[string, []models.WaterFeature](opts),
		Features:    cache.NewSimpleCache[string, models.WaterFeature](opts),
	}
}

// Purgers exposes the stores to a cache.Janitor.
func (c Caches) Purgers() []cache.Purger {
	return []cache.Purger{c.Queries, c.Collections, c.Features}
}

// FeatureService decides, per request, whether to serve from cache, from a
// preloaded per-category collection, or fall through to the remote endpoint.
type FeatureService struct {
	transport Executor
	caches    Caches
	hub       *realtime.Hub // optional; nil disables event broadcasting
	group     singleflight.Group
}

// NewFeatureService wires the orchestrator. hub may be nil.
func NewFeatureService(transport Executor, caches Caches, hub *realtime.Hub) *FeatureService {
	return &FeatureService{
		transport: transport,
		caches:    caches,
		hub:       hub,
	}
}

// QueryWithCache returns the raw result set for query text, serving repeats
// from the fingerprint-keyed cache. Concurrent misses for the same key share
// a single remote call.
func (s *FeatureService) QueryWithCache(ctx context.Context, query string) (sparql.ResultSet, error) {
	key := cache.Fingerprint(query)
	if rs, ok := s.caches.Queries.Get(key); ok {
		return rs, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A waiter that lost the race may find the cache already populated.
		if rs, ok := s.caches.Queries.Get(key); ok {
			return rs, nil
		}
		rs, err := s.transport.Execute(ctx, query)
		if err != nil {
			return nil, err
		}
		s.caches.Queries.Set(key, rs, 0)
		return rs, nil
	})
	if err != nil {
		return sparql.ResultSet{}, err
	}
	return v.(sparql.ResultSet), nil
}

// List executes one filtered listing: build, fetch (cached), normalize.
func (s *FeatureService) List(ctx context.Context, filter models.FeatureFilter) ([]models.WaterFeature, error) {
	rs, err := s.QueryWithCache(ctx, sparql.BuildFeatureQuery(filter))
	if err != nil {
		return nil, err
	}
	return sparql.Normalize(rs), nil
}

// PreloadAll warms the per-category collections. A failing category is logged
// and skipped; it never aborts the remaining ones.
func (s *FeatureService) PreloadAll(ctx context.Context) {
	for _, cat := range models.AllCategories {
		if _, err := s.refreshCategory(ctx, cat); err != nil {
			log.Printf("preload: skipping category %s: %v", cat, err)
		}
	}
}

// GetByCategory serves the preloaded collection when warm, otherwise fetches
// and populates it on demand with the same TTL policy as preload.
func (s *FeatureService) GetByCategory(ctx context.Context, cat models.Category) ([]models.WaterFeature, error) {
	if !cat.IsValid() {
		return nil, ErrInvalidCategory
	}
	if features, ok := s.caches.Collections.Get(categoryKey(cat)); ok {
		return features, nil
	}
	return s.refreshCategory(ctx, cat)
}

// GetByID returns one record or nil when the entity is unknown. Warm caches
// are scanned before the transport is touched; a remote hit is cached under
// an id-scoped key with the default TTL.
func (s *FeatureService) GetByID(ctx context.Context, id string) (*models.WaterFeature, error) {
	if f, ok := s.caches.Features.Get(featureKey(id)); ok {
		return &f, nil
	}
	for _, cat := range models.AllCategories {
		features, ok := s.caches.Collections.Get(categoryKey(cat))
		if !ok {
			continue
		}
		for i := range features {
			if features[i].ID == id {
				f := features[i]
				return &f, nil
			}
		}
	}

	rs, err := s.QueryWithCache(ctx, sparql.BuildFeatureByIDQuery(id))
	if err != nil {
		return nil, err
	}
	features := sparql.Normalize(rs)
	if len(features) == 0 {
		return nil, nil
	}
	f := features[0]
	s.caches.Features.Set(featureKey(id), f, 0)
	return &f, nil
}

// NotifyCleanup publishes a sweep event carrying the surviving entry counts.
// The janitor calls this after every completed sweep.
func (s *FeatureService) NotifyCleanup() {
	if s.hub == nil {
		return
	}
	evt := map[string]any{
		"type": "cleanup_completed",
		"entries": map[string]int{
			"queries":     s.caches.Queries.Len(),
			"collections": s.caches.Collections.Len(),
			"features":    s.caches.Features.Len(),
		},
	}
	if bytes, err := json.Marshal(evt); err == nil {
		s.hub.Broadcast(realtime.TopicCache, bytes)
	}
}

// ClearAll drops every store unconditionally.
func (s *FeatureService) ClearAll() {
	s.caches.Queries.Clear()
	s.caches.Collections.Clear()
	s.caches.Features.Clear()
}

func (s *FeatureService) refreshCategory(ctx context.Context, cat models.Category) ([]models.WaterFeature, error) {
	query := sparql.BuildFeatureQuery(models.FeatureFilter{Category: cat, Limit: preloadPageSize})
	rs, err := s.QueryWithCache(ctx, query)
	if err != nil {
		return nil, err
	}
	features := sparql.Normalize(rs)
	s.caches.Collections.Set(categoryKey(cat), features, collectionTTL)
	s.broadcastRefresh(cat, len(features))
	return features, nil
}

func (s *FeatureService) broadcastRefresh(cat models.Category, count int) {
	if s.hub == nil {
		return
	}
	evt := map[string]any{
		"type":     "category_refreshed",
		"category": cat,
		"count":    count,
	}
	if bytes, err := json.Marshal(evt); err == nil {
		s.hub.Broadcast(realtime.TopicCache, bytes)
		s.hub.Broadcast(strings.ToLower(string(cat)), bytes)
	}
}

func categoryKey(cat models.Category) string {
	return categoryKeyPrefix + string(cat)
}

func featureKey(id string) string {
	return featureKeyPrefix + id
}
