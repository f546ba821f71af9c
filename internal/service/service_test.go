package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"water-features-api/internal/models"
	"water-features-api/internal/sparql"
	"water-features-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func newTestService(transport Executor) *FeatureService {
	return NewFeatureService(transport, NewCaches(time.Minute), nil)
}

func lakeBinding(id, name string) sparql.Binding {
	return testutil.FeatureBinding(map[string]string{
		"item":      "http://www.wikidata.org/entity/" + id,
		"itemLabel": name,
		"type":      "lake",
	})
}

func TestQueryWithCache_ServesRepeatsFromCache(t *testing.T) {
	transport := &testutil.StubTransport{
		Default: testutil.Results(lakeBinding("Q1", "Lake One")),
	}
	svc := newTestService(transport)

	first, err := svc.QueryWithCache(context.Background(), "SELECT ?item WHERE {}")
	require.NoError(t, err)
	second, err := svc.QueryWithCache(context.Background(), "SELECT ?item WHERE {}")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, transport.CallCount())
}

func TestQueryWithCache_DistinctQueriesDistinctSlots(t *testing.T) {
	transport := &testutil.StubTransport{}
	svc := newTestService(transport)

	_, err := svc.QueryWithCache(context.Background(), "query one")
	require.NoError(t, err)
	_, err = svc.QueryWithCache(context.Background(), "query two")
	require.NoError(t, err)

	require.Equal(t, 2, transport.CallCount())
}

func TestQueryWithCache_TransportErrorPropagates(t *testing.T) {
	boom := errors.New("endpoint unavailable")
	transport := &testutil.StubTransport{
		Errors: map[string]error{"SELECT": boom},
	}
	svc := newTestService(transport)

	_, err := svc.QueryWithCache(context.Background(), "SELECT ?item WHERE {}")
	require.ErrorIs(t, err, boom)
	// a failed fetch must not populate the cache
	_, err = svc.QueryWithCache(context.Background(), "SELECT ?item WHERE {}")
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, transport.CallCount())
}

func TestPreloadAll_PopulatesEveryCategory(t *testing.T) {
	transport := &testutil.StubTransport{
		Default: testutil.Results(lakeBinding("Q10", "Some Feature")),
	}
	svc := newTestService(transport)

	svc.PreloadAll(context.Background())
	require.Equal(t, len(models.AllCategories), transport.CallCount())

	// Every category answer now comes from the warm collections.
	for _, cat := range models.AllCategories {
		features, err := svc.GetByCategory(context.Background(), cat)
		require.NoError(t, err)
		require.Len(t, features, 1)
	}
	require.Equal(t, len(models.AllCategories), transport.CallCount())
}

func TestPreloadAll_FailedCategoryIsIsolated(t *testing.T) {
	transport := &testutil.StubTransport{
		Default: testutil.Results(lakeBinding("Q10", "Some Feature")),
		// the DAM query carries its class id; fail just that one
		Errors: map[string]error{"wd:Q12323": errors.New("timeout")},
	}
	svc := newTestService(transport)

	svc.PreloadAll(context.Background())

	for _, cat := range []models.Category{models.CategoryLake, models.CategoryReservoir, models.CategoryRiver} {
		require.True(t, svc.caches.Collections.Has(categoryKey(cat)), "category %s", cat)
	}
	require.False(t, svc.caches.Collections.Has(categoryKey(models.CategoryDam)))
}

func TestGetByCategory_RejectsUnknownCategory(t *testing.T) {
	svc := newTestService(&testutil.StubTransport{})
	_, err := svc.GetByCategory(context.Background(), "SWAMP")
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestGetByCategory_PopulatesOnDemand(t *testing.T) {
	transport := &testutil.StubTransport{
		Default: testutil.Results(lakeBinding("Q20", "Lake Twenty")),
	}
	svc := newTestService(transport)

	features, err := svc.GetByCategory(context.Background(), models.CategoryLake)
	require.NoError(t, err)
	require.Len(t, features, 1)
	require.Equal(t, 1, transport.CallCount())

	// second call inside the TTL window stays off the transport
	_, err = svc.GetByCategory(context.Background(), models.CategoryLake)
	require.NoError(t, err)
	require.Equal(t, 1, transport.CallCount())
}

func TestGetByID_ServedFromWarmCollection(t *testing.T) {
	transport := &testutil.StubTransport{
		Default: testutil.Results(lakeBinding("Q30", "Lake Thirty")),
	}
	svc := newTestService(transport)

	svc.PreloadAll(context.Background())
	calls := transport.CallCount()

	feature, err := svc.GetByID(context.Background(), "Q30")
	require.NoError(t, err)
	require.NotNil(t, feature)
	require.Equal(t, "Lake Thirty", feature.Name)
	require.Equal(t, calls, transport.CallCount())
}

func TestGetByID_FallsThroughToTransportAndCaches(t *testing.T) {
	transport := &testutil.StubTransport{
		Responses: map[string]sparql.ResultSet{
			"wd:Q777": testutil.Results(testutil.FeatureBinding(map[string]string{
				"item":      "http://www.wikidata.org/entity/Q777",
				"itemLabel": "Kardzhali Dam",
				"type":      "dam",
			})),
		},
	}
	svc := newTestService(transport)

	feature, err := svc.GetByID(context.Background(), "Q777")
	require.NoError(t, err)
	require.NotNil(t, feature)
	require.Equal(t, models.CategoryDam, feature.Category)
	require.Equal(t, 1, transport.CallCount())

	// the id-scoped cache entry answers the repeat lookup
	feature, err = svc.GetByID(context.Background(), "Q777")
	require.NoError(t, err)
	require.NotNil(t, feature)
	require.Equal(t, 1, transport.CallCount())
}

func TestGetByID_AbsentEntity(t *testing.T) {
	transport := &testutil.StubTransport{} // empty result set for everything
	svc := newTestService(transport)

	feature, err := svc.GetByID(context.Background(), "Q999999")
	require.NoError(t, err)
	require.Nil(t, feature)

	// no id-scoped entry for a miss, but the raw query result is still
	// cached, so the repeat lookup stays off the transport
	_, err = svc.GetByID(context.Background(), "Q999999")
	require.NoError(t, err)
	require.Equal(t, 1, transport.CallCount())
}

func TestClearAll_DropsEverything(t *testing.T) {
	transport := &testutil.StubTransport{
		Default: testutil.Results(lakeBinding("Q40", "Lake Forty")),
	}
	svc := newTestService(transport)

	svc.PreloadAll(context.Background())
	svc.ClearAll()

	_, err := svc.GetByCategory(context.Background(), models.CategoryLake)
	require.NoError(t, err)
	require.Equal(t, len(models.AllCategories)+1, transport.CallCount())
}
