package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"water-features-api/internal/models"
	"water-features-api/internal/service"
	"water-features-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(transport *testutil.StubTransport) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewFeatureService(transport, service.NewCaches(time.Minute), nil)
	h := NewFeatureHandler(svc)

	r := gin.New()
	r.GET("/api/features", h.ListFeatures)
	r.GET("/api/features/:id", h.GetFeatureByID)
	r.GET("/api/categories", h.GetCategories)
	return r
}

func TestListFeatures_Success(t *testing.T) {
	transport := &testutil.StubTransport{
		Default: testutil.Results(testutil.FeatureBinding(map[string]string{
			"item":      "http://www.wikidata.org/entity/Q1255358",
			"itemLabel": "Iskar Reservoir",
			"type":      "reservoir",
			"coords":    "Point(23.5 42.1)",
		})),
	}
	r := newTestRouter(transport)

	req := httptest.NewRequest(http.MethodGet, "/api/features?category=reservoir&limit=5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Features []models.WaterFeature `json:"features"`
		Count    int                   `json:"count"`
		Limit    int                   `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, 5, resp.Limit)
	require.Len(t, resp.Features, 1)
	require.Equal(t, models.CategoryReservoir, resp.Features[0].Category)
	require.NotNil(t, resp.Features[0].Coordinates)

	// the built query carried the reservoir class and the page size
	require.Contains(t, transport.Calls()[0], "wd:Q131681")
	require.Contains(t, transport.Calls()[0], "LIMIT 5")
}

func TestListFeatures_TransportFailureIsGeneric(t *testing.T) {
	transport := &testutil.StubTransport{
		Errors: map[string]error{"SELECT": errors.New("remote said: quota exceeded")},
	}
	r := newTestRouter(transport)

	req := httptest.NewRequest(http.MethodGet, "/api/features", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// remote detail must not leak to the caller
	require.JSONEq(t, `{"error": "Failed to fetch water features"}`, w.Body.String())
}

func TestListFeatures_RepeatRequestHitsCache(t *testing.T) {
	transport := &testutil.StubTransport{}
	r := newTestRouter(transport)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/features?region=rila", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
	require.Equal(t, 1, transport.CallCount())
}

func TestGetFeatureByID_NotFound(t *testing.T) {
	transport := &testutil.StubTransport{} // empty result set
	r := newTestRouter(transport)

	req := httptest.NewRequest(http.MethodGet, "/api/features/Q404404", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error": "Water feature not found"}`, w.Body.String())
}

func TestGetFeatureByID_Success(t *testing.T) {
	transport := &testutil.StubTransport{
		Default: testutil.Results(testutil.FeatureBinding(map[string]string{
			"item":      "http://www.wikidata.org/entity/Q777",
			"itemLabel": "Kardzhali Dam",
			"type":      "dam",
		})),
	}
	r := newTestRouter(transport)

	req := httptest.NewRequest(http.MethodGet, "/api/features/Q777", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var feature models.WaterFeature
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feature))
	require.Equal(t, "Q777", feature.ID)
	require.Equal(t, models.CategoryDam, feature.Category)
	require.Equal(t, "https://www.wikidata.org/wiki/Q777", feature.SourceURL)
}

func TestGetCategories(t *testing.T) {
	r := newTestRouter(&testutil.StubTransport{})

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []models.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.ElementsMatch(t, models.AllCategories, resp.Categories)
}
