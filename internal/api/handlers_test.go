package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stonebridge-motors/towguide/internal/cache"
	"github.com/stonebridge-motors/towguide/internal/guide"
	"github.com/stonebridge-motors/towguide/internal/resolve"
	"github.com/stonebridge-motors/towguide/internal/storage"
)

type fakeVehicleSource struct {
	vehicles map[string]*storage.VehicleRecord
	calls    int
}

func (f *fakeVehicleSource) GetByVINOrStock(ctx context.Context, key string) (*storage.VehicleRecord, error) {
	f.calls++
	if v, ok := f.vehicles[key]; ok {
		return v, nil
	}
	return nil, storage.ErrNotFound
}

func testService(src *fakeVehicleSource) *LookupService {
	doc := &guide.GuideDocument{
		Year: 2025,
		Models: map[string]*guide.ModelCapacity{
			"Maverick": {
				TrailerRows: []guide.EngineTrailerRow{
					{Engine: "2.5L I4 Hybrid", AxleRatio: 3.80, Variants: []guide.TrailerVariant{
						{Drivetrain: "FWD", GCWRLbs: intPtr(6000), MaxTrailerLbs: intPtr(2000)},
					}},
				},
			},
		},
	}
	resolver := resolve.NewResolver(doc, guide.Edition2025(), nil)
	return NewLookupService(src, resolver, cache.NewMemoryClient(10), time.Minute, nil)
}

func intPtr(n int) *int { return &n }

func testRouter(service *LookupService) http.Handler {
	r := chi.NewRouter()
	handler := NewTowHandler(nil, service)
	r.Get("/api/v1/tow/{key}", handler.Get)
	return r
}

func maverickRecord() *storage.VehicleRecord {
	return &storage.VehicleRecord{
		VIN:        "3FTTW8E31PRA00001",
		Model:      "Maverick",
		Drivetrain: "FWD",
		Engine:     "2.5L I4 Hybrid",
	}
}

func TestTowHandler_Get_Found(t *testing.T) {
	src := &fakeVehicleSource{vehicles: map[string]*storage.VehicleRecord{
		"3FTTW8E31PRA00001": maverickRecord(),
	}}
	router := testRouter(testService(src))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tow/3FTTW8E31PRA00001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result resolve.TowResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "Maverick", result.Model)
	assert.Equal(t, float64(2000), result.Results[resolve.KeyConventionalTow])
}

func TestTowHandler_Get_NotFound(t *testing.T) {
	src := &fakeVehicleSource{}
	router := testRouter(testService(src))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tow/UNKNOWN", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "vehicle not found", body["error"])
}

func TestLookupService_CachesResults(t *testing.T) {
	src := &fakeVehicleSource{vehicles: map[string]*storage.VehicleRecord{
		"3FTTW8E31PRA00001": maverickRecord(),
	}}
	service := testService(src)
	ctx := context.Background()

	first, err := service.Lookup(ctx, "3FTTW8E31PRA00001")
	require.NoError(t, err)
	second, err := service.Lookup(ctx, "3FTTW8E31PRA00001")
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, first.Model, second.Model)
}

func TestLookupService_NotFoundPassesThrough(t *testing.T) {
	service := testService(&fakeVehicleSource{})

	_, err := service.Lookup(context.Background(), "MISSING")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
