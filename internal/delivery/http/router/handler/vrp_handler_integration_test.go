package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomnom-routing/vrpcore/config"
	deliverymw "github.com/nomnom-routing/vrpcore/internal/delivery/http/middleware"
	"github.com/nomnom-routing/vrpcore/internal/graph"
	corehandler "github.com/nomnom-routing/vrpcore/internal/handler"
	"github.com/nomnom-routing/vrpcore/internal/session"
)

// testServer wires the full middleware + handler stack against an
// in-memory store, skipping only the OSM upload (the graph is inserted
// directly so no PBF fixture is needed).
func testServer(t *testing.T) (*echo.Echo, *session.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}

	store := session.NewStore()
	core := corehandler.New(store, 15, logger)

	e := echo.New()
	e.Use(deliverymw.NewRequestIDMiddleware(logger).Process)
	e.Use(deliverymw.NewLoggerMiddleware(logger, cfg).Handle)
	e.Use(deliverymw.NewErrorMiddleware(logger).HandleErrors)

	health := NewHealthHandler(core)
	vrpHandler := &VRPHandler{core: core, logger: logger, solveTimeout: 10 * time.Second}

	e.GET("/health", health.Health)
	e.GET("/stats", health.Stats)
	e.POST("/vrp/map", vrpHandler.MapLocations)
	e.POST("/vrp/generate", vrpHandler.Generate)
	e.POST("/vrp/solve", vrpHandler.Solve)
	e.GET("/vrp/solution/:id", vrpHandler.GetSolution)
	e.GET("/vrp/solution/:id/export", vrpHandler.ExportSolution)

	return e, store
}

func insertTestGraph(t *testing.T, store *session.Store) string {
	t.Helper()

	nodes := map[uint64]graph.Node{
		1: {ID: 1, Lat: 17.735, Lon: 83.315},
		2: {ID: 2, Lat: 17.737, Lon: 83.320},
		3: {ID: 3, Lat: 17.740, Lon: 83.310},
		4: {ID: 4, Lat: 17.733, Lon: 83.318},
	}
	ways := []graph.Way{
		{ID: 10, NodeRefs: []uint64{1, 2, 3, 4}, Tags: map[string]string{"highway": "residential"}},
	}

	g, err := graph.New(nodes, ways, true)
	require.NoError(t, err)

	return store.Graphs.Insert(g).String()
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestHealthOnFreshProcess(t *testing.T) {
	e, _ := testServer(t)

	rec := doJSON(t, e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
		Stats  struct {
			Graphs int `json:"graphs"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 0, body.Stats.Graphs)
}

func TestMapUnknownGraphReturns404(t *testing.T) {
	e, _ := testServer(t)

	body := `{"graph_id":"00000000-0000-0000-0000-000000000000","depot":{"lat":17.735,"lon":83.315},"customers":[{"lat":17.737,"lon":83.320}]}`
	rec := doJSON(t, e, http.MethodPost, "/vrp/map", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NotFound")
}

func TestMapEmptyCustomersReturns400(t *testing.T) {
	e, store := testServer(t)
	graphID := insertTestGraph(t, store)

	body := fmt.Sprintf(`{"graph_id":%q,"depot":{"lat":17.735,"lon":83.315},"customers":[]}`, graphID)
	rec := doJSON(t, e, http.MethodPost, "/vrp/map", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFullFlowMapGenerateSolveExport(t *testing.T) {
	e, store := testServer(t)
	graphID := insertTestGraph(t, store)

	mapBody := fmt.Sprintf(`{
		"graph_id": %q,
		"depot": {"lat": 17.735, "lon": 83.315, "name": "depot"},
		"customers": [
			{"lat": 17.737, "lon": 83.320, "name": "c1"},
			{"lat": 17.740, "lon": 83.310, "name": "c2"},
			{"lat": 17.733, "lon": 83.318, "name": "c3"}
		]
	}`, graphID)
	rec := doJSON(t, e, http.MethodPost, "/vrp/map", mapBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var mapResp struct {
		MappedDepot struct {
			NodeID uint64 `json:"node_id"`
		} `json:"mapped_depot"`
		MappedCustomers []struct {
			NodeID             uint64  `json:"node_id"`
			DistanceToOriginal float64 `json:"distance_to_original"`
		} `json:"mapped_customers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mapResp))
	assert.Equal(t, uint64(1), mapResp.MappedDepot.NodeID)
	require.Len(t, mapResp.MappedCustomers, 3)

	genBody := fmt.Sprintf(`{"graph_id":%q,"vehicles":1,"capacity":100,"constraints":{"service_time":600}}`, graphID)
	rec = doJSON(t, e, http.MethodPost, "/vrp/generate", genBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var genResp struct {
		VrpID     string `json:"vrp_id"`
		Customers int    `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genResp))
	assert.Equal(t, 3, genResp.Customers)

	solveBody := fmt.Sprintf(`{"vrp_id":%q,"algorithm":"multi_start"}`, genResp.VrpID)
	rec = doJSON(t, e, http.MethodPost, "/vrp/solve", solveBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var solveResp struct {
		SolutionID    string  `json:"solution_id"`
		TotalDistance float64 `json:"total_distance"`
		VehiclesUsed  int     `json:"vehicles_used"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &solveResp))
	assert.Equal(t, 1, solveResp.VehiclesUsed)
	assert.InEpsilon(t, 2750, solveResp.TotalDistance, 0.25)

	rec = doJSON(t, e, http.MethodGet, "/vrp/solution/"+solveResp.SolutionID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "multi_start")

	rec = doJSON(t, e, http.MethodGet, "/vrp/solution/"+solveResp.SolutionID+"/export?format=geojson", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FeatureCollection")
	assert.Contains(t, rec.Body.String(), "LineString")

	rec = doJSON(t, e, http.MethodGet, "/vrp/solution/"+solveResp.SolutionID+"/export?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMapReturnsSnappedNodePosition(t *testing.T) {
	e, store := testServer(t)
	graphID := insertTestGraph(t, store)

	// Depot deliberately off every node; the response must carry node 1's
	// own position, not echo the request's coordinates back.
	body := fmt.Sprintf(`{"graph_id":%q,"depot":{"lat":17.7352,"lon":83.3154},"customers":[{"lat":17.737,"lon":83.320}]}`, graphID)
	rec := doJSON(t, e, http.MethodPost, "/vrp/map", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		MappedDepot struct {
			NodeID             uint64  `json:"node_id"`
			Lat                float64 `json:"lat"`
			Lon                float64 `json:"lon"`
			DistanceToOriginal float64 `json:"distance_to_original"`
		} `json:"mapped_depot"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.MappedDepot.NodeID)
	assert.Equal(t, 17.735, resp.MappedDepot.Lat)
	assert.Equal(t, 83.315, resp.MappedDepot.Lon)
	assert.Greater(t, resp.MappedDepot.DistanceToOriginal, 0.0)
}

func TestSolveInfeasibleReturns422(t *testing.T) {
	e, store := testServer(t)
	graphID := insertTestGraph(t, store)

	mapBody := fmt.Sprintf(`{"graph_id":%q,"depot":{"lat":17.735,"lon":83.315},"customers":[{"lat":17.737,"lon":83.320}]}`, graphID)
	rec := doJSON(t, e, http.MethodPost, "/vrp/map", mapBody)
	require.Equal(t, http.StatusOK, rec.Code)

	// Unit demand per generated customer; a fractional capacity fits none.
	genBody := fmt.Sprintf(`{"graph_id":%q,"vehicles":1,"capacity":0.5,"constraints":{}}`, graphID)
	rec = doJSON(t, e, http.MethodPost, "/vrp/generate", genBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var genResp struct {
		VrpID string `json:"vrp_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genResp))

	solveBody := fmt.Sprintf(`{"vrp_id":%q,"algorithm":"greedy"}`, genResp.VrpID)
	rec = doJSON(t, e, http.MethodPost, "/vrp/solve", solveBody)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Infeasible")
	assert.Contains(t, rec.Body.String(), "unassigned")
}

func TestGetSolutionUnknownIDReturns404(t *testing.T) {
	e, _ := testServer(t)

	rec := doJSON(t, e, http.MethodGet, "/vrp/solution/00000000-0000-0000-0000-000000000000", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
