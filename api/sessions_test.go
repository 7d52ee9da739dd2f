package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pos_sales/internal/catalog"
	"pos_sales/internal/jsonstore"
	"pos_sales/internal/notify"
	"pos_sales/internal/sales"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestSessionRegistry_EvictsIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	registry := newSessionRegistry(10 * time.Minute)
	registry.now = clock.Now

	idle := sales.NewBuilder(nil)
	idleID := registry.add(idle)
	active := sales.NewBuilder(nil)
	activeID := registry.add(active)

	clock.Advance(6 * time.Minute)
	_, err := registry.get(activeID)
	require.NoError(t, err, "a get refreshes the session")

	clock.Advance(6 * time.Minute)
	_, err = registry.get(idleID)
	assert.ErrorIs(t, err, errSessionNotFound)
	assert.Equal(t, sales.StateAbandoned, idle.State(), "evicted builders are abandoned")

	got, err := registry.get(activeID)
	require.NoError(t, err)
	assert.Same(t, active, got)
	assert.Equal(t, 1, registry.len())

	clock.Advance(11 * time.Minute)
	registry.add(sales.NewBuilder(nil))
	assert.Equal(t, 1, registry.len(), "add sweeps idle sessions too")
	assert.Equal(t, sales.StateAbandoned, active.State())
}

func TestSessionRegistry_DefaultTTL(t *testing.T) {
	registry := newSessionRegistry(0)
	assert.Equal(t, defaultSessionIdleTTL, registry.idleTTL)
}

func TestSessions_IdleSessionReturnsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	catalogService := catalog.NewService(jsonstore.NewMemory(catalog.Product{
		Name:  "Burger",
		Price: decimal.RequireFromString("5"),
	}), logger)
	salesService := sales.NewService(
		sales.NewLedger(jsonstore.NewMemory[sales.Sale]()),
		catalogService,
		notify.New(logger, time.Second),
		logger,
		time.Minute,
	)

	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	h := NewSalesHandler(salesService, logger, time.Minute)
	h.sessions.now = clock.Now

	router := gin.New()
	router.POST("/sessions", h.handleStartSession)
	router.GET("/sessions/:id", h.handleGetSession)

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sessions", nil))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		ids = append(ids, resp.ID)
	}
	assert.Equal(t, 3, h.sessions.len())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+ids[0], nil))
	require.Equal(t, http.StatusOK, w.Code)

	clock.Advance(2 * time.Minute)

	for _, id := range ids {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, id)
	}
	assert.Zero(t, h.sessions.len())
}
