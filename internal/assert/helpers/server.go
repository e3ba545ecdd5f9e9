package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/LawrenceCirillo/Alan/internal/chat"
	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/internal/genai"
	"github.com/LawrenceCirillo/Alan/internal/planner"
	"github.com/LawrenceCirillo/Alan/internal/server"
	"github.com/LawrenceCirillo/Alan/internal/store"
)

// TestServerEnv holds a running API server and its components
type TestServerEnv struct {
	Server  *server.Server
	HTTP    *httptest.Server
	Planner *planner.Planner
	Store   *store.MemoryStore
	Config  *config.Config
}

// NewTestServer starts an API server over cfg. A nil model runs both the
// chat handler and the planner offline
func NewTestServer(
	t *testing.T, cfg *config.Config, model genai.Model,
) *TestServerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore(cfg.Store.CacheSize)
	p := planner.New(model, st)
	srv := server.NewServer(chat.NewHandler(cfg, model), p)
	ts := httptest.NewServer(srv.SetupRoutes())

	t.Cleanup(func() {
		srv.CloseWebSockets()
		ts.Close()
	})

	return &TestServerEnv{
		Server:  srv,
		HTTP:    ts,
		Planner: p,
		Store:   st,
		Config:  cfg,
	}
}
