package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/snooker-app/kds"
	"github.com/yeremiapane/snooker-app/router"
	"github.com/yeremiapane/snooker-app/services"
	"github.com/yeremiapane/snooker-app/store"
)

type testApp struct {
	router   *gin.Engine
	registry *services.SessionRegistry
	ledger   *services.LedgerStore
}

// setupTestApp wires the API over an in-memory SQLite ledger. The ticker
// interval is long enough that no tick fires during a test.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	kv, err := store.NewGormKV(db)
	require.NoError(t, err)

	registry := services.NewSessionRegistry(services.RegistryConfig{
		Tables:       4,
		TickInterval: time.Hour,
	}, services.NewNotifier())
	ledger := services.NewLedgerStore(kv)
	hub := kds.NewHub()
	registry.Subscribe(hub.SessionChanged)

	t.Cleanup(func() {
		registry.Close()
		kv.Close()
	})

	return &testApp{
		router: router.SetupRouter(router.Options{
			Registry:   registry,
			Ledger:     ledger,
			Billing:    services.NewBillingAssembler(registry, ledger),
			Hub:        hub,
			CORSOrigin: "*",
		}),
		registry: registry,
		ledger:   ledger,
	}
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do performs a request and decodes the JSON envelope into out when given.
func (a *testApp) do(t *testing.T, method, path string, body interface{}, out interface{}) (int, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if out != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return w.Code, resp
}
