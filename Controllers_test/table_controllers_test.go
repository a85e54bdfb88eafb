package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/services"
)

func TestGetAllTables(t *testing.T) {
	app := setupTestApp(t)

	var tables []models.TableSession
	code, resp := app.do(t, http.MethodGet, "/tables", nil, &tables)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Status)
	require.Len(t, tables, 4)
	for i, table := range tables {
		assert.Equal(t, i+1, table.TableNumber)
		assert.Equal(t, models.SessionIdle, table.Status)
	}
}

func TestGetTable_InvalidNumber(t *testing.T) {
	app := setupTestApp(t)

	code, resp := app.do(t, http.MethodGet, "/tables/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Status)

	code, _ = app.do(t, http.MethodGet, "/tables/9", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestTableLifecycle(t *testing.T) {
	app := setupTestApp(t)

	var session models.TableSession
	code, _ := app.do(t, http.MethodPost, "/tables/1/start", nil, &session)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.SessionActive, session.Status)
	assert.Equal(t, int64(70), session.TableCharge)

	code, _ = app.do(t, http.MethodPost, "/tables/1/items", map[string]string{"item_id": "snacks"}, &session)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, session.Items, 1)
	assert.Equal(t, int64(30), session.Items[0].UnitPrice)

	code, _ = app.do(t, http.MethodPost, "/tables/1/stop", nil, &session)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.SessionEnded, session.Status)

	code, _ = app.do(t, http.MethodPost, "/tables/1/stop", nil, nil)
	assert.Equal(t, http.StatusConflict, code)

	previous := session.SessionID
	code, _ = app.do(t, http.MethodPost, "/tables/1/reset", nil, &session)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.SessionIdle, session.Status)
	assert.NotEqual(t, previous, session.SessionID)
}

func TestAddItem(t *testing.T) {
	app := setupTestApp(t)

	code, _ := app.do(t, http.MethodPost, "/tables/2/items", map[string]string{"item_id": "cold-drink"}, nil)
	assert.Equal(t, http.StatusConflict, code, "idle table")

	_, err := app.registry.Start(2)
	require.NoError(t, err)

	code, _ = app.do(t, http.MethodPost, "/tables/2/items", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, code, "missing item_id")

	code, _ = app.do(t, http.MethodPost, "/tables/2/items", map[string]string{"item_id": "pizza"}, nil)
	assert.Equal(t, http.StatusBadRequest, code, "unknown item")

	var session models.TableSession
	code, _ = app.do(t, http.MethodPost, "/tables/2/items", map[string]interface{}{
		"item_id": "tea", "name": "Tea", "price": 10,
	}, &session)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, http.MethodPost, "/tables/2/items", map[string]string{"item_id": "cold-drink"}, &session)
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, http.MethodPost, "/tables/2/items", map[string]string{"item_id": "cold-drink"}, &session)
	require.Equal(t, http.StatusOK, code)

	require.Len(t, session.Items, 2)
	assert.Equal(t, "Tea", session.Items[0].Name)
	assert.Equal(t, 2, session.Items[1].Quantity)
	assert.Equal(t, int64(60), session.ItemsTotal())
}

func TestPreviewBill(t *testing.T) {
	app := setupTestApp(t)
	_, err := app.registry.Start(3)
	require.NoError(t, err)
	_, err = app.registry.AddItem(3, models.LineItem{ID: "cigarette", Name: "Cigarette", UnitPrice: 15})
	require.NoError(t, err)

	var preview services.BillPreview
	code, _ := app.do(t, http.MethodGet, "/tables/3/bill", nil, &preview)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(70), preview.TableCharge)
	assert.Equal(t, int64(1), preview.Blocks)
	assert.Equal(t, int64(85), preview.Total)

	bills, err := app.ledger.ListAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, bills)
}

func TestGetAllItems(t *testing.T) {
	app := setupTestApp(t)

	var items []models.CatalogItem
	code, _ := app.do(t, http.MethodGet, "/items", nil, &items)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.DefaultCatalog, items)
}
