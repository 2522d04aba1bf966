package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/invoicify/invoicify/internal/clock"
	"github.com/invoicify/invoicify/internal/config"
	invoicedomain "github.com/invoicify/invoicify/internal/invoice/domain"
	"github.com/invoicify/invoicify/internal/invoice/repository"
	"github.com/invoicify/invoicify/internal/invoice/service"
	"github.com/invoicify/invoicify/internal/providers/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	repo, err := repository.NewCollectionStore(dbConn, zap.NewNop())
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc, err := service.NewService(service.ServiceParam{
		Repo:      repo,
		Log:       zap.NewNop(),
		Clock:     clock.NewFakeClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)),
		GenID:     node,
		Invoicing: config.NewStaticInvoicingConfigHolder(config.DefaultInvoicingConfig()),
	})
	require.NoError(t, err)

	return NewServer(ServerParams{
		Gin:        NewEngine(),
		Cfg:        config.Config{AppName: "invoicify-test"},
		InvoiceSvc: svc,
		Renderer:   pdf.NewRenderer(zap.NewNop()),
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok, "response carries a data object: %s", w.Body.String())
	return data
}

func createInvoice(t *testing.T, s *Server, body any) map[string]any {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeData(t, w)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateAndGetInvoice(t *testing.T) {
	s := newTestServer(t)

	created := createInvoice(t, s, nil)
	assert.Equal(t, "INV-001", created["number"])
	assert.Equal(t, "Unpaid", created["status"])
	items, ok := created["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)

	w := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/invoices/%s", created["id"]), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created["id"], decodeData(t, w)["id"])

	t.Run("unknown id maps to 404", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/invoices/nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad status in draft maps to 400", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/invoices", map[string]any{"status": "Overdue"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListInvoices(t *testing.T) {
	s := newTestServer(t)

	createInvoice(t, s, map[string]any{
		"clientName": "Acme Corp",
		"items":      []map[string]any{{"description": "Design", "quantity": 2, "rate": 50}},
	})
	createInvoice(t, s, map[string]any{
		"clientName": "Bravo Ltd",
		"status":     "Paid",
		"items":      []map[string]any{{"description": "Audit", "quantity": 1, "rate": 10}},
	})

	w := doJSON(t, s, http.MethodGet, "/api/invoices?status=Paid", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data      []map[string]any            `json:"data"`
		Selection invoicedomain.SelectionInfo `json:"selection"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Bravo Ltd", resp.Data[0]["clientName"])
	assert.Equal(t, float64(10), resp.Data[0]["total"], "responses carry the derived total")
	assert.Equal(t, invoicedomain.SelectionNone, resp.Selection.State)

	t.Run("unknown sort field maps to 400", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/invoices?sort=color", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBinFlow(t *testing.T) {
	s := newTestServer(t)

	created := createInvoice(t, s, nil)
	id := created["id"].(string)

	w := doJSON(t, s, http.MethodDelete, "/api/invoices/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/bin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), id))

	w = doJSON(t, s, http.MethodPost, "/api/bin/"+id+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/invoices/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("bulk move and purge", func(t *testing.T) {
		other := createInvoice(t, s, nil)

		w := doJSON(t, s, http.MethodPost, "/api/invoices/bin", map[string]any{
			"ids": []string{id, other["id"].(string), "unmatched"},
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), `"count":2`))

		w = doJSON(t, s, http.MethodPost, "/api/bin/purge", map[string]any{"all": true})
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, s, http.MethodGet, "/api/bin", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Data)
	})

	t.Run("purge without ids or all maps to 400", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/bin/purge", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSelectionEndpoints(t *testing.T) {
	s := newTestServer(t)

	a := createInvoice(t, s, nil)
	b := createInvoice(t, s, nil)

	w := doJSON(t, s, http.MethodPost, "/api/selection/toggle", map[string]any{
		"view": "active", "id": a["id"],
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/selection/all", map[string]any{
		"view": "active", "ids": []string{a["id"].(string), b["id"].(string)},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Selection invoicedomain.SelectionInfo `json:"selection"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Selection.IDs, 2)

	w = doJSON(t, s, http.MethodDelete, "/api/selection", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/selection?view=active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Selection.IDs)

	t.Run("unknown view maps to 400", func(t *testing.T) {
		w := doJSON(t, s, http.MethodPost, "/api/selection/toggle", map[string]any{
			"view": "archive", "id": a["id"],
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExportEndpoints(t *testing.T) {
	s := newTestServer(t)

	created := createInvoice(t, s, map[string]any{
		"clientName": "Acme Corp",
		"items":      []map[string]any{{"description": "Design", "quantity": 2, "rate": 50}},
	})
	id := created["id"].(string)

	w := doJSON(t, s, http.MethodGet, "/api/invoices/"+id+"/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	other := createInvoice(t, s, nil)
	w = doJSON(t, s, http.MethodPost, "/api/invoices/export", map[string]any{
		"ids": []string{id, other["id"].(string)},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.True(t, strings.Contains(w.Header().Get("Content-Disposition"), "Invoices_Batch.zip"))

	t.Run("export of a missing invoice maps to 404", func(t *testing.T) {
		w := doJSON(t, s, http.MethodGet, "/api/invoices/nope/pdf", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
