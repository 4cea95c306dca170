package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(c Catalog) http.Handler {
	r := chi.NewRouter()
	r.Mount("/admin/stores/{storeID}/services", NewHandler(c, nil).Routes())
	return r
}

func TestHandlerCreateAndList(t *testing.T) {
	c := NewInMemoryCatalog()
	router := newTestRouter(c)

	body := bytes.NewBufferString(`{"name":"Haircut","duration":30,"price_cents":3500}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/stores/store-1/services", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created Service
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "store-1", created.StoreID)

	req = httptest.NewRequest(http.MethodGet, "/admin/stores/store-1/services", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Services []Service `json:"services"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Services, 1)
	assert.Equal(t, "Haircut", resp.Services[0].Name)
}

func TestHandlerCreateRejectsInvalid(t *testing.T) {
	router := newTestRouter(NewInMemoryCatalog())

	req := httptest.NewRequest(http.MethodPost, "/admin/stores/store-1/services", bytes.NewBufferString(`{"name":"Cut"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "duration")

	req = httptest.NewRequest(http.MethodPost, "/admin/stores/store-1/services", bytes.NewBufferString(`{`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerGetMissing(t *testing.T) {
	router := newTestRouter(NewInMemoryCatalog())
	req := httptest.NewRequest(http.MethodGet, "/admin/stores/store-1/services/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
