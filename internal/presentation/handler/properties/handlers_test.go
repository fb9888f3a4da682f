package properties

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turndownhq/turndown/internal/domain"
	"github.com/turndownhq/turndown/internal/infrastructure/repository"
	"github.com/turndownhq/turndown/internal/infrastructure/ws"
)

func testRouter(t *testing.T) (*chi.Mux, domain.PropertyRepository) {
	t.Helper()

	propertyRepository := repository.NewPropertyRepository()
	roomRepository := repository.NewRoomRepository()
	core := ws.NewCore(propertyRepository, roomRepository)
	go core.Run()

	handler := NewHandler(propertyRepository, core.Manager(), core, nil)

	r := chi.NewRouter()
	r.Post("/api/properties", handler.CreatePropertyHandler)
	r.Get("/api/properties/{code}", handler.GetPropertyHandler)
	r.Post("/api/properties/{code}/employees", handler.AddEmployeeHandler)

	return r, propertyRepository
}

func doJSON(t *testing.T, router *chi.Mux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateProperty(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/properties", `{"name":"Seaside Inn"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res propertyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Seaside Inn", res.Name)
	assert.True(t, domain.ValidCode(res.Code))
	assert.NotNil(t, res.Employees)
	assert.Empty(t, res.Employees)
}

func TestCreatePropertyValidation(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/properties", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/properties", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProperty(t *testing.T) {
	router, repo := testRouter(t)

	property, err := domain.NewProperty("Seaside Inn")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), property))

	rec := doJSON(t, router, http.MethodGet, "/api/properties/"+property.Code, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res propertyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, property.Code, res.Code)
}

func TestGetPropertyNotFound(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/properties/ZZZZZZ", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPropertyMalformedCode(t *testing.T) {
	router, _ := testRouter(t)

	// Contains characters outside the code alphabet
	rec := doJSON(t, router, http.MethodGet, "/api/properties/ABC10O", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddEmployee(t *testing.T) {
	router, repo := testRouter(t)

	property, err := domain.NewProperty("Seaside Inn")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), property))

	rec := doJSON(t, router, http.MethodPost, "/api/properties/"+property.Code+"/employees", `{"name":"Maria"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res propertyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"Maria"}, res.Employees)

	// Adding the same name again leaves the roster unchanged
	rec = doJSON(t, router, http.MethodPost, "/api/properties/"+property.Code+"/employees", `{"name":"Maria"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, []string{"Maria"}, res.Employees)
}

func TestAddEmployeeNotFound(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/properties/ZZZZZZ/employees", `{"name":"Maria"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
