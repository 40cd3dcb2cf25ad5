package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pab0412/api-gamer-zeta/internal/config"
	"github.com/pab0412/api-gamer-zeta/internal/dto"
	"github.com/pab0412/api-gamer-zeta/internal/infra"
	"github.com/pab0412/api-gamer-zeta/internal/repository"
	"github.com/pab0412/api-gamer-zeta/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = body
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.Equal(t, want, resp.StatusCode, string(b))
	}
}

// ── Test Env Setup ───────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	admin  string // JWTs
	cajero string
}

var dbSeq atomic.Int64

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 1,
		BoletaPrefijo:      "BOL",
		DatabaseURL:        fmt.Sprintf("sqlite:file:router_%d?mode=memory&cache=shared", dbSeq.Add(1)),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	_, err = service.Bootstrap(context.Background(),
		repository.NewUsuarioRepository(db),
		repository.NewProductoRepository(db),
		service.BootstrapConfig{AdminPassword: "admin123", CajeroPassword: "cajero123"})
	require.NoError(t, err)

	srv := httptest.NewServer(New(cfg, Deps{DB: db}))
	t.Cleanup(srv.Close)

	return &testEnv{
		server: srv,
		admin:  login(t, srv, service.AdminEmail, "admin123"),
		cajero: login(t, srv, service.CajeroEmail, "cajero123"),
	}
}

func login(t *testing.T, srv *httptest.Server, email, password string) string {
	t.Helper()
	resp := do(t, srv, "POST", "/api/v1/auth/login",
		jsonBody(t, map[string]string{"email": email, "password": password}), "")
	expectStatus(t, resp, http.StatusOK)
	var body dto.LoginResponse
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/health", nil, "")
	expectStatus(t, resp, http.StatusOK)
	var body map[string]any
	decodeJSON(t, resp, &body)
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "disabled", body["redis"])
	assert.Equal(t, "closed", body["smtp"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	do(t, env.server, "GET", "/health", nil, "").Body.Close()

	resp := do(t, env.server, "GET", "/metrics", nil, "")
	expectStatus(t, resp, http.StatusOK)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(b), "zeta_http_requests_total")
}

func TestAuthFlow(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/api/v1/auth/register",
		jsonBody(t, map[string]string{"name": "Ana", "email": "ana@gamer.com", "password": "secreto1"}), "")
	expectStatus(t, resp, http.StatusCreated)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/api/v1/auth/register",
		jsonBody(t, map[string]string{"name": "Ana", "email": "ana@gamer.com", "password": "secreto1"}), "")
	expectStatus(t, resp, http.StatusConflict)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/api/v1/auth/login",
		jsonBody(t, map[string]string{"email": "ana@gamer.com", "password": "incorrecta"}), "")
	expectStatus(t, resp, http.StatusUnauthorized)
	var apiErr struct{ Detail string }
	decodeJSON(t, resp, &apiErr)
	assert.Equal(t, "Credenciales invalidas", apiErr.Detail)

	token := login(t, env.server, "ana@gamer.com", "secreto1")
	resp = do(t, env.server, "GET", "/api/v1/auth/profile", nil, token)
	expectStatus(t, resp, http.StatusOK)
	var profile dto.ProfileResponse
	decodeJSON(t, resp, &profile)
	assert.Equal(t, "ana@gamer.com", profile.Email)
	assert.Equal(t, "cashier", profile.Rol)
}

func TestAuthGuards(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/api/v1/productos", nil, "")
	expectStatus(t, resp, http.StatusUnauthorized)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/api/v1/productos", nil, env.cajero)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = do(t, env.server, "POST", "/api/v1/productos",
		jsonBody(t, map[string]any{"nombre": "Mouse", "precio": 1000, "stock": 1}), env.cajero)
	expectStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/api/v1/auth/users", nil, env.cajero)
	expectStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/api/v1/auth/users", nil, env.admin)
	expectStatus(t, resp, http.StatusOK)
	var users []dto.UsuarioResponse
	decodeJSON(t, resp, &users)
	assert.Len(t, users, 2)
}

func TestVentaFlow(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/api/v1/productos",
		jsonBody(t, map[string]any{"nombre": "Consola Test", "precio": "500000", "stock": 3, "categoria": "consolas"}),
		env.admin)
	expectStatus(t, resp, http.StatusCreated)
	var prod dto.ProductoResponse
	decodeJSON(t, resp, &prod)

	// cashier sells under their own id (usuarioId omitted)
	resp = do(t, env.server, "POST", "/api/v1/ventas",
		jsonBody(t, map[string]any{
			"metodoPago":       "efectivo",
			"detalleProductos": []map[string]any{{"productoId": prod.ID, "cantidad": 2}},
		}), env.cajero)
	expectStatus(t, resp, http.StatusCreated)
	var venta dto.VentaResponse
	decodeJSON(t, resp, &venta)
	assert.Equal(t, "1190000", venta.Total.String())
	require.NotNil(t, venta.Boleta)
	assert.Equal(t, "BOL-000001", venta.Boleta.Numero)

	// stock left: 1
	resp = do(t, env.server, "POST", "/api/v1/ventas",
		jsonBody(t, map[string]any{
			"metodoPago":       "efectivo",
			"detalleProductos": []map[string]any{{"productoId": prod.ID, "cantidad": 2}},
		}), env.cajero)
	expectStatus(t, resp, http.StatusConflict)
	var apiErr struct{ Detail string }
	decodeJSON(t, resp, &apiErr)
	assert.Equal(t, "Stock insuficiente para Consola Test. Disponible: 1", apiErr.Detail)

	// a cashier cannot sell in someone else's name
	resp = do(t, env.server, "POST", "/api/v1/ventas",
		jsonBody(t, map[string]any{
			"usuarioId":        venta.UsuarioID + 100,
			"metodoPago":       "efectivo",
			"detalleProductos": []map[string]any{{"productoId": prod.ID, "cantidad": 1}},
		}), env.cajero)
	expectStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()

	// receipt lookups
	resp = do(t, env.server, "GET", "/api/v1/boletas/numero/BOL-000001", nil, env.cajero)
	expectStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = do(t, env.server, "GET", fmt.Sprintf("/api/v1/boletas/%d/pdf", venta.Boleta.ID), nil, env.cajero)
	expectStatus(t, resp, http.StatusOK)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	// only admins void
	path := fmt.Sprintf("/api/v1/ventas/%d", venta.ID)
	resp = do(t, env.server, "DELETE", path, nil, env.cajero)
	expectStatus(t, resp, http.StatusForbidden)
	resp.Body.Close()

	resp = do(t, env.server, "DELETE", path, nil, env.admin)
	expectStatus(t, resp, http.StatusOK)
	var anulada dto.VentaResponse
	decodeJSON(t, resp, &anulada)
	assert.Equal(t, "anulada", anulada.Estado)

	resp = do(t, env.server, "PATCH", path, jsonBody(t, map[string]string{"estado": "completada"}), env.admin)
	expectStatus(t, resp, http.StatusConflict)
	resp.Body.Close()
}

func TestVentaValidation(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "POST", "/api/v1/ventas",
		jsonBody(t, map[string]any{"metodoPago": "efectivo", "detalleProductos": []any{}}), env.cajero)
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	var body struct {
		Detail string            `json:"detail"`
		Fields map[string]string `json:"fields"`
	}
	decodeJSON(t, resp, &body)
	assert.Contains(t, body.Fields, "detalleProductos")

	resp = do(t, env.server, "POST", "/api/v1/ventas",
		jsonBody(t, map[string]any{
			"metodoPago":       "efectivo",
			"detalleProductos": []map[string]any{{"productoId": 9999, "cantidad": 1}},
		}), env.cajero)
	expectStatus(t, resp, http.StatusNotFound)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/api/v1/ventas/abc", nil, env.cajero)
	expectStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestProductosCatalogo(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, "GET", "/api/v1/productos/categoria/consolas", nil, env.cajero)
	expectStatus(t, resp, http.StatusOK)
	var consolas []dto.ProductoResponse
	decodeJSON(t, resp, &consolas)
	require.NotEmpty(t, consolas)

	resp = do(t, env.server, "DELETE", fmt.Sprintf("/api/v1/productos/%d", consolas[0].ID), nil, env.admin)
	expectStatus(t, resp, http.StatusOK)
	var desactivado dto.ProductoResponse
	decodeJSON(t, resp, &desactivado)
	assert.Equal(t, "inactivo", desactivado.Estado)

	resp = do(t, env.server, "GET", "/api/v1/productos/categoria/consolas", nil, env.cajero)
	expectStatus(t, resp, http.StatusOK)
	var despues []dto.ProductoResponse
	decodeJSON(t, resp, &despues)
	assert.Len(t, despues, len(consolas)-1)
}
