package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pab0412/api-gamer-zeta/internal/apierror"
	"github.com/pab0412/api-gamer-zeta/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func bindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/ventas", func(c *gin.Context) {
		var req dto.CrearVentaRequest
		if !bindAndValidate(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.POST("/productos", func(c *gin.Context) {
		var req dto.CrearProductoRequest
		if !bindAndValidate(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBindAndValidate_JSONMalformado(t *testing.T) {
	w := post(bindRouter(), "/ventas", `{"metodoPago":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "JSON invalido")
}

func TestBindAndValidate_CamposConNombreJSON(t *testing.T) {
	w := post(bindRouter(), "/ventas", `{"metodoPago":"cheque","detalleProductos":[{"productoId":1,"cantidad":0}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body apierror.ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Error de validacion", body.Detail)
	assert.Equal(t, "oneof", body.Fields["metodoPago"])
	assert.Equal(t, "required", body.Fields["detalleProductos[0].cantidad"])
}

func TestBindAndValidate_ListaVacia(t *testing.T) {
	w := post(bindRouter(), "/ventas", `{"metodoPago":"efectivo","detalleProductos":[]}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "detalleProductos")
}

func TestBindAndValidate_DecimalNegativo(t *testing.T) {
	w := post(bindRouter(), "/productos", `{"nombre":"Mouse","precio":"-1","stock":1}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"precio":"min"`)

	w = post(bindRouter(), "/productos", `{"nombre":"Mouse","precio":1500.5,"stock":1}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestIDParam(t *testing.T) {
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		id, ok := idParam(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, fmt.Sprint(id))
	})

	for path, want := range map[string]int{"/x/12": 200, "/x/0": 400, "/x/-1": 400, "/x/abc": 400} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err  error
		want int
		body string
	}{
		{apierror.NoEncontrado("Producto con ID %d no encontrado", 3), 404, `{"detail":"Producto con ID 3 no encontrado"}`},
		{fmt.Errorf("wrap: %w", apierror.Conflicto("Stock insuficiente")), 409, `{"detail":"Stock insuficiente"}`},
		{apierror.NoAutorizado("Credenciales invalidas"), 401, `{"detail":"Credenciales invalidas"}`},
		{fmt.Errorf("pq: connection refused"), 500, `{"detail":"Error interno del servidor"}`},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { respondError(c, tc.err) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, tc.want, w.Code)
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}
