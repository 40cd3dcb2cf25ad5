package handler

import (
	"net/http"

	"github.com/pab0412/api-gamer-zeta/internal/apierror"
	"github.com/pab0412/api-gamer-zeta/internal/dto"
	"github.com/pab0412/api-gamer-zeta/internal/middleware"
	"github.com/pab0412/api-gamer-zeta/internal/model"
	"github.com/pab0412/api-gamer-zeta/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// Crear godoc
// @Summary      Registrar una nueva venta
// @Description  En una sola transacción descuenta stock, calcula IVA (19%), guarda la venta y emite su boleta.
// @Description  Si se indica email, la boleta en PDF se envía de forma asíncrona.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError "Stock insuficiente"
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/ventas [post]
func (h *VentasHandler) Crear(c *gin.Context) {
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	self, _ := claims.UsuarioID()
	if req.UsuarioID == 0 {
		req.UsuarioID = self
	}
	if req.UsuarioID != self && !claims.Puede(model.PermisoVenderPorOtros) {
		c.JSON(http.StatusForbidden, apierror.New("No puede registrar ventas a nombre de otro usuario"))
		return
	}

	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.VentaResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Diarias godoc
// @Summary      Ventas completadas de hoy
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.VentaResponse
// @Router       /v1/ventas/diarias [get]
func (h *VentasHandler) Diarias(c *gin.Context) {
	resp, err := h.svc.Diarias(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary      Obtener venta
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     int true "ID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorUsuario godoc
// @Summary      Ventas de un usuario
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        usuarioId path int true "ID del usuario"
// @Success      200 {array} dto.VentaResponse
// @Router       /v1/ventas/usuario/{usuarioId} [get]
func (h *VentasHandler) ListarPorUsuario(c *gin.Context) {
	id, ok := idParam(c, "usuarioId")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorUsuario(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarEstado godoc
// @Summary      Cambiar estado de una venta
// @Description  completada → anulada. Repetir el estado actual no tiene efecto; una venta anulada no vuelve a completada.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int                        true "ID de la venta"
// @Param        body body     dto.ActualizarVentaRequest true "Nuevo estado"
// @Success      200  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id} [patch]
func (h *VentasHandler) ActualizarEstado(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEstado(c.Request.Context(), id, model.EstadoVenta(req.Estado))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Anular godoc
// @Summary      Anular venta
// @Description  Baja lógica: la venta queda anulada y sigue consultable. No restaura stock.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     int true "ID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) Anular(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Anular(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
