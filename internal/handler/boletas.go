package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/pab0412/api-gamer-zeta/internal/dto"
	"github.com/pab0412/api-gamer-zeta/internal/service"

	"github.com/gin-gonic/gin"
)

type BoletasHandler struct{ svc service.BoletaService }

func NewBoletasHandler(svc service.BoletaService) *BoletasHandler { return &BoletasHandler{svc: svc} }

// Crear godoc
// @Summary      Emitir boleta para una venta existente
// @Description  Solo si la venta no tiene boleta. El número se asigna de forma correlativa.
// @Tags         boletas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearBoletaRequest true "Venta y datos del cliente"
// @Success      201  {object} dto.BoletaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/boletas [post]
func (h *BoletasHandler) Crear(c *gin.Context) {
	var req dto.CrearBoletaRequest
	if !bindAndValidate(c, &req) {
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
// @Summary      Listar boletas
// @Tags         boletas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.BoletaResponse
// @Router       /v1/boletas [get]
func (h *BoletasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorNumero godoc
// @Summary      Buscar boleta por número
// @Tags         boletas
// @Produce      json
// @Security     BearerAuth
// @Param        numero path     string true "Número, ej. BOL-000001"
// @Success      200    {object} dto.BoletaResponse
// @Failure      404    {object} apierror.APIError
// @Router       /v1/boletas/numero/{numero} [get]
func (h *BoletasHandler) ObtenerPorNumero(c *gin.Context) {
	resp, err := h.svc.ObtenerPorNumero(c.Request.Context(), c.Param("numero"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorVenta godoc
// @Summary      Boleta de una venta
// @Tags         boletas
// @Produce      json
// @Security     BearerAuth
// @Param        ventaId path     int true "ID de la venta"
// @Success      200     {object} dto.BoletaResponse
// @Failure      404     {object} apierror.APIError
// @Router       /v1/boletas/venta/{ventaId} [get]
func (h *BoletasHandler) ObtenerPorVenta(c *gin.Context) {
	id, ok := idParam(c, "ventaId")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary      Obtener boleta
// @Tags         boletas
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     int true "ID de la boleta"
// @Success      200 {object} dto.BoletaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/boletas/{id} [get]
func (h *BoletasHandler) ObtenerPorID(c *gin.Context) {
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

// PDF godoc
// @Summary      Descargar boleta en PDF
// @Tags         boletas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path int true "ID de la boleta"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/boletas/{id}/pdf [get]
func (h *BoletasHandler) PDF(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	numero, err := h.svc.PDF(c.Request.Context(), id, &buf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, numero))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Actualizar godoc
// @Summary      Actualizar datos del cliente
// @Tags         boletas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int                         true "ID de la boleta"
// @Param        body body     dto.ActualizarBoletaRequest true "Cliente / RUT"
// @Success      200  {object} dto.BoletaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/boletas/{id} [patch]
func (h *BoletasHandler) Actualizar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarBoletaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar boleta
// @Tags         boletas
// @Produce      json
// @Security     BearerAuth
// @Param        id  path int true "ID de la boleta"
// @Success      200 {object} dto.MessageResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/boletas/{id} [delete]
func (h *BoletasHandler) Eliminar(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Boleta eliminada"})
}
