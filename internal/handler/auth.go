package handler

import (
	"net/http"

	"github.com/pab0412/api-gamer-zeta/internal/apierror"
	"github.com/pab0412/api-gamer-zeta/internal/dto"
	"github.com/pab0412/api-gamer-zeta/internal/middleware"
	"github.com/pab0412/api-gamer-zeta/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Register godoc
// @Summary      Registrar usuario
// @Description  Crea una cuenta con rol cashier.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.RegisterRequest true "Datos del usuario"
// @Success      201  {object} dto.MessageResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Valida credenciales y retorna un JWT.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credenciales"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Failure      429  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Profile godoc
// @Summary      Perfil del usuario autenticado
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ProfileResponse
// @Failure      401 {object} apierror.APIError
// @Router       /v1/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	id, _ := claims.UsuarioID()
	c.JSON(http.StatusOK, dto.ProfileResponse{
		ID:    id,
		Email: claims.Email,
		Name:  claims.Name,
		Rol:   claims.Rol,
	})
}

// ListarUsuarios godoc
// @Summary      Listar usuarios
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.UsuarioResponse
// @Router       /v1/auth/users [get]
func (h *AuthHandler) ListarUsuarios(c *gin.Context) {
	resp, err := h.svc.ListarUsuarios(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerUsuario godoc
// @Summary      Obtener usuario
// @Description  Disponible para administradores o para el propio usuario.
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     int true "ID del usuario"
// @Success      200 {object} dto.UsuarioResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/auth/users/{id} [get]
func (h *AuthHandler) ObtenerUsuario(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerUsuario(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarUsuario godoc
// @Summary      Actualizar usuario
// @Tags         usuarios
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     int                          true "ID del usuario"
// @Param        body body     dto.ActualizarUsuarioRequest true "Campos a modificar"
// @Success      200  {object} dto.UsuarioResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/auth/users/{id} [patch]
func (h *AuthHandler) ActualizarUsuario(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarUsuario(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarUsuario godoc
// @Summary      Eliminar usuario
// @Description  El último administrador no puede eliminarse.
// @Tags         usuarios
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     int true "ID del usuario"
// @Success      200 {object} dto.MessageResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/auth/users/{id} [delete]
func (h *AuthHandler) EliminarUsuario(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarUsuario(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Usuario eliminado"})
}
