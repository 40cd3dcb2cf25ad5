package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ActualizarUsuarioRequest is a partial update; nil fields are left untouched.
type ActualizarUsuarioRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Rol      *string `json:"rol"      validate:"omitempty,oneof=admin cashier"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MessageResponse struct {
	Message string `json:"message"`
}

// UsuarioResponse never carries the password hash.
type UsuarioResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Rol       string `json:"rol"`
	CreatedAt string `json:"createdAt"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Rol         string `json:"rol"`
}

// ProfileResponse mirrors the decoded token claims.
type ProfileResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Rol   string `json:"rol"`
}
