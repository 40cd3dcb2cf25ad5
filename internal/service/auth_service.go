package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pab0412/api-gamer-zeta/internal/apierror"
	"github.com/pab0412/api-gamer-zeta/internal/config"
	"github.com/pab0412/api-gamer-zeta/internal/dto"
	"github.com/pab0412/api-gamer-zeta/internal/model"
	"github.com/pab0412/api-gamer-zeta/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost is a var so tests can lower it.
var bcryptCost = 12

// compararHash is swapped in tests to observe the comparisons.
var compararHash = bcrypt.CompareHashAndPassword

var (
	hashFicticioOnce sync.Once
	hashFicticio     []byte
)

// hashSinUsuario is compared against when the email is unknown, so a login
// for a missing account costs the same as a wrong password.
func hashSinUsuario() []byte {
	hashFicticioOnce.Do(func() {
		hashFicticio, _ = bcrypt.GenerateFromPassword([]byte("gamer-zeta-sin-usuario"), bcryptCost)
	})
	return hashFicticio
}

// errCredenciales is shared by both login failure paths so callers cannot
// tell an unknown email from a wrong password.
var errCredenciales = apierror.NoAutorizado("Credenciales invalidas")

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.MessageResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
	ObtenerUsuario(ctx context.Context, id uint) (*dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	EliminarUsuario(ctx context.Context, id uint) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.MessageResponse, error) {
	email := normalizeEmail(req.Email)
	if err := s.emailDisponible(ctx, email, 0); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(req.Password)), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Nombre:       strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Rol:          model.RolCajero,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflicto("El email ya esta registrado")
		}
		return nil, err
	}
	log.Info().Uint("usuario_id", user.ID).Msg("usuario registrado")
	return &dto.MessageResponse{Message: "Usuario creado exitosamente"}, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = compararHash(hashSinUsuario(), []byte(strings.TrimSpace(req.Password)))
			return nil, errCredenciales
		}
		return nil, err
	}
	if err := compararHash([]byte(user.PasswordHash), []byte(strings.TrimSpace(req.Password))); err != nil {
		return nil, errCredenciales
	}

	token, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		Email:       user.Email,
		Name:        user.Nombre,
		Rol:         string(user.Rol),
	}, nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = *usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ObtenerUsuario(ctx context.Context, id uint) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Usuario con ID %d no encontrado", id)
	}
	return usuarioToResponse(user), nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Usuario con ID %d no encontrado", id)
	}
	if req.Name != nil {
		user.Nombre = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if err := s.emailDisponible(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(*req.Password)), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.Rol != nil {
		rol, err := model.ParseRol(*req.Rol)
		if err != nil {
			return nil, apierror.Validacion("Rol invalido: %s", *req.Rol)
		}
		if user.Rol == model.RolAdmin && rol != model.RolAdmin {
			if err := s.noEsUltimoAdmin(ctx, "No se puede quitar el rol al ultimo administrador"); err != nil {
				return nil, err
			}
		}
		user.Rol = rol
	}
	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflicto("El email ya esta registrado")
		}
		return nil, err
	}
	return usuarioToResponse(user), nil
}

// EliminarUsuario hard-deletes a user. The last admin and users referenced by
// sales are protected.
func (s *authService) EliminarUsuario(ctx context.Context, id uint) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "Usuario con ID %d no encontrado", id)
	}
	if user.Rol == model.RolAdmin {
		if err := s.noEsUltimoAdmin(ctx, "No se puede eliminar el ultimo administrador"); err != nil {
			return err
		}
	}
	tieneVentas, err := s.repo.TieneVentas(ctx, id)
	if err != nil {
		return err
	}
	if tieneVentas {
		return apierror.Conflicto("El usuario tiene ventas registradas y no puede eliminarse")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Uint("usuario_id", id).Msg("usuario eliminado")
	return nil
}

func (s *authService) noEsUltimoAdmin(ctx context.Context, msg string) error {
	n, err := s.repo.CountByRol(ctx, model.RolAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return apierror.Conflicto("%s", msg)
	}
	return nil
}

// emailDisponible fails with a conflict when email belongs to a user other
// than selfID.
func (s *authService) emailDisponible(ctx context.Context, email string, selfID uint) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing.ID != selfID {
		return apierror.Conflicto("El email ya esta registrado")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"name":  user.Nombre,
		"rol":   string(user.Rol),
		"exp":   now.Add(duration).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func usuarioToResponse(u *model.Usuario) *dto.UsuarioResponse {
	return &dto.UsuarioResponse{
		ID:        u.ID,
		Name:      u.Nombre,
		Email:     u.Email,
		Rol:       string(u.Rol),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
