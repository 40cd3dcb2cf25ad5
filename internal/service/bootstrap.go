package service

import (
	"context"
	"errors"

	"github.com/pab0412/api-gamer-zeta/internal/model"
	"github.com/pab0412/api-gamer-zeta/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AdminEmail  = "admin@gamer.com"
	CajeroEmail = "cajero@gamer.com"
)

// BootstrapConfig carries the passwords of the seeded accounts.
type BootstrapConfig struct {
	AdminPassword  string
	CajeroPassword string
}

// BootstrapResult reports what a Bootstrap run created.
type BootstrapResult struct {
	Usuarios  []string
	Productos int
}

// Bootstrap seeds the admin and cashier accounts when missing and the default
// catalog when the product table is empty. Safe to run on every start.
func Bootstrap(ctx context.Context, usuarios repository.UsuarioRepository, productos repository.ProductoRepository, cfg BootstrapConfig) (*BootstrapResult, error) {
	res := &BootstrapResult{}

	cuentas := []struct {
		nombre, email, password string
		rol                     model.Rol
	}{
		{"Administrador", AdminEmail, cfg.AdminPassword, model.RolAdmin},
		{"Cajero", CajeroEmail, cfg.CajeroPassword, model.RolCajero},
	}
	for _, c := range cuentas {
		_, err := usuarios.FindByEmail(ctx, c.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(c.password), bcryptCost)
		if err != nil {
			return nil, err
		}
		u := &model.Usuario{Nombre: c.nombre, Email: c.email, PasswordHash: string(hash), Rol: c.rol}
		if err := usuarios.Create(ctx, u); err != nil {
			return nil, err
		}
		res.Usuarios = append(res.Usuarios, c.email)
		log.Info().Str("email", c.email).Str("rol", string(c.rol)).Msg("bootstrap: usuario creado")
	}

	n, err := productos.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		catalogo := CatalogoInicial()
		if err := productos.CreateMany(ctx, catalogo); err != nil {
			return nil, err
		}
		res.Productos = len(catalogo)
		log.Info().Int("productos", len(catalogo)).Msg("bootstrap: catalogo inicial cargado")
	}
	return res, nil
}

// CatalogoInicial returns a fresh copy of the default product catalog.
func CatalogoInicial() []model.Producto {
	item := func(nombre, desc, precio string, stock int, categoria string) model.Producto {
		d := desc
		return model.Producto{
			Nombre:      nombre,
			Descripcion: &d,
			Precio:      decimal.RequireFromString(precio),
			Stock:       stock,
			Categoria:   categoria,
			Estado:      model.ProductoActivo,
		}
	}
	return []model.Producto{
		item("PlayStation 5", "Consola Sony PS5 edicion estandar 825GB", "500000", 10, "consolas"),
		item("Xbox Series X", "Consola Microsoft 1TB", "480000", 8, "consolas"),
		item("Nintendo Switch OLED", "Consola hibrida con pantalla OLED de 7 pulgadas", "350000", 12, "consolas"),
		item("Control DualSense", "Control inalambrico para PS5", "65000", 25, "accesorios"),
		item("Control Xbox Inalambrico", "Control para Xbox Series y PC", "60000", 20, "accesorios"),
		item("Audifonos HyperX Cloud II", "Audifonos gamer 7.1 con microfono", "85000", 15, "accesorios"),
		item("Teclado Mecanico Redragon", "Teclado mecanico RGB switches red", "45000", 18, "perifericos"),
		item("Mouse Logitech G502", "Mouse gamer 25K DPI", "55000", 22, "perifericos"),
		item("EA Sports FC 25", "Juego PS5 formato fisico", "55000", 30, "juegos"),
		item("The Legend of Zelda: Tears of the Kingdom", "Juego Nintendo Switch", "60000", 14, "juegos"),
		item("Monitor Samsung Odyssey 27", "Monitor curvo 165Hz QHD", "280000", 6, "monitores"),
		item("Silla Gamer Cougar", "Silla ergonomica reclinable", "190000", 5, "muebles"),
	}
}
