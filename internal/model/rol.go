package model

import "fmt"

// Rol is the closed set of user roles.
type Rol string

const (
	RolAdmin  Rol = "admin"
	RolCajero Rol = "cashier"
)

// ParseRol validates a role string coming from a request or a token.
func ParseRol(s string) (Rol, error) {
	switch Rol(s) {
	case RolAdmin, RolCajero:
		return Rol(s), nil
	}
	return "", fmt.Errorf("rol desconocido: %q", s)
}

// Permiso names a capability checked by route guards and services.
type Permiso string

const (
	PermisoGestionarUsuarios Permiso = "usuarios:gestionar"
	PermisoVerUsuarios       Permiso = "usuarios:ver"
	PermisoGestionarCatalogo Permiso = "catalogo:gestionar"
	PermisoVerCatalogo       Permiso = "catalogo:ver"
	PermisoRegistrarVentas   Permiso = "ventas:registrar"
	PermisoVenderPorOtros    Permiso = "ventas:registrar_otros" // sale under another user's id
	PermisoVerVentas         Permiso = "ventas:ver"
	PermisoAnularVentas      Permiso = "ventas:anular"
	PermisoEmitirBoletas     Permiso = "boletas:emitir"
	PermisoVerBoletas        Permiso = "boletas:ver"
	PermisoGestionarBoletas  Permiso = "boletas:gestionar"
)

var permisosPorRol = map[Rol]map[Permiso]bool{
	RolAdmin: {
		PermisoGestionarUsuarios: true,
		PermisoVerUsuarios:       true,
		PermisoGestionarCatalogo: true,
		PermisoVerCatalogo:       true,
		PermisoRegistrarVentas:   true,
		PermisoVenderPorOtros:    true,
		PermisoVerVentas:         true,
		PermisoAnularVentas:      true,
		PermisoEmitirBoletas:     true,
		PermisoVerBoletas:        true,
		PermisoGestionarBoletas:  true,
	},
	RolCajero: {
		PermisoVerCatalogo:     true,
		PermisoRegistrarVentas: true,
		PermisoVerVentas:       true,
		PermisoEmitirBoletas:   true,
		PermisoVerBoletas:      true,
	},
}

// Puede reports whether the role holds the capability.
func (r Rol) Puede(p Permiso) bool {
	return permisosPorRol[r][p]
}
