package service

import (
	"context"
	"testing"

	"github.com/pab0412/api-gamer-zeta/internal/apierror"
	"github.com/pab0412/api-gamer-zeta/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearProducto(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, nil)
	categoria := " consolas "

	p, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre: "PlayStation 5", Precio: mustDecimal("500000.004"), Stock: 3, Categoria: &categoria,
	})
	require.NoError(t, err)
	assert.Equal(t, "activo", p.Estado)
	assert.True(t, p.Activo)
	assert.Equal(t, "consolas", p.Categoria)
	assert.True(t, p.Precio.Equal(mustDecimal("500000")))
}

func TestActualizarProducto_ActivoAlternaEstado(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, nil)
	p := repo.add("Mouse", "10000", 5)

	off := false
	resp, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{Activo: &off})
	require.NoError(t, err)
	assert.Equal(t, "inactivo", resp.Estado)
	assert.False(t, resp.Activo)

	on := true
	stock := 9
	resp, err = svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{Activo: &on, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, "activo", resp.Estado)
	assert.Equal(t, 9, resp.Stock)
	assert.Equal(t, "Mouse", resp.Nombre)
}

func TestDesactivarProducto_SaleDelListado(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, nil)
	a := repo.add("A", "1000", 1)
	repo.add("B", "1000", 1)

	resp, err := svc.Desactivar(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactivo", resp.Estado)

	lista, err := svc.Listar(context.Background())
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "B", lista[0].Nombre)

	// still reachable by id
	got, err := svc.ObtenerPorID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.False(t, got.Activo)
}

func TestDesactivarProducto_NoEncontrado(t *testing.T) {
	svc := NewProductoService(newStubProductoRepo(), nil)
	_, err := svc.Desactivar(context.Background(), 5)
	assert.True(t, apierror.Is(err, apierror.KindNoEncontrado))
}

func TestListarPorCategoria(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, nil)
	_, err := svc.CargarCatalogoInicial(context.Background())
	require.NoError(t, err)

	consolas, err := svc.ListarPorCategoria(context.Background(), "consolas")
	require.NoError(t, err)
	assert.Len(t, consolas, 3)
	for _, p := range consolas {
		assert.Equal(t, "consolas", p.Categoria)
	}
}

func TestCargarCatalogoInicial(t *testing.T) {
	repo := newStubProductoRepo()
	svc := NewProductoService(repo, nil)

	resp, err := svc.CargarCatalogoInicial(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Productos cargados exitosamente", resp.Mensaje)
	assert.Equal(t, len(CatalogoInicial()), resp.Cantidad)
	assert.Len(t, resp.Productos, resp.Cantidad)
	for _, p := range resp.Productos {
		assert.NotZero(t, p.ID)
	}
}

func TestBootstrap_Idempotente(t *testing.T) {
	usuarios := newStubUsuarioRepo()
	productos := newStubProductoRepo()
	cfg := BootstrapConfig{AdminPassword: "admin123", CajeroPassword: "cajero123"}

	res, err := Bootstrap(context.Background(), usuarios, productos, cfg)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{AdminEmail, CajeroEmail}, res.Usuarios)
	assert.Equal(t, len(CatalogoInicial()), res.Productos)

	res, err = Bootstrap(context.Background(), usuarios, productos, cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Usuarios)
	assert.Zero(t, res.Productos)
	assert.Len(t, usuarios.users, 2)
	assert.Len(t, productos.productos, len(CatalogoInicial()))
}
