package service

import (
	"context"
	"testing"
	"time"

	"github.com/pab0412/api-gamer-zeta/internal/apierror"
	"github.com/pab0412/api-gamer-zeta/internal/dto"
	"github.com/pab0412/api-gamer-zeta/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaFixture struct {
	usuarios  *stubUsuarioRepo
	productos *stubProductoRepo
	ventas    *stubVentaRepo
	boletas   *stubBoletaRepo
	emails    *stubEmailQueue
	svc       VentaService
	cajero    *model.Usuario
}

func newVentaFixture(t *testing.T) *ventaFixture {
	t.Helper()
	f := &ventaFixture{
		usuarios:  newStubUsuarioRepo(),
		productos: newStubProductoRepo(),
		ventas:    newStubVentaRepo(),
		emails:    &stubEmailQueue{},
	}
	f.boletas = newStubBoletaRepo(f.ventas)
	f.cajero = &model.Usuario{Nombre: "Cajero", Email: "cajero@gamer.com", Rol: model.RolCajero}
	require.NoError(t, f.usuarios.Create(context.Background(), f.cajero))

	boletaSvc := NewBoletaService(f.boletas, f.ventas, "BOL")
	f.svc = NewVentaService(f.ventas, f.productos, f.usuarios, boletaSvc, nil, f.emails)
	return f
}

func (f *ventaFixture) venta(lineas ...dto.DetalleProductoRequest) dto.CrearVentaRequest {
	return dto.CrearVentaRequest{
		UsuarioID:        f.cajero.ID,
		MetodoPago:       string(model.PagoEfectivo),
		DetalleProductos: lineas,
	}
}

func linea(productoID uint, cantidad int) dto.DetalleProductoRequest {
	return dto.DetalleProductoRequest{ProductoID: productoID, Cantidad: cantidad}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func TestCrearVenta_CalculaTotalesYEmiteBoleta(t *testing.T) {
	f := newVentaFixture(t)
	ps5 := f.productos.add("PlayStation 5", "500000", 10)

	resp, err := f.svc.Crear(context.Background(), f.venta(linea(ps5.ID, 2)))
	require.NoError(t, err)

	assert.True(t, resp.Subtotal.Equal(mustDecimal("1000000")))
	assert.True(t, resp.IVA.Equal(mustDecimal("190000")))
	assert.True(t, resp.Total.Equal(mustDecimal("1190000")))
	assert.Equal(t, "completada", resp.Estado)
	assert.Equal(t, "Cajero", resp.Cajero)

	require.Len(t, resp.DetalleProductos, 1)
	l := resp.DetalleProductos[0]
	assert.Equal(t, "PlayStation 5", l.Nombre)
	assert.True(t, l.PrecioUnitario.Equal(mustDecimal("500000")))
	assert.True(t, l.Subtotal.Equal(mustDecimal("1000000")))

	require.NotNil(t, resp.Boleta)
	assert.Equal(t, "BOL-000001", resp.Boleta.Numero)
	assert.Equal(t, model.ClienteDefault, resp.Boleta.Cliente)
	assert.True(t, resp.Boleta.MontoTotal.Equal(resp.Total))
	assert.Equal(t, resp.ID, resp.Boleta.VentaID)
	assert.Nil(t, resp.Boleta.Venta)

	assert.Equal(t, 8, f.productos.productos[ps5.ID].Stock)
}

func TestCrearVenta_NumeracionSecuencial(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("Mouse", "10000", 10)

	var numeros []string
	for i := 0; i < 3; i++ {
		resp, err := f.svc.Crear(context.Background(), f.venta(linea(p.ID, 1)))
		require.NoError(t, err)
		numeros = append(numeros, resp.Boleta.Numero)
	}
	assert.Equal(t, []string{"BOL-000001", "BOL-000002", "BOL-000003"}, numeros)
}

func TestCrearVenta_VariasLineas(t *testing.T) {
	f := newVentaFixture(t)
	a := f.productos.add("Control", "65000", 5)
	b := f.productos.add("Juego", "55000", 5)

	resp, err := f.svc.Crear(context.Background(), f.venta(linea(a.ID, 1), linea(b.ID, 2)))
	require.NoError(t, err)

	// 65000 + 110000 = 175000; iva 33250
	assert.True(t, resp.Subtotal.Equal(mustDecimal("175000")))
	assert.True(t, resp.IVA.Equal(mustDecimal("33250")))
	assert.True(t, resp.Total.Equal(mustDecimal("208250")))
	assert.Equal(t, 4, f.productos.productos[a.ID].Stock)
	assert.Equal(t, 3, f.productos.productos[b.ID].Stock)
}

func TestCrearVenta_StockInsuficiente(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("PlayStation 5", "500000", 1)

	_, err := f.svc.Crear(context.Background(), f.venta(linea(p.ID, 2)))
	require.Error(t, err)

	de, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.KindConflicto, de.Kind)
	assert.Equal(t, "Stock insuficiente para PlayStation 5. Disponible: 1", de.Msg)

	assert.Empty(t, f.ventas.ventas)
	assert.Empty(t, f.boletas.boletas)
	assert.Equal(t, 1, f.productos.productos[p.ID].Stock)
}

func TestCrearVenta_ProductoInexistente(t *testing.T) {
	f := newVentaFixture(t)

	_, err := f.svc.Crear(context.Background(), f.venta(linea(99, 1)))
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindNoEncontrado))
	assert.Contains(t, err.Error(), "Producto con ID 99 no encontrado")
	assert.Empty(t, f.ventas.ventas)
}

func TestCrearVenta_ProductoInactivo(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("Descontinuado", "1000", 10)
	f.productos.productos[p.ID].Estado = model.ProductoInactivo

	_, err := f.svc.Crear(context.Background(), f.venta(linea(p.ID, 1)))
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindConflicto))
	assert.Equal(t, 10, f.productos.productos[p.ID].Stock)
}

func TestCrearVenta_UsuarioInexistente(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("Mouse", "10000", 10)
	req := f.venta(linea(p.ID, 1))
	req.UsuarioID = 42

	_, err := f.svc.Crear(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindNoEncontrado))
	assert.Equal(t, 10, f.productos.productos[p.ID].Stock)
}

func TestCrearVenta_SinLineas(t *testing.T) {
	f := newVentaFixture(t)
	_, err := f.svc.Crear(context.Background(), f.venta())
	assert.True(t, apierror.Is(err, apierror.KindValidacion))
}

func TestCrearVenta_ClienteYRut(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("Mouse", "10000", 10)
	cliente, rut := "  Juan Perez ", "12.345.678-9"
	req := f.venta(linea(p.ID, 1))
	req.Cliente, req.Rut = &cliente, &rut

	resp, err := f.svc.Crear(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Juan Perez", resp.Boleta.Cliente)
	require.NotNil(t, resp.Boleta.Rut)
	assert.Equal(t, rut, *resp.Boleta.Rut)
}

func TestCrearVenta_EncolaEmail(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("Mouse", "10000", 10)
	email := "cliente@example.com"
	req := f.venta(linea(p.ID, 1))
	req.Email = &email

	resp, err := f.svc.Crear(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, f.emails.jobs, 1)
	assert.Equal(t, resp.Boleta.ID, f.emails.jobs[0].BoletaID)
	assert.Equal(t, email, f.emails.jobs[0].ToEmail)
}

func TestCrearVenta_SinEmailNoEncola(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("Mouse", "10000", 10)

	_, err := f.svc.Crear(context.Background(), f.venta(linea(p.ID, 1)))
	require.NoError(t, err)
	assert.Empty(t, f.emails.jobs)
}

// ── Estado ────────────────────────────────────────────────────────────────────

func TestAnularVenta(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("Mouse", "10000", 10)
	v, err := f.svc.Crear(context.Background(), f.venta(linea(p.ID, 3)))
	require.NoError(t, err)

	anulada, err := f.svc.Anular(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "anulada", anulada.Estado)
	// voiding does not restock
	assert.Equal(t, 7, f.productos.productos[p.ID].Stock)

	// second void is a no-op
	again, err := f.svc.Anular(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "anulada", again.Estado)

	_, err = f.svc.ActualizarEstado(context.Background(), v.ID, model.VentaCompletada)
	require.Error(t, err)
	assert.True(t, apierror.Is(err, apierror.KindConflicto))
	assert.Equal(t, model.VentaAnulada, f.ventas.ventas[v.ID].Estado)
}

func TestActualizarEstado_MismoEstadoEsNoOp(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("Mouse", "10000", 10)
	v, err := f.svc.Crear(context.Background(), f.venta(linea(p.ID, 1)))
	require.NoError(t, err)

	resp, err := f.svc.ActualizarEstado(context.Background(), v.ID, model.VentaCompletada)
	require.NoError(t, err)
	assert.Equal(t, "completada", resp.Estado)
}

func TestAnularVenta_NoEncontrada(t *testing.T) {
	f := newVentaFixture(t)
	_, err := f.svc.Anular(context.Background(), 7)
	assert.True(t, apierror.Is(err, apierror.KindNoEncontrado))
}

// ── Queries ───────────────────────────────────────────────────────────────────

func TestObtenerVenta_IncluyeBoleta(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("Mouse", "10000", 10)
	v, err := f.svc.Crear(context.Background(), f.venta(linea(p.ID, 1)))
	require.NoError(t, err)

	got, err := f.svc.ObtenerPorID(context.Background(), v.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Boleta)
	assert.Equal(t, v.Boleta.Numero, got.Boleta.Numero)
}

func TestListarPorUsuario(t *testing.T) {
	f := newVentaFixture(t)
	otro := &model.Usuario{Nombre: "Otro", Email: "otro@gamer.com", Rol: model.RolCajero}
	require.NoError(t, f.usuarios.Create(context.Background(), otro))
	p := f.productos.add("Mouse", "10000", 10)

	_, err := f.svc.Crear(context.Background(), f.venta(linea(p.ID, 1)))
	require.NoError(t, err)
	req := f.venta(linea(p.ID, 1))
	req.UsuarioID = otro.ID
	_, err = f.svc.Crear(context.Background(), req)
	require.NoError(t, err)

	propias, err := f.svc.ListarPorUsuario(context.Background(), f.cajero.ID)
	require.NoError(t, err)
	require.Len(t, propias, 1)
	assert.Equal(t, f.cajero.ID, propias[0].UsuarioID)

	todas, err := f.svc.Listar(context.Background())
	require.NoError(t, err)
	assert.Len(t, todas, 2)
}

func TestDiarias_SoloCompletadasDeHoy(t *testing.T) {
	f := newVentaFixture(t)
	p := f.productos.add("Mouse", "10000", 10)

	hoy, err := f.svc.Crear(context.Background(), f.venta(linea(p.ID, 1)))
	require.NoError(t, err)
	anulada, err := f.svc.Crear(context.Background(), f.venta(linea(p.ID, 1)))
	require.NoError(t, err)
	_, err = f.svc.Anular(context.Background(), anulada.ID)
	require.NoError(t, err)

	ayer := &model.Venta{UsuarioID: f.cajero.ID, Estado: model.VentaCompletada}
	require.NoError(t, f.ventas.CreateTx(nil, ayer))
	f.ventas.ventas[ayer.ID].Fecha = time.Now().AddDate(0, 0, -1)

	f.svc.(*ventaService).now = time.Now
	diarias, err := f.svc.Diarias(context.Background())
	require.NoError(t, err)
	require.Len(t, diarias, 1)
	assert.Equal(t, hoy.ID, diarias[0].ID)
}
