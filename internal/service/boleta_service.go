package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pab0412/api-gamer-zeta/internal/apierror"
	"github.com/pab0412/api-gamer-zeta/internal/dto"
	"github.com/pab0412/api-gamer-zeta/internal/infra"
	"github.com/pab0412/api-gamer-zeta/internal/model"
	"github.com/pab0412/api-gamer-zeta/internal/repository"

	"gorm.io/gorm"
)

type BoletaService interface {
	// EmitirTx issues the boleta for a sale that is being written in tx.
	EmitirTx(tx *gorm.DB, venta *model.Venta, cliente, rut *string) (*model.Boleta, error)
	Crear(ctx context.Context, req dto.CrearBoletaRequest) (*dto.BoletaResponse, error)
	Listar(ctx context.Context) ([]dto.BoletaResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.BoletaResponse, error)
	ObtenerPorNumero(ctx context.Context, numero string) (*dto.BoletaResponse, error)
	ObtenerPorVenta(ctx context.Context, ventaID uint) (*dto.BoletaResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarBoletaRequest) (*dto.BoletaResponse, error)
	Eliminar(ctx context.Context, id uint) error
	// PDF renders the printable receipt into w and returns its numero.
	PDF(ctx context.Context, id uint, w io.Writer) (string, error)
}

type boletaService struct {
	repo    repository.BoletaRepository
	ventas  repository.VentaRepository
	prefijo string
}

func NewBoletaService(repo repository.BoletaRepository, ventas repository.VentaRepository, prefijo string) BoletaService {
	if prefijo == "" {
		prefijo = "BOL"
	}
	return &boletaService{repo: repo, ventas: ventas, prefijo: prefijo}
}

// ── Issuance ──────────────────────────────────────────────────────────────────
// The numbering counter row is locked by SiguienteNumeroTx until tx ends, so
// two concurrent issuances never read the same "last number".

func (s *boletaService) EmitirTx(tx *gorm.DB, venta *model.Venta, cliente, rut *string) (*model.Boleta, error) {
	existe, err := s.repo.ExistsForVentaTx(tx, venta.ID)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, apierror.Conflicto("La venta %d ya tiene una boleta emitida", venta.ID)
	}

	n, err := s.repo.SiguienteNumeroTx(tx, s.prefijo)
	if err != nil {
		return nil, fmt.Errorf("asignar numero de boleta: %w", err)
	}

	b := &model.Boleta{
		Numero:     model.FormatNumero(s.prefijo, n),
		Cliente:    clienteOrDefault(cliente),
		Rut:        trimmedOrNil(rut),
		MontoTotal: venta.Total,
		VentaID:    venta.ID,
	}
	if err := s.repo.CreateTx(tx, b); err != nil {
		return nil, err
	}
	if b.FechaEmision.IsZero() {
		b.FechaEmision = time.Now()
	}
	return b, nil
}

func (s *boletaService) Crear(ctx context.Context, req dto.CrearBoletaRequest) (*dto.BoletaResponse, error) {
	var boleta *model.Boleta
	var venta *model.Venta
	err := runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		v, err := s.ventas.FindByIDTx(tx, req.VentaID)
		if err != nil {
			return notFoundOr(err, "Venta con ID %d no encontrada", req.VentaID)
		}
		if v.Estado == model.VentaAnulada {
			return apierror.Conflicto("No se puede emitir boleta para una venta anulada")
		}
		b, err := s.EmitirTx(tx, v, req.Cliente, req.Rut)
		if err != nil {
			return err
		}
		boleta, venta = b, v
		return nil
	})
	if err != nil {
		return nil, err
	}
	boleta.Venta = venta
	return boletaToResponse(boleta), nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *boletaService) Listar(ctx context.Context) ([]dto.BoletaResponse, error) {
	boletas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.BoletaResponse, len(boletas))
	for i := range boletas {
		resp[i] = *boletaToResponse(&boletas[i])
	}
	return resp, nil
}

func (s *boletaService) ObtenerPorID(ctx context.Context, id uint) (*dto.BoletaResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Boleta con ID %d no encontrada", id)
	}
	return boletaToResponse(b), nil
}

func (s *boletaService) ObtenerPorNumero(ctx context.Context, numero string) (*dto.BoletaResponse, error) {
	b, err := s.repo.FindByNumero(ctx, strings.TrimSpace(numero))
	if err != nil {
		return nil, notFoundOr(err, "Boleta %s no encontrada", numero)
	}
	return boletaToResponse(b), nil
}

func (s *boletaService) ObtenerPorVenta(ctx context.Context, ventaID uint) (*dto.BoletaResponse, error) {
	b, err := s.repo.FindByVentaID(ctx, ventaID)
	if err != nil {
		return nil, notFoundOr(err, "Boleta para venta %d no encontrada", ventaID)
	}
	return boletaToResponse(b), nil
}

// ── Mutations ─────────────────────────────────────────────────────────────────

// Actualizar only edits customer data; numero, monto and venta are fixed.
func (s *boletaService) Actualizar(ctx context.Context, id uint, req dto.ActualizarBoletaRequest) (*dto.BoletaResponse, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Boleta con ID %d no encontrada", id)
	}
	if req.Cliente != nil {
		b.Cliente = clienteOrDefault(req.Cliente)
	}
	if req.Rut != nil {
		b.Rut = trimmedOrNil(req.Rut)
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return boletaToResponse(b), nil
}

// Eliminar removes the receipt row. Its number is never handed out again.
func (s *boletaService) Eliminar(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "Boleta con ID %d no encontrada", id)
	}
	return s.repo.Delete(ctx, id)
}

func (s *boletaService) PDF(ctx context.Context, id uint, w io.Writer) (string, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", notFoundOr(err, "Boleta con ID %d no encontrada", id)
	}
	if b.Venta == nil {
		return "", errors.New("boleta sin venta asociada")
	}
	if err := infra.RenderBoletaPDF(w, b, b.Venta); err != nil {
		return "", err
	}
	return b.Numero, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func clienteOrDefault(cliente *string) string {
	if cliente == nil || strings.TrimSpace(*cliente) == "" {
		return model.ClienteDefault
	}
	return strings.TrimSpace(*cliente)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func boletaPDFUrl(id uint) string { return fmt.Sprintf("/api/v1/boletas/%d/pdf", id) }

func boletaToResponse(b *model.Boleta) *dto.BoletaResponse {
	resp := &dto.BoletaResponse{
		ID:           b.ID,
		Numero:       b.Numero,
		FechaEmision: b.FechaEmision.Format(time.RFC3339),
		Cliente:      b.Cliente,
		Rut:          b.Rut,
		MontoTotal:   b.MontoTotal,
		VentaID:      b.VentaID,
		PDFUrl:       boletaPDFUrl(b.ID),
	}
	if b.Venta != nil {
		v := *b.Venta
		v.Boleta = nil
		resp.Venta = ventaToResponse(&v)
	}
	return resp
}
