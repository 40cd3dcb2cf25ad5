package repository

import (
	"context"
	"time"

	"github.com/pab0412/api-gamer-zeta/internal/model"

	"gorm.io/gorm"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uint) (*model.Venta, error)
	FindByIDTx(tx *gorm.DB, id uint) (*model.Venta, error)
	List(ctx context.Context) ([]model.Venta, error)
	ListByUsuario(ctx context.Context, usuarioID uint) ([]model.Venta, error)
	ListEntre(ctx context.Context, desde, hasta time.Time, estado model.EstadoVenta) ([]model.Venta, error)
	// CambiarEstado moves the sale from desde to hacia. Returns false when the
	// row was no longer in desde.
	CambiarEstado(ctx context.Context, id uint, desde, hacia model.EstadoVenta) (bool, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	// Boleta is issued separately, after the venta row exists.
	return tx.Omit("Boleta", "Usuario").Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uint) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Usuario").Preload("Boleta").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Venta, error) {
	var v model.Venta
	err := tx.First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) List(ctx context.Context) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Usuario").Preload("Boleta").
		Order("fecha DESC, id DESC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListByUsuario(ctx context.Context, usuarioID uint) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Boleta").
		Where("usuario_id = ?", usuarioID).
		Order("fecha DESC, id DESC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListEntre(ctx context.Context, desde, hasta time.Time, estado model.EstadoVenta) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Usuario").Preload("Boleta").
		Where("fecha >= ? AND fecha < ? AND estado = ?", desde, hasta, estado).
		Order("fecha DESC, id DESC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) CambiarEstado(ctx context.Context, id uint, desde, hacia model.EstadoVenta) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("id = ? AND estado = ?", id, desde).
		Update("estado", hacia)
	return res.RowsAffected == 1, res.Error
}
