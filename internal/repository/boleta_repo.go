package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/pab0412/api-gamer-zeta/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BoletaRepository interface {
	CreateTx(tx *gorm.DB, b *model.Boleta) error
	// SiguienteNumeroTx locks the prefix counter row and returns the next
	// number. The lock is held until tx ends, so callers must insert the
	// boleta within the same tx.
	SiguienteNumeroTx(tx *gorm.DB, prefijo string) (int64, error)
	ExistsForVentaTx(tx *gorm.DB, ventaID uint) (bool, error)
	FindByID(ctx context.Context, id uint) (*model.Boleta, error)
	FindByNumero(ctx context.Context, numero string) (*model.Boleta, error)
	FindByVentaID(ctx context.Context, ventaID uint) (*model.Boleta, error)
	List(ctx context.Context) ([]model.Boleta, error)
	Update(ctx context.Context, b *model.Boleta) error
	Delete(ctx context.Context, id uint) error
}

type boletaRepo struct{ db *gorm.DB }

func NewBoletaRepository(db *gorm.DB) BoletaRepository {
	return &boletaRepo{db: db}
}

func (r *boletaRepo) CreateTx(tx *gorm.DB, b *model.Boleta) error {
	return tx.Omit("Venta").Create(b).Error
}

func (r *boletaRepo) SiguienteNumeroTx(tx *gorm.DB, prefijo string) (int64, error) {
	corr, err := lockCorrelativo(tx, prefijo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// First use of the prefix: continue from the last issued boleta.
		ultimo, err := ultimoNumeroEmitido(tx, prefijo)
		if err != nil {
			return 0, err
		}
		seed := model.BoletaCorrelativo{Prefijo: prefijo, Ultimo: ultimo}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return 0, fmt.Errorf("crear correlativo %s: %w", prefijo, err)
		}
		corr, err = lockCorrelativo(tx, prefijo)
		if err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	next := corr.Ultimo + 1
	if err := tx.Model(&model.BoletaCorrelativo{}).
		Where("prefijo = ?", prefijo).
		Update("ultimo", next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

func lockCorrelativo(tx *gorm.DB, prefijo string) (*model.BoletaCorrelativo, error) {
	var corr model.BoletaCorrelativo
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("prefijo = ?", prefijo).
		First(&corr).Error
	return &corr, err
}

// ultimoNumeroEmitido parses the suffix of the most recently inserted boleta
// carrying the prefix, or 0 when none exists.
func ultimoNumeroEmitido(tx *gorm.DB, prefijo string) (int64, error) {
	var last model.Boleta
	err := tx.Where("numero LIKE ?", prefijo+"-%").Order("id DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return model.ParseNumero(last.Numero)
}

func (r *boletaRepo) ExistsForVentaTx(tx *gorm.DB, ventaID uint) (bool, error) {
	var n int64
	err := tx.Model(&model.Boleta{}).Where("venta_id = ?", ventaID).Count(&n).Error
	return n > 0, err
}

func (r *boletaRepo) FindByID(ctx context.Context, id uint) (*model.Boleta, error) {
	var b model.Boleta
	err := r.db.WithContext(ctx).Preload("Venta.Usuario").First(&b, id).Error
	return &b, err
}

func (r *boletaRepo) FindByNumero(ctx context.Context, numero string) (*model.Boleta, error) {
	var b model.Boleta
	err := r.db.WithContext(ctx).Preload("Venta.Usuario").Where("numero = ?", numero).First(&b).Error
	return &b, err
}

func (r *boletaRepo) FindByVentaID(ctx context.Context, ventaID uint) (*model.Boleta, error) {
	var b model.Boleta
	err := r.db.WithContext(ctx).Preload("Venta").Where("venta_id = ?", ventaID).First(&b).Error
	return &b, err
}

func (r *boletaRepo) List(ctx context.Context) ([]model.Boleta, error) {
	var boletas []model.Boleta
	err := r.db.WithContext(ctx).Preload("Venta").Order("fecha_emision DESC, id DESC").Find(&boletas).Error
	return boletas, err
}

func (r *boletaRepo) Update(ctx context.Context, b *model.Boleta) error {
	return r.db.WithContext(ctx).Omit("Venta").Save(b).Error
}

func (r *boletaRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Boleta{}, id).Error
}
