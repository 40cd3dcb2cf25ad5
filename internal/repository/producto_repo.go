package repository

import (
	"context"

	"github.com/pab0412/api-gamer-zeta/internal/model"

	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	CreateMany(ctx context.Context, ps []model.Producto) error
	FindByID(ctx context.Context, id uint) (*model.Producto, error)
	ListActivos(ctx context.Context) ([]model.Producto, error)
	ListByCategoria(ctx context.Context, categoria string) ([]model.Producto, error)
	// UpdateCampos writes only the given columns and returns the fresh row.
	// Stock is never written back from a previously read copy.
	UpdateCampos(ctx context.Context, id uint, campos map[string]any) (*model.Producto, error)
	Count(ctx context.Context) (int64, error)

	// Used inside transactions; callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uint) (*model.Producto, error)
	// DescontarStockTx subtracts cantidad only if enough stock remains.
	// Returns false, nil when the guard rejected the update.
	DescontarStockTx(tx *gorm.DB, id uint, cantidad int) (bool, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) CreateMany(ctx context.Context, ps []model.Producto) error {
	if len(ps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ps).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uint) (*model.Producto, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("estado = ?", model.ProductoActivo).
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListByCategoria(ctx context.Context, categoria string) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("categoria = ? AND estado = ?", categoria, model.ProductoActivo).
		Order("nombre ASC").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) UpdateCampos(ctx context.Context, id uint, campos map[string]any) (*model.Producto, error) {
	db := r.db.WithContext(ctx)
	if len(campos) > 0 {
		res := db.Model(&model.Producto{ID: id}).Updates(campos)
		if res.Error != nil {
			return nil, res.Error
		}
	}
	return r.FindByIDTx(db, id)
}

func (r *productoRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Producto{}).Count(&n).Error
	return n, err
}

func (r *productoRepo) FindByIDTx(tx *gorm.DB, id uint) (*model.Producto, error) {
	var p model.Producto
	err := tx.First(&p, id).Error
	return &p, err
}

func (r *productoRepo) DescontarStockTx(tx *gorm.DB, id uint, cantidad int) (bool, error) {
	res := tx.Model(&model.Producto{}).
		Where("id = ? AND stock >= ?", id, cantidad).
		Update("stock", gorm.Expr("stock - ?", cantidad))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
