package infra

import (
	"fmt"
	"strings"

	"github.com/pab0412/api-gamer-zeta/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

// NewDatabase opens a GORM connection and migrates the schema.
// DSNs starting with "sqlite:" use the embedded SQLite driver (local runs and
// tests); anything else is handed to the pgx-backed postgres driver.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if isSQLite(dsn) {
		// SQLite allows a single writer; one connection keeps txs serialized.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

func dialector(dsn string) gorm.Dialector {
	if isSQLite(dsn) {
		return sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix))
	}
	return postgres.Open(dsn)
}

func isSQLite(dsn string) bool { return strings.HasPrefix(dsn, sqlitePrefix) }

// RunMigrations creates / updates all tables, then applies the postgres-only
// patches AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.Venta{},
		&model.Boleta{},
		&model.BoletaCorrelativo{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements. Each statement is guarded
// so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"partial index for daily completed sales", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_ventas_completadas_fecha') THEN
    CREATE INDEX idx_ventas_completadas_fecha ON ventas (fecha) WHERE estado = 'completada';
  END IF;
END $$`},
		{"non-negative price", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_productos_precio') THEN
    ALTER TABLE productos ADD CONSTRAINT chk_productos_precio CHECK (precio >= 0);
  END IF;
END $$`},
		{"known sale states", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ventas_estado') THEN
    ALTER TABLE ventas ADD CONSTRAINT chk_ventas_estado CHECK (estado IN ('completada', 'anulada'));
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
