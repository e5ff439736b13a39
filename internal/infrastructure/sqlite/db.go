// Package sqlite implementa los repositorios sobre SQLite con gorm (STORAGE_DRIVER=sqlite).
// Pensado para un puesto único: todas las operaciones pasan por una sola conexión.
package sqlite

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open abre (o crea) la base en path. Con una sola conexión abierta las transacciones se
// serializan y dos salidas concurrentes nunca leen el mismo saldo.
func Open(path string, log zerolog.Logger) (*gorm.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(gormWriter{log: log}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite %s: %w", path, err)
	}
	// Spans por consulta; sin exportador configurado es un no-op.
	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithoutQueryVariables())); err != nil {
		log.Warn().Err(err).Msg("plugin otelgorm no instalado")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate crea o actualiza las tablas a partir de los modelos.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&supplierModel{},
		&requestorModel{},
		&articleModel{},
		&receptionModel{},
		&outboundModel{},
		&requestModel{},
		&itemModel{},
		&movementModel{},
	)
}

// gormWriter envía el log de gorm (consultas lentas, errores) a zerolog.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warn().Str("component", "gorm").Msgf(format, args...)
}
