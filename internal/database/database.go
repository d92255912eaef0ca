package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver
	"go.uber.org/zap"
)

// DriverName is the database/sql name registered by go-ora
const DriverName = "oracle"

func init() {
	// go-ora takes :name and :1 placeholders; sqlx does not know the driver name.
	sqlx.BindDriver(DriverName, sqlx.NAMED)
}

// NewSQLXOracleDB opens and pings an Oracle connection pool
func NewSQLXOracleDB(ctx context.Context, dsn string, logger *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Info("Connected to Oracle database")
	return db, nil
}
