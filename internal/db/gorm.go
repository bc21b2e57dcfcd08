package db

import (
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormDB is a gorm handle sharing connections with the pgx pool.
type GormDB struct {
	DB    *gorm.DB
	sqlDB *sql.DB
}

func OpenGorm(pool *pgxpool.Pool) (*GormDB, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm db: %w", err)
	}
	return &GormDB{DB: gormDB, sqlDB: sqlDB}, nil
}

// Close releases the database/sql wrapper. The pgx pool stays open.
func (g *GormDB) Close() {
	if g == nil || g.sqlDB == nil {
		return
	}
	_ = g.sqlDB.Close()
}
