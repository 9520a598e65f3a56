package repository

import (
	"context"
	"database/sql"

	"github.com/shiftwatch/dashboard/backend/internal/config"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.dbpool.PingContext(ctx)
}
