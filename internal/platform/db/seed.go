package db

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
)

// Seed stores the default company settings unless settings already exist.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	raw, err := json.Marshal(payroll.DefaultCompanySettings())
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, "INSERT INTO company_settings (id, settings_json) VALUES (1, $1) ON CONFLICT (id) DO NOTHING", raw)
	return err
}
