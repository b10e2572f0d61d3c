package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/result-processing-api/internal/models"
)

const configurationColumns = `key, value, type, description, updated_by, updated_at`

// ConfigurationRepository persists system settings.
type ConfigurationRepository struct {
	db *sqlx.DB
}

// NewConfigurationRepository constructs the repository.
func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db}
}

// ListByKeys returns settings whose key is in the provided slice.
func (r *ConfigurationRepository) ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM configurations WHERE key IN (%s) ORDER BY key ASC`, configurationColumns, placeholders(len(keys)))
	args := make([]interface{}, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	var configs []models.Configuration
	if err := r.db.SelectContext(ctx, &configs, query, args...); err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return configs, nil
}

// Get fetches a single setting by key.
func (r *ConfigurationRepository) Get(ctx context.Context, key string) (*models.Configuration, error) {
	var cfg models.Configuration
	if err := r.db.GetContext(ctx, &cfg, `SELECT `+configurationColumns+` FROM configurations WHERE key = $1`, key); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Upsert inserts or updates a setting.
func (r *ConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	const query = `INSERT INTO configurations (key, value, type, description, updated_by, updated_at)
VALUES (:key, :value, :type, :description, :updated_by, :updated_at)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, type = EXCLUDED.type,
              description = COALESCE(EXCLUDED.description, configurations.description),
              updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	cfg.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, cfg); err != nil {
		return fmt.Errorf("upsert configuration: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	values := make([]string, n)
	for i := 1; i <= n; i++ {
		values[i-1] = fmt.Sprintf("$%d", i)
	}
	return strings.Join(values, ",")
}
