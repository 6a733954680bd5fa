package database

import (
	"context"
	"fmt"

	"github.com/taskflow/taskflow-api/internal/logger"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes used by task filtering
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_user_due_date", "user_id, due_date"},
		{"tasks", "idx_tasks_user_completed", "user_id, completed"},
		{"tasks", "idx_tasks_user_tag", "user_id, tag"},
	}

	ctx := context.Background()
	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			logger.DebugLog(ctx, "Index %s already exists, skipping", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.InfoLog(ctx, "Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}

// MigrateDatabase runs the schema migration followed by the index pass
func MigrateDatabase(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
