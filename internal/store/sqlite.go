package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nibzard/tasker/internal/task"
)

// taskRow is a task as stored in SQLite. Position keeps insertion order.
type taskRow struct {
	Position    int     `gorm:"primaryKey;autoIncrement:false"`
	TaskID      int     `gorm:"column:task_id;not null;uniqueIndex"`
	Description string  `gorm:"not null"`
	Status      string  `gorm:"size:16;not null"`
	Created     string  `gorm:"column:created_at;not null"`
	Updated     *string `gorm:"column:updated_at"`
}

// TableName returns the table name for taskRow.
func (taskRow) TableName() string {
	return "tasks"
}

// SQLiteStore keeps the collection in a local SQLite database.
type SQLiteStore struct {
	db     *gorm.DB
	path   string
	logger *log.Logger
}

// OpenSQLite opens (creating if needed) the database at path and migrates
// the tasks table.
func OpenSQLite(ctx context.Context, path string, l *log.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&taskRow{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	if l == nil {
		l = log.New(io.Discard)
	}
	return &SQLiteStore{db: db, path: path, logger: l}, nil
}

// Load returns all tasks ordered by position.
func (s *SQLiteStore) Load(ctx context.Context) (task.Collection, error) {
	var rows []taskRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	records := make([]record, 0, len(rows))
	for _, row := range rows {
		r := record{
			ID:          row.TaskID,
			Description: row.Description,
			Status:      row.Status,
			CreatedAt:   row.Created,
		}
		if row.Updated != nil {
			r.UpdatedAt = *row.Updated
		}
		records = append(records, r)
	}

	c, err := fromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, s.path, err)
	}
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(c))
	return c, nil
}

// Save replaces every row with c inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, c task.Collection) error {
	records := toRecords(c)
	rows := make([]taskRow, 0, len(records))
	for i, r := range records {
		row := taskRow{
			Position:    i + 1,
			TaskID:      r.ID,
			Description: r.Description,
			Status:      r.Status,
			Created:     r.CreatedAt,
		}
		if r.UpdatedAt != "" {
			updated := r.UpdatedAt
			row.Updated = &updated
		}
		rows = append(rows, row)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&taskRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("replace tasks: %w", err)
	}

	s.logger.Debug("saved tasks", "path", s.path, "count", len(c))
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
