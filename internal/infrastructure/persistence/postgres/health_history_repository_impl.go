package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
	_ "github.com/lib/pq"
)

// PostgresHealthHistoryRepository реализует repository.HealthHistoryRepository для PostgreSQL
type PostgresHealthHistoryRepository struct {
	db *sql.DB
}

// NewPostgresHealthHistoryRepository создает новый PostgreSQL repository
func NewPostgresHealthHistoryRepository(db *sql.DB) *PostgresHealthHistoryRepository {
	return &PostgresHealthHistoryRepository{
		db: db,
	}
}

// Save сохраняет одну запись истории
func (r *PostgresHealthHistoryRepository) Save(ctx context.Context, record *entity.HealthRecord) error {
	model := ToDBModel(record)

	query := `
		INSERT INTO health_history (id, node_id, status, sync_age_seconds, memory_used_percent, collected_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		model.ID,
		model.NodeID,
		model.Status,
		model.SyncAgeSeconds,
		model.MemoryUsedPercent,
		model.CollectedAt,
		model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert health record: %w", err)
	}

	return nil
}

// SaveBatch сохраняет несколько записей одной транзакцией
func (r *PostgresHealthHistoryRepository) SaveBatch(ctx context.Context, records []*entity.HealthRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO health_history (id, node_id, status, sync_age_seconds, memory_used_percent, collected_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		model := ToDBModel(record)

		_, err = stmt.ExecContext(ctx,
			model.ID,
			model.NodeID,
			model.Status,
			model.SyncAgeSeconds,
			model.MemoryUsedPercent,
			model.CollectedAt,
			model.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert health record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByNode находит записи узла с ограничением количества
func (r *PostgresHealthHistoryRepository) FindByNode(
	ctx context.Context,
	nodeID string,
	limit int,
) ([]*entity.HealthRecord, error) {
	query := `
		SELECT id, node_id, status, sync_age_seconds, memory_used_percent, collected_at, created_at
		FROM health_history
		WHERE node_id = $1
		ORDER BY collected_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, nodeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query health records: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// FindByTimeRange находит записи узла за временной диапазон
func (r *PostgresHealthHistoryRepository) FindByTimeRange(
	ctx context.Context,
	nodeID string,
	timeRange valueobject.TimeRange,
) ([]*entity.HealthRecord, error) {
	query := `
		SELECT id, node_id, status, sync_age_seconds, memory_used_percent, collected_at, created_at
		FROM health_history
		WHERE node_id = $1 AND collected_at BETWEEN $2 AND $3
		ORDER BY collected_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query,
		nodeID,
		timeRange.Start(),
		timeRange.End(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query health records: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// FindLatest находит последнюю запись каждого узла
func (r *PostgresHealthHistoryRepository) FindLatest(ctx context.Context) (map[string]*entity.HealthRecord, error) {
	query := `
		SELECT DISTINCT ON (node_id)
			id, node_id, status, sync_age_seconds, memory_used_percent, collected_at, created_at
		FROM health_history
		ORDER BY node_id, collected_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest health records: %w", err)
	}
	defer rows.Close()

	records, err := r.scanRecords(rows)
	if err != nil {
		return nil, err
	}

	result := make(map[string]*entity.HealthRecord)
	for _, record := range records {
		result[record.NodeID()] = record
	}

	return result, nil
}

// DeleteOlderThan удаляет записи старше начала диапазона
func (r *PostgresHealthHistoryRepository) DeleteOlderThan(ctx context.Context, timeRange valueobject.TimeRange) error {
	query := `
		DELETE FROM health_history
		WHERE collected_at < $1
	`

	if _, err := r.db.ExecContext(ctx, query, timeRange.Start()); err != nil {
		return fmt.Errorf("failed to delete old health records: %w", err)
	}

	return nil
}

// scanRecords сканирует несколько строк в слайс записей
func (r *PostgresHealthHistoryRepository) scanRecords(rows *sql.Rows) ([]*entity.HealthRecord, error) {
	var records []*entity.HealthRecord

	for rows.Next() {
		model, err := ScanHealthRecordRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan health record row: %w", err)
		}
		records = append(records, ToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}
