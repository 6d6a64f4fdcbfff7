package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"learning-quiz-engine/internal/domain"
)

// ResultRepository persists result records, one row per session id.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

const resultColumns = `quiz_id, session_id, kind, learner_id, learner_name, learner_contact,
	total_marks, possible_marks, participated_questions, catalog_size, total_seconds, completed_at`

func (r *ResultRepository) Save(ctx context.Context, record domain.ResultRecord) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO result_records (`+resultColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (session_id) DO NOTHING`,
		record.QuizID,
		record.SessionID,
		record.Kind,
		record.LearnerID,
		record.LearnerName,
		record.LearnerContact,
		record.TotalMarks,
		record.PossibleMarks,
		record.ParticipatedQuestions,
		record.CatalogSize,
		record.TotalSeconds,
		record.CompletedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert result: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ResultRepository) Get(ctx context.Context, sessionID string) (domain.ResultRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+resultColumns+` FROM result_records WHERE session_id=$1`, sessionID)
	record, err := scanResult(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ResultRecord{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.ResultRecord{}, fmt.Errorf("load result: %w", err)
	}
	return record, nil
}

func (r *ResultRepository) ListByLearner(ctx context.Context, learnerID string) ([]domain.ResultRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+resultColumns+` FROM result_records
		WHERE learner_id=$1
		ORDER BY completed_at DESC, session_id`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ResultRecord, 0)
	for rows.Next() {
		record, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func scanResult(row pgx.Row) (domain.ResultRecord, error) {
	var record domain.ResultRecord
	err := row.Scan(
		&record.QuizID,
		&record.SessionID,
		&record.Kind,
		&record.LearnerID,
		&record.LearnerName,
		&record.LearnerContact,
		&record.TotalMarks,
		&record.PossibleMarks,
		&record.ParticipatedQuestions,
		&record.CatalogSize,
		&record.TotalSeconds,
		&record.CompletedAt,
	)
	if err != nil {
		return domain.ResultRecord{}, err
	}
	record.CompletedAt = record.CompletedAt.UTC()
	return record, nil
}
