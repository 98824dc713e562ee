package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"faresbot/internal/models"
)

const leadColumns = `chat_id, step, name, goal, fatigue, activity, digestion, beauty,
                     focus, format, contact_type, contact_data, completed, created_at, updated_at`

// SaveLead полностью перезаписывает запись лида (upsert по chat_id).
// Сброс через /start опирается именно на эту семантику.
func (db *DB) SaveLead(ctx context.Context, lead *models.Lead) error {
	focus, err := json.Marshal(emptyIfNil(lead.Focus))
	if err != nil {
		return fmt.Errorf("failed to marshal focus: %w", err)
	}
	format, err := json.Marshal(emptyIfNil(lead.Format))
	if err != nil {
		return fmt.Errorf("failed to marshal format: %w", err)
	}

	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = time.Now()
	}

	query := `INSERT INTO leads (
                chat_id, step, name, goal, fatigue, activity, digestion, beauty,
                focus, format, contact_type, contact_data, completed, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(chat_id) DO UPDATE SET
                step = excluded.step,
                name = excluded.name,
                goal = excluded.goal,
                fatigue = excluded.fatigue,
                activity = excluded.activity,
                digestion = excluded.digestion,
                beauty = excluded.beauty,
                focus = excluded.focus,
                format = excluded.format,
                contact_type = excluded.contact_type,
                contact_data = excluded.contact_data,
                completed = excluded.completed,
                created_at = excluded.created_at,
                updated_at = excluded.updated_at`

	_, err = db.ExecContext(ctx, query,
		lead.ChatID,
		lead.Step,
		lead.Name,
		lead.Goal,
		lead.Fatigue,
		lead.Activity,
		lead.Digestion,
		lead.Beauty,
		string(focus),
		string(format),
		lead.ContactType,
		lead.ContactData,
		lead.Completed,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save lead: %w", err)
	}
	return nil
}

// GetLead возвращает (nil, nil), если записи нет.
func (db *DB) GetLead(ctx context.Context, chatID int64) (*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE chat_id = ?`

	lead, err := scanLead(db.QueryRowContext(ctx, query, chatID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}
	return lead, nil
}

// MarkCompleted завершает воронку: completed=1, step=done.
func (db *DB) MarkCompleted(ctx context.Context, chatID int64) error {
	query := `UPDATE leads SET completed = 1, step = ?, updated_at = ? WHERE chat_id = ?`
	_, err := db.ExecContext(ctx, query, models.StepDone, time.Now(), chatID)
	if err != nil {
		return fmt.Errorf("failed to mark lead completed: %w", err)
	}
	return nil
}

func (db *DB) GetAllLeads(ctx context.Context) ([]*models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get leads: %w", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (db *DB) CountLeads(ctx context.Context) (int, int, error) {
	var total, completed int
	query := `SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM leads`
	if err := db.QueryRowContext(ctx, query).Scan(&total, &completed); err != nil {
		return 0, 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return total, completed, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*models.Lead, error) {
	var lead models.Lead
	var focus, format string

	err := row.Scan(
		&lead.ChatID, &lead.Step, &lead.Name, &lead.Goal, &lead.Fatigue,
		&lead.Activity, &lead.Digestion, &lead.Beauty, &focus, &format,
		&lead.ContactType, &lead.ContactData, &lead.Completed,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(focus), &lead.Focus); err != nil {
		return nil, fmt.Errorf("failed to unmarshal focus: %w", err)
	}
	if err := json.Unmarshal([]byte(format), &lead.Format); err != nil {
		return nil, fmt.Errorf("failed to unmarshal format: %w", err)
	}
	return &lead, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
