package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/calldesk/internal/entity"
)

type LeadRepository struct {
	conn *Conn
}

var _ entity.LeadRepositoryInterface = (*LeadRepository)(nil)

func NewLeadRepository(conn *Conn) *LeadRepository {
	return &LeadRepository{conn: conn}
}

// GetLeads returns the user's list in its stored order, or an empty slice.
func (r *LeadRepository) GetLeads(ctx context.Context, userID string) ([]entity.Lead, error) {
	query := r.conn.Rebind(`
		SELECT id, name, id_number, phone, email, company, role, notes, status, last_contacted
		FROM leads
		WHERE user_id = ?
		ORDER BY seq
	`)

	rows, err := r.conn.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		var (
			l             entity.Lead
			status        string
			lastContacted sql.NullString
		)
		if err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.IDNumber,
			&l.Phone,
			&l.Email,
			&l.Company,
			&l.Role,
			&l.Notes,
			&status,
			&lastContacted,
		); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		l.Status = entity.LeadStatus(status)
		if l.LastContacted, err = parseTimePtr(lastContacted); err != nil {
			return nil, fmt.Errorf("lead %s: last_contacted: %w", l.ID, err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}

// PutLeads replaces the whole list in one transaction, so readers never see
// a half-written list. Last write wins.
func (r *LeadRepository) PutLeads(ctx context.Context, userID string, leads []entity.Lead) error {
	tx, err := r.conn.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.conn.Rebind(`DELETE FROM leads WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("clear leads: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, r.conn.Rebind(`
		INSERT INTO leads (
			user_id, seq, id, name, id_number, phone, email,
			company, role, notes, status, last_contacted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range leads {
		if _, err := stmt.ExecContext(ctx,
			userID,
			i,
			l.ID,
			l.Name,
			l.IDNumber,
			l.Phone,
			l.Email,
			l.Company,
			l.Role,
			l.Notes,
			string(l.Status),
			formatTimePtr(l.LastContacted),
		); err != nil {
			return fmt.Errorf("insert lead %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CountByStatus aggregates every stored lead, across users.
func (r *LeadRepository) CountByStatus(ctx context.Context) (map[entity.LeadStatus]int, error) {
	rows, err := r.conn.DB.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.LeadStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[entity.LeadStatus(status)] = n
	}
	return counts, rows.Err()
}
