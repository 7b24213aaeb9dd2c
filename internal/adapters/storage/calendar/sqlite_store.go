package calendar

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"studio/internal/adapters/storage"
	domain "studio/internal/domain/calendar"
)

// SQLiteStore implements Store using SQLite. The seq column preserves append order.
type SQLiteStore struct {
	db storage.SQLDB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db is a valid, open database connection with migrations applied
// POST: store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const itemColumns = `id, type, title, description, date, end_date, time, end_time, location,
	assigned_to, status, color, recurrence, created_by, created_at`

// Append inserts an item at the end of the log.
// PRE: item.ID is unique
// POST: item is persisted with the next seq value
func (s *SQLiteStore) Append(ctx context.Context, item domain.Item) error {
	assigned, err := json.Marshal(nonNil(item.AssignedTo))
	if err != nil {
		return fmt.Errorf("encode assigned_to: %w", err)
	}
	createdAt := ""
	if !item.CreatedAt.IsZero() {
		createdAt = item.CreatedAt.UTC().Format(time.RFC3339)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO calendar_item (`+itemColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, string(item.Type), item.Title, item.Description, item.Date, item.EndDate,
		item.Time, item.EndTime, item.Location, string(assigned), string(item.Status),
		item.Color, item.Recurrence, item.CreatedBy, createdAt,
	)
	if err != nil {
		return fmt.Errorf("append calendar item %s: %w", item.ID, err)
	}
	return nil
}

// List returns every item ordered by seq.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM calendar_item ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list calendar items: %w", err)
	}
	return scanItems(rows)
}

// ListOverlapping returns items intersecting [from, to] plus every recurring item, ordered by seq.
// PRE: from and to are YYYY-MM-DD
func (s *SQLiteStore) ListOverlapping(ctx context.Context, from, to string) ([]domain.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM calendar_item
		 WHERE recurrence != ''
		    OR (date <= ? AND (CASE WHEN end_date = '' THEN date ELSE end_date END) >= ?)
		 ORDER BY seq ASC`, to, from)
	if err != nil {
		return nil, fmt.Errorf("list calendar items %s..%s: %w", from, to, err)
	}
	return scanItems(rows)
}

func scanItems(rows *sql.Rows) ([]domain.Item, error) {
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		var typ, status, assigned, createdAt string
		if err := rows.Scan(&it.ID, &typ, &it.Title, &it.Description, &it.Date, &it.EndDate,
			&it.Time, &it.EndTime, &it.Location, &assigned, &status, &it.Color,
			&it.Recurrence, &it.CreatedBy, &createdAt); err != nil {
			return nil, err
		}
		it.Type = domain.Category(typ)
		it.Status = domain.Status(status)
		if err := json.Unmarshal([]byte(assigned), &it.AssignedTo); err != nil {
			return nil, fmt.Errorf("decode assigned_to for %s: %w", it.ID, err)
		}
		if len(it.AssignedTo) == 0 {
			it.AssignedTo = nil
		}
		if createdAt != "" {
			it.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
