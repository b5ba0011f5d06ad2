// ABOUTME: SObject record storage for the mock Salesforce server.
// ABOUTME: Records of every type share one table; fields are kept as JSON.

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Record is one stored SObject row.
type Record struct {
	ID        string
	SObject   string
	Name      string
	OwnerID   string
	Fields    map[string]any
	CreatedAt time.Time
}

// RecordQuery filters ListRecords. Zero values mean no filter.
type RecordQuery struct {
	SObject      string
	OwnerID      string
	NameContains string
	Limit        int
	Offset       int
}

func (s *Store) CreateRecord(r *Record) error {
	fields, err := json.Marshal(r.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO sobject_records (id, sobject, name, owner_id, fields)
		VALUES (?, ?, ?, ?, ?)
	`, r.ID, r.SObject, r.Name, r.OwnerID, string(fields))
	return err
}

// GetRecord returns sql.ErrNoRows when no record of that type has the id.
func (s *Store) GetRecord(sobject, id string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT id, sobject, COALESCE(name, ''), COALESCE(owner_id, ''), fields, created_at
		FROM sobject_records WHERE sobject = ? AND id = ?
	`, sobject, id)
	return scanRecord(row)
}

// RecordExists reports whether id names a stored record of the given type.
func (s *Store) RecordExists(sobject, id string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM sobject_records WHERE sobject = ? AND id = ?`, sobject, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListRecords(q RecordQuery) ([]*Record, error) {
	query := `SELECT id, sobject, COALESCE(name, ''), COALESCE(owner_id, ''), fields, created_at
	          FROM sobject_records WHERE 1=1`
	args := []any{}

	if q.SObject != "" {
		query += " AND sobject = ?"
		args = append(args, q.SObject)
	}
	if q.OwnerID != "" {
		query += " AND owner_id = ?"
		args = append(args, q.OwnerID)
	}
	if q.NameContains != "" {
		query += ` AND name LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeSQLLike(q.NameContains)+"%")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 200
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?"
	args = append(args, limit, q.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountRecords returns per-SObject record counts.
func (s *Store) CountRecords() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT sobject, COUNT(*) FROM sobject_records GROUP BY sobject`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var sobject string
		var n int
		if err := rows.Scan(&sobject, &n); err != nil {
			return nil, err
		}
		counts[sobject] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	r := &Record{}
	var fields string
	if err := row.Scan(&r.ID, &r.SObject, &r.Name, &r.OwnerID, &fields, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fields), &r.Fields); err != nil {
		return nil, fmt.Errorf("record %s: corrupt fields: %w", r.ID, err)
	}
	return r, nil
}
