package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aqall/publisher/internal/directory"
)

var _ directory.Store = (*DB)(nil)

const subdomainColumns = "id, subdomain, owner_id, website_id, status, created_at, updated_at"

// claimQuery inserts a pending claim or takes over the existing row when the
// owner matches or the previous claim failed. RETURNING yields no row when
// the WHERE clause rejects the update, which is how a taken name shows up.
const claimQuery = `
	INSERT INTO subdomains (` + subdomainColumns + `)
	VALUES (?, ?, ?, ?, 'pending', ?, ?)
	ON CONFLICT(subdomain) DO UPDATE SET
		id = CASE WHEN subdomains.owner_id = excluded.owner_id
			THEN subdomains.id ELSE excluded.id END,
		created_at = CASE WHEN subdomains.owner_id = excluded.owner_id
			THEN subdomains.created_at ELSE excluded.created_at END,
		owner_id = excluded.owner_id,
		website_id = excluded.website_id,
		status = 'pending',
		updated_at = excluded.updated_at
	WHERE subdomains.owner_id = excluded.owner_id OR subdomains.status = 'failed'
	RETURNING ` + subdomainColumns

// ClaimSubdomain implements directory.Store.
func (db *DB) ClaimSubdomain(ctx context.Context, rec directory.Record) (directory.Record, bool, error) {
	row := db.conn.QueryRowContext(ctx, claimQuery,
		rec.ID, rec.Subdomain, rec.OwnerID, rec.WebsiteID,
		toUnix(rec.CreatedAt), toUnix(rec.UpdatedAt),
	)
	out, err := scanSubdomain(row)
	if errors.Is(err, directory.ErrNoRecord) {
		return directory.Record{}, false, nil
	}
	if err != nil {
		return directory.Record{}, false, fmt.Errorf("failed to claim subdomain %s: %w", rec.Subdomain, err)
	}
	return out, true, nil
}

// GetSubdomain implements directory.Store.
func (db *DB) GetSubdomain(ctx context.Context, name string) (directory.Record, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+subdomainColumns+" FROM subdomains WHERE subdomain = ?", name)
	return scanSubdomain(row)
}

// GetSubdomainByID implements directory.Store.
func (db *DB) GetSubdomainByID(ctx context.Context, id string) (directory.Record, error) {
	row := db.conn.QueryRowContext(ctx,
		"SELECT "+subdomainColumns+" FROM subdomains WHERE id = ?", id)
	return scanSubdomain(row)
}

// SetSubdomainStatus implements directory.Store.
func (db *DB) SetSubdomainStatus(ctx context.Context, id string, status directory.Status, at time.Time) (directory.Record, error) {
	row := db.conn.QueryRowContext(ctx, `
		UPDATE subdomains SET status = ?, updated_at = ?
		WHERE id = ? AND status <> ?
		RETURNING `+subdomainColumns,
		string(status), toUnix(at), id, string(status))
	rec, err := scanSubdomain(row)
	if errors.Is(err, directory.ErrNoRecord) {
		// Either already in that status or gone.
		return db.GetSubdomainByID(ctx, id)
	}
	if err != nil {
		return directory.Record{}, fmt.Errorf("failed to set status of %s: %w", id, err)
	}
	return rec, nil
}

// DeleteSubdomain implements directory.Store.
func (db *DB) DeleteSubdomain(ctx context.Context, id, ownerID string) error {
	res, err := db.conn.ExecContext(ctx,
		"DELETE FROM subdomains WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete subdomain %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete subdomain %s: %w", id, err)
	}
	if n == 0 {
		return directory.ErrNoRecord
	}
	return nil
}

// ListSubdomainsByOwner implements directory.Store.
func (db *DB) ListSubdomainsByOwner(ctx context.Context, ownerID string) ([]directory.Record, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+subdomainColumns+`
		FROM subdomains
		WHERE owner_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subdomains: %w", err)
	}
	defer rows.Close()

	var out []directory.Record
	for rows.Next() {
		rec, err := scanSubdomain(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subdomains: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubdomain(s scanner) (directory.Record, error) {
	var (
		rec                  directory.Record
		status               string
		createdAt, updatedAt int64
	)
	err := s.Scan(&rec.ID, &rec.Subdomain, &rec.OwnerID, &rec.WebsiteID, &status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return directory.Record{}, directory.ErrNoRecord
	}
	if err != nil {
		return directory.Record{}, fmt.Errorf("failed to scan subdomain: %w", err)
	}
	rec.Status = directory.Status(status)
	rec.CreatedAt = fromUnix(createdAt)
	rec.UpdatedAt = fromUnix(updatedAt)
	return rec, nil
}

// Timestamps are stored as Unix nanoseconds so ordering is exact.
func toUnix(t time.Time) int64 { return t.UTC().UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }
