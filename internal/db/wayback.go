package db

import (
	"database/sql"
	"fmt"

	"github.com/thesavant42/urlrevive/internal/models"
)

// InsertSnapshots stores the snapshot records fetched for inputURL.
// Uses INSERT OR IGNORE to skip captures already stored (same original + timestamp).
// Returns the number of records actually inserted
func (db *DB) InsertSnapshots(records []models.SnapshotRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertSnapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, r := range records {
		result, err := stmt.Exec(r.InputURL, r.Original, r.Timestamp, nullable(r.StatusCode), nullable(r.MimeType), r.PlaybackURL)
		if err != nil {
			return 0, fmt.Errorf("failed to insert snapshot %s/%s: %w", r.Timestamp, r.Original, err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// ListSnapshots retrieves all stored snapshots for an input URL, oldest first
func (db *DB) ListSnapshots(inputURL string) ([]models.SnapshotRecord, error) {
	rows, err := db.conn.Query(selectSnapshots, inputURL)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var records []models.SnapshotRecord
	for rows.Next() {
		var r models.SnapshotRecord
		var statusCode, mimeType sql.NullString
		var fetchedAt string

		if err := rows.Scan(
			&r.ID, &r.InputURL, &r.Original, &r.Timestamp, &statusCode, &mimeType, &r.PlaybackURL, &fetchedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		r.StatusCode = statusCode.String
		r.MimeType = mimeType.String
		r.FetchedAt, _ = parseTimestamp(fetchedAt)

		records = append(records, r)
	}

	return records, rows.Err()
}

// InsertArchives stores discovered archive identifiers, skipping known ones
func (db *DB) InsertArchives(archives []string) (int, error) {
	if len(archives) == 0 {
		return 0, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, a := range archives {
		result, err := tx.Exec(insertArchive, a)
		if err != nil {
			return 0, fmt.Errorf("failed to insert archive %s: %w", a, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// ListArchives returns every stored archive identifier
func (db *DB) ListArchives() ([]models.ArchiveRecord, error) {
	rows, err := db.conn.Query(selectArchives)
	if err != nil {
		return nil, fmt.Errorf("failed to query archives: %w", err)
	}
	defer rows.Close()

	var archives []models.ArchiveRecord
	for rows.Next() {
		var a models.ArchiveRecord
		var discoveredAt string
		if err := rows.Scan(&a.ID, &a.Archive, &discoveredAt); err != nil {
			return nil, fmt.Errorf("failed to scan archive: %w", err)
		}
		a.DiscoveredAt, _ = parseTimestamp(discoveredAt)
		archives = append(archives, a)
	}

	return archives, rows.Err()
}

// nullable stores empty strings as NULL
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
