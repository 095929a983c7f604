package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/mylabvault/labvault/internal/common"
	"github.com/mylabvault/labvault/internal/entity"
)

type importLogRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

func NewImportLogRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) ImportLogRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &importLogRepository{db: db, dialect: dialect, logger: logger}
}

func (r *importLogRepository) FindByHash(ctx context.Context, contentHash string) (*entity.PriorImport, error) {
	query := rebind(r.dialect, `SELECT id, created_at, tests_imported FROM import_log
		WHERE content_hash = ? ORDER BY created_at DESC LIMIT 1`)
	var p entity.PriorImport
	var created any
	err := r.db.QueryRowContext(ctx, query, contentHash).Scan(&p.ImportID, &created, &p.TestsImported)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to look up import by hash", "error", err)
		return nil, common.WrapError(common.ErrStorageUnavailable, err.Error())
	}
	p.ImportedAt = scanTimestamp(created)
	return &p, nil
}

func (r *importLogRepository) Record(ctx context.Context, session *entity.ImportSession) (int64, error) {
	vendor := sql.Null[string]{}
	if session.VendorDetected != nil {
		vendor = sql.Null[string]{V: *session.VendorDetected, Valid: true}
	}
	if r.dialect == DialectPostgres {
		query := rebind(r.dialect, `INSERT INTO import_log
			(session_id, source_ref, content_hash, patient_id, vendor, candidate_count, tests_imported, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?) RETURNING id`)
		var id int64
		err := r.db.QueryRowContext(ctx, query,
			session.ID.String(), session.SourceRef, session.ContentHash, session.PatientID,
			vendor, len(session.Candidates), string(session.Status), time.Now().UTC().Format(time.RFC3339),
		).Scan(&id)
		if err != nil {
			r.logger.Error("failed to record import", "session_id", session.ID, "error", err)
			return 0, common.WrapError(common.ErrStorageUnavailable, err.Error())
		}
		return id, nil
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO import_log
		(session_id, source_ref, content_hash, patient_id, vendor, candidate_count, tests_imported, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		session.ID.String(), session.SourceRef, session.ContentHash, session.PatientID,
		vendor, len(session.Candidates), string(session.Status), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Error("failed to record import", "session_id", session.ID, "error", err)
		return 0, common.WrapError(common.ErrStorageUnavailable, err.Error())
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, common.WrapError(common.ErrStorageUnavailable, err.Error())
	}
	return id, nil
}

// scanTimestamp converts a driver-dependent timestamp value. pgx returns
// time.Time, the sqlite driver returns the stored text.
func scanTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed.UTC()
		}
	case []byte:
		return scanTimestamp(string(t))
	}
	return time.Time{}
}

func (r *importLogRepository) MarkCommitted(ctx context.Context, importID int64, testsImported int) error {
	query := rebind(r.dialect, `UPDATE import_log SET status = ?, tests_imported = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, "COMMITTED", testsImported, importID); err != nil {
		r.logger.Error("failed to mark import committed", "import_id", importID, "error", err)
		return common.WrapError(common.ErrStorageUnavailable, err.Error())
	}
	return nil
}
