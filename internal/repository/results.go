package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/mylabvault/labvault/internal/common"
	"github.com/mylabvault/labvault/internal/entity"
)

type resultRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
}

func NewResultRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) ResultRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &resultRepository{db: db, dialect: dialect, logger: logger}
}

func (r *resultRepository) FindExisting(ctx context.Context, patientID int64, nameKey string, date *time.Time, window time.Duration) ([]entity.StoredResult, error) {
	query := `SELECT id, patient_id, test_name, value_numeric, value_text, unit, collection_date, import_key
		FROM lab_results WHERE patient_id = ? AND LOWER(test_name) = ?`
	args := []any{patientID, nameKey}
	if date != nil {
		query += ` AND collection_date BETWEEN ? AND ?`
		args = append(args, date.Add(-window).Format("2006-01-02"), date.Add(window).Format("2006-01-02"))
	} else {
		query += ` AND collection_date IS NULL`
	}

	rows, err := r.db.QueryContext(ctx, rebind(r.dialect, query), args...)
	if err != nil {
		r.logger.Error("failed to query existing results", "patient_id", patientID, "error", err)
		return nil, common.WrapError(common.ErrStorageUnavailable, err.Error())
	}
	defer rows.Close()

	var out []entity.StoredResult
	for rows.Next() {
		var s entity.StoredResult
		var date any
		if err := rows.Scan(&s.ID, &s.PatientID, &s.TestName, &s.ValueNumeric, &s.ValueText, &s.Unit, &date, &s.ImportKey); err != nil {
			return nil, common.WrapError(common.ErrStorageUnavailable, err.Error())
		}
		s.CollectionDate = scanDate(date)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(common.ErrStorageUnavailable, err.Error())
	}
	return out, nil
}

// PersistResults writes all candidates in one transaction. Refs are
// all-or-nothing: on any error the transaction rolls back and no refs are
// returned, so callers never record a row the rollback erased. The
// import-key upsert makes a full retry idempotent.
func (r *resultRepository) PersistResults(ctx context.Context, patientID int64, candidates []entity.CandidateResult) ([]entity.StoredRef, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.WrapError(common.ErrStorageUnavailable, err.Error())
	}
	defer tx.Rollback()

	insert := rebind(r.dialect, `INSERT INTO lab_results
		(patient_id, test_name, value_numeric, value_text, unit, reference_range, flag, collection_date, provider, panel, confidence, import_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (import_key) DO NOTHING`)
	lookup := rebind(r.dialect, `SELECT id FROM lab_results WHERE import_key = ?`)

	refs := make([]entity.StoredRef, 0, len(candidates))
	now := time.Now().UTC()
	for _, c := range candidates {
		key := c.ImportKey(patientID)
		name := c.TestNameRaw
		if c.TestNameCanonical != nil {
			name = *c.TestNameCanonical
		}
		var valueText *string
		if c.ValueQualitative != nil {
			valueText = c.ValueQualitative
		} else if c.ValueNumeric == nil {
			v := c.ValueRaw
			valueText = &v
		}
		var rangeText *string
		if c.ReferenceRange != nil {
			rangeText = &c.ReferenceRange.Text
		}
		var dateStr *string
		if c.CollectionDate != nil {
			s := c.CollectionDate.Format("2006-01-02")
			dateStr = &s
		}

		if _, err := tx.ExecContext(ctx, insert,
			patientID, name, c.ValueNumeric, valueText, c.Unit, rangeText,
			string(c.Flag), dateStr, c.ProviderHint, c.PanelHint, c.Confidence, key, now,
		); err != nil {
			r.logger.Error("failed to persist result", "import_key", key, "error", err)
			return nil, common.WrapError(common.ErrStorageUnavailable, err.Error())
		}
		var id int64
		if err := tx.QueryRowContext(ctx, lookup, key).Scan(&id); err != nil {
			return nil, common.WrapError(common.ErrStorageUnavailable, err.Error())
		}
		refs = append(refs, entity.StoredRef{ID: id, ImportKey: key})
	}
	if err := tx.Commit(); err != nil {
		return nil, common.WrapError(common.ErrStorageUnavailable, err.Error())
	}
	return refs, nil
}

// scanDate normalizes a date column value: sqlite hands back the stored
// text, postgres a time.Time.
func scanDate(v any) *time.Time {
	switch d := v.(type) {
	case time.Time:
		t := d.UTC()
		return &t
	case string:
		if len(d) >= 10 {
			if t, err := time.Parse("2006-01-02", d[:10]); err == nil {
				return &t
			}
		}
	case []byte:
		return scanDate(string(d))
	}
	return nil
}
