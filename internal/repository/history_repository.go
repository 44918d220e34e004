package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/clinic-management/internal/model"
)

// HistoryRepo encapsulates queries against the `medical_histories` table.
type HistoryRepo struct{ db *sql.DB }

func NewHistoryRepo(db *sql.DB) *HistoryRepo { return &HistoryRepo{db: db} }

// Add appends an entry to a patient's medical record.
func (r *HistoryRepo) Add(ctx context.Context, h *model.MedicalHistory) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO medical_histories (patient_id, med_condition, notes) VALUES (?,?,?)",
		h.PatientID, h.Condition, h.Notes)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT recorded_at FROM medical_histories WHERE id=?", h.ID).Scan(&h.RecordedAt)
}

// ListByPatient returns a patient's history entries, newest first.
func (r *HistoryRepo) ListByPatient(ctx context.Context, patientID uint64) ([]model.MedicalHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,patient_id,med_condition,notes,recorded_at FROM medical_histories WHERE patient_id=? ORDER BY recorded_at DESC",
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MedicalHistory, 0)
	for rows.Next() {
		var h model.MedicalHistory
		if err := rows.Scan(&h.ID, &h.PatientID, &h.Condition, &h.Notes, &h.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
