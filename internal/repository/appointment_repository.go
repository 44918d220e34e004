package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/clinic-management/internal/model"
)

// AppointmentRepo encapsulates queries against the `appointments` table.
type AppointmentRepo struct{ db *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

const appointmentColumns = "id,reference,patient_id,doctor_id,scheduled_at,status,notes,created_at,updated_at"

// Create inserts an appointment in SCHEDULED state.  Foreign keys validate
// the patient and doctor references.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO appointments (reference, patient_id, doctor_id, scheduled_at, status, notes) VALUES (?,?,?,?,?,?)",
		a.Reference, a.PatientID, a.DoctorID, a.ScheduledAt, model.AppointmentScheduled, a.Notes)
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
	a.ID = uint64(id)
	got, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = got
	return nil
}

// GetByID fetches an appointment by id, returning ErrNotFound when absent.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (model.Appointment, error) {
	var a model.Appointment
	err := r.db.QueryRowContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments WHERE id=? LIMIT 1", id).Scan(
		&a.ID, &a.Reference, &a.PatientID, &a.DoctorID, &a.ScheduledAt,
		&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Appointment{}, ErrNotFound
	}
	return a, err
}

// List returns appointments filtered by optional patient and doctor ids,
// newest first.
func (r *AppointmentRepo) List(ctx context.Context, patientID, doctorID uint64) ([]model.Appointment, error) {
	query := "SELECT " + appointmentColumns + " FROM appointments WHERE 1=1"
	args := []any{}
	if patientID != 0 {
		query += " AND patient_id=?"
		args = append(args, patientID)
	}
	if doctorID != 0 {
		query += " AND doctor_id=?"
		args = append(args, doctorID)
	}
	query += " ORDER BY scheduled_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Appointment, 0)
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.Reference, &a.PatientID, &a.DoctorID,
			&a.ScheduledAt, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateStatus moves a SCHEDULED appointment to COMPLETED or CANCELLED.  The
// status guard in the WHERE clause keeps terminal states terminal: updating a
// finished appointment returns ErrConflict.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE appointments SET status=? WHERE id=? AND status=?",
		status, id, model.AppointmentScheduled)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// Reschedule updates the time and notes of a SCHEDULED appointment.
func (r *AppointmentRepo) Reschedule(ctx context.Context, a *model.Appointment) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE appointments SET scheduled_at=?, notes=? WHERE id=? AND status=?",
		a.ScheduledAt, a.Notes, a.ID, model.AppointmentScheduled)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
		return ErrConflict
	}
	got, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = got
	return nil
}
