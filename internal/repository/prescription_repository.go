package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/clinic-management/internal/model"
)

// PrescriptionRepo encapsulates queries against the `prescriptions` table.
type PrescriptionRepo struct{ db *sql.DB }

func NewPrescriptionRepo(db *sql.DB) *PrescriptionRepo { return &PrescriptionRepo{db: db} }

const prescriptionColumns = "id,patient_id,doctor_id,appointment_id,medication,dosage,instructions,prescribed_at"

// Create inserts a prescription.  AppointmentID may be nil for walk-in
// prescriptions issued outside an appointment.
func (r *PrescriptionRepo) Create(ctx context.Context, p *model.Prescription) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO prescriptions (patient_id, doctor_id, appointment_id, medication, dosage, instructions) VALUES (?,?,?,?,?,?)",
		p.PatientID, p.DoctorID, p.AppointmentID, p.Medication, p.Dosage, p.Instructions)
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
	p.ID = uint64(id)
	got, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = got
	return nil
}

// GetByID fetches a prescription by id, returning ErrNotFound when absent.
func (r *PrescriptionRepo) GetByID(ctx context.Context, id uint64) (model.Prescription, error) {
	var p model.Prescription
	var apptID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT "+prescriptionColumns+" FROM prescriptions WHERE id=? LIMIT 1", id).Scan(
		&p.ID, &p.PatientID, &p.DoctorID, &apptID, &p.Medication,
		&p.Dosage, &p.Instructions, &p.PrescribedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Prescription{}, ErrNotFound
	}
	if apptID.Valid {
		v := uint64(apptID.Int64)
		p.AppointmentID = &v
	}
	return p, err
}

// ListByPatient returns a patient's prescriptions, newest first.
func (r *PrescriptionRepo) ListByPatient(ctx context.Context, patientID uint64) ([]model.Prescription, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+prescriptionColumns+" FROM prescriptions WHERE patient_id=? ORDER BY prescribed_at DESC",
		patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Prescription, 0)
	for rows.Next() {
		var p model.Prescription
		var apptID sql.NullInt64
		if err := rows.Scan(&p.ID, &p.PatientID, &p.DoctorID, &apptID,
			&p.Medication, &p.Dosage, &p.Instructions, &p.PrescribedAt); err != nil {
			return nil, err
		}
		if apptID.Valid {
			v := uint64(apptID.Int64)
			p.AppointmentID = &v
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
