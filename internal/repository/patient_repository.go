package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/clinic-management/internal/model"
)

// PatientRepo encapsulates queries against the `patients` table.
type PatientRepo struct{ db *sql.DB }

func NewPatientRepo(db *sql.DB) *PatientRepo { return &PatientRepo{db: db} }

const patientColumns = "id,first_name,last_name,email,phone,gender,date_of_birth,address,created_at,updated_at"

// Create inserts a patient and populates the generated ID and timestamps.
func (r *PatientRepo) Create(ctx context.Context, p *model.Patient) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO patients (first_name, last_name, email, phone, gender, date_of_birth, address) VALUES (?,?,?,?,?,?,?)",
		p.FirstName, p.LastName, p.Email, p.Phone, p.Gender, p.DateOfBirth, p.Address)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
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

// GetByID fetches a patient by id, returning ErrNotFound when absent.
func (r *PatientRepo) GetByID(ctx context.Context, id uint64) (model.Patient, error) {
	var p model.Patient
	err := r.db.QueryRowContext(ctx,
		"SELECT "+patientColumns+" FROM patients WHERE id=? LIMIT 1", id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Gender,
		&p.DateOfBirth, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Patient{}, ErrNotFound
	}
	return p, err
}

// List returns all patients ordered by last then first name.
func (r *PatientRepo) List(ctx context.Context) ([]model.Patient, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+patientColumns+" FROM patients ORDER BY last_name, first_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Patient, 0)
	for rows.Next() {
		var p model.Patient
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
			&p.Gender, &p.DateOfBirth, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites the mutable profile fields of a patient.
func (r *PatientRepo) Update(ctx context.Context, p *model.Patient) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE patients SET first_name=?, last_name=?, email=?, phone=?, gender=?, date_of_birth=?, address=? WHERE id=?",
		p.FirstName, p.LastName, p.Email, p.Phone, p.Gender, p.DateOfBirth, p.Address, p.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can also mean an identical update; verify existence.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a patient.  Dependent rows (appointments, prescriptions,
// history, lab requests) are guarded by foreign keys; a restricted delete
// surfaces as ErrConflict.
func (r *PatientRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM patients WHERE id=?", id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
