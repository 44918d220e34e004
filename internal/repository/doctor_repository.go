package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/clinic-management/internal/model"
)

// DoctorRepo encapsulates queries against the `doctors` table.
type DoctorRepo struct{ db *sql.DB }

func NewDoctorRepo(db *sql.DB) *DoctorRepo { return &DoctorRepo{db: db} }

const doctorColumns = "id,first_name,last_name,email,phone,specialty,created_at,updated_at"

// Create inserts a doctor and populates the generated ID and timestamps.
func (r *DoctorRepo) Create(ctx context.Context, d *model.Doctor) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO doctors (first_name, last_name, email, phone, specialty) VALUES (?,?,?,?,?)",
		d.FirstName, d.LastName, d.Email, d.Phone, d.Specialty)
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
	d.ID = uint64(id)
	got, err := r.GetByID(ctx, d.ID)
	if err != nil {
		return err
	}
	*d = got
	return nil
}

// GetByID fetches a doctor by id, returning ErrNotFound when absent.
func (r *DoctorRepo) GetByID(ctx context.Context, id uint64) (model.Doctor, error) {
	var d model.Doctor
	err := r.db.QueryRowContext(ctx,
		"SELECT "+doctorColumns+" FROM doctors WHERE id=? LIMIT 1", id).Scan(
		&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.Phone, &d.Specialty,
		&d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Doctor{}, ErrNotFound
	}
	return d, err
}

// List returns all doctors, optionally filtered by specialty.
func (r *DoctorRepo) List(ctx context.Context, specialty string) ([]model.Doctor, error) {
	query := "SELECT " + doctorColumns + " FROM doctors"
	args := []any{}
	if specialty != "" {
		query += " WHERE specialty=?"
		args = append(args, specialty)
	}
	query += " ORDER BY last_name, first_name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Doctor, 0)
	for rows.Next() {
		var d model.Doctor
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.Phone,
			&d.Specialty, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a doctor.
func (r *DoctorRepo) Update(ctx context.Context, d *model.Doctor) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE doctors SET first_name=?, last_name=?, email=?, phone=?, specialty=? WHERE id=?",
		d.FirstName, d.LastName, d.Email, d.Phone, d.Specialty, d.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, d.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a doctor; restricted by foreign keys from appointments and
// prescriptions.
func (r *DoctorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM doctors WHERE id=?", id)
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
