package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/clinic-management/internal/model"
)

// LabRepo encapsulates queries against `lab_requests` and `lab_reports`.
type LabRepo struct{ db *sql.DB }

func NewLabRepo(db *sql.DB) *LabRepo { return &LabRepo{db: db} }

const labRequestColumns = "id,reference,patient_id,doctor_id,test_type,status,requested_at"

// CreateRequest inserts a lab request in PENDING state.
func (r *LabRepo) CreateRequest(ctx context.Context, lr *model.LabRequest) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO lab_requests (reference, patient_id, doctor_id, test_type, status) VALUES (?,?,?,?,?)",
		lr.Reference, lr.PatientID, lr.DoctorID, lr.TestType, model.LabPending)
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
	lr.ID = uint64(id)
	got, err := r.GetRequest(ctx, lr.ID)
	if err != nil {
		return err
	}
	*lr = got
	return nil
}

// GetRequest fetches a lab request by id.
func (r *LabRepo) GetRequest(ctx context.Context, id uint64) (model.LabRequest, error) {
	var lr model.LabRequest
	err := r.db.QueryRowContext(ctx,
		"SELECT "+labRequestColumns+" FROM lab_requests WHERE id=? LIMIT 1", id).Scan(
		&lr.ID, &lr.Reference, &lr.PatientID, &lr.DoctorID, &lr.TestType,
		&lr.Status, &lr.RequestedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LabRequest{}, ErrNotFound
	}
	return lr, err
}

// ListRequests returns lab requests, optionally filtered by patient and
// status, newest first.
func (r *LabRepo) ListRequests(ctx context.Context, patientID uint64, status string) ([]model.LabRequest, error) {
	query := "SELECT " + labRequestColumns + " FROM lab_requests WHERE 1=1"
	args := []any{}
	if patientID != 0 {
		query += " AND patient_id=?"
		args = append(args, patientID)
	}
	if status != "" {
		query += " AND status=?"
		args = append(args, status)
	}
	query += " ORDER BY requested_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.LabRequest, 0)
	for rows.Next() {
		var lr model.LabRequest
		if err := rows.Scan(&lr.ID, &lr.Reference, &lr.PatientID, &lr.DoctorID,
			&lr.TestType, &lr.Status, &lr.RequestedAt); err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}

// AttachReport stores the report for a PENDING request and flips the request
// to COMPLETED in one transaction.  A second report for the same request
// returns ErrConflict.
func (r *LabRepo) AttachReport(ctx context.Context, rep *model.LabReport) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE lab_requests SET status=? WHERE id=? AND status=?",
		model.LabCompleted, rep.RequestID, model.LabPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM lab_requests WHERE id=?", rep.RequestID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}

	ins, err := tx.ExecContext(ctx,
		"INSERT INTO lab_reports (request_id, findings, result_data) VALUES (?,?,?)",
		rep.RequestID, rep.Findings, rep.ResultData)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return err
	}
	rep.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return err
	}
	got, err := r.GetReport(ctx, rep.RequestID)
	if err != nil {
		return err
	}
	*rep = got
	return nil
}

// GetReport fetches the report attached to a request, if any.
func (r *LabRepo) GetReport(ctx context.Context, requestID uint64) (model.LabReport, error) {
	var rep model.LabReport
	err := r.db.QueryRowContext(ctx,
		"SELECT id,request_id,findings,result_data,reported_at FROM lab_reports WHERE request_id=? LIMIT 1",
		requestID).Scan(&rep.ID, &rep.RequestID, &rep.Findings, &rep.ResultData, &rep.ReportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LabReport{}, ErrNotFound
	}
	return rep, err
}
