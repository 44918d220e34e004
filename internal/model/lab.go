package model

import "time"

// Lab request statuses.  A request starts PENDING and becomes COMPLETED when
// a report is attached.
const (
    LabPending   = "PENDING"
    LabCompleted = "COMPLETED"
)

// LabRequest is a test ordered by a doctor for a patient.  Reference is a
// UUID printed on the sample label.
type LabRequest struct {
    ID          uint64    `json:"id"`
    Reference   string    `json:"reference"`
    PatientID   uint64    `json:"patientId"`
    DoctorID    uint64    `json:"doctorId"`
    TestType    string    `json:"testType"`
    Status      string    `json:"status"`
    RequestedAt time.Time `json:"requestedAt"`
}

// LabReport is the outcome of a lab request.  At most one report exists per
// request; attaching it flips the request to COMPLETED.
type LabReport struct {
    ID         uint64    `json:"id"`
    RequestID  uint64    `json:"requestId"`
    Findings   string    `json:"findings"`
    ResultData string    `json:"resultData"`
    ReportedAt time.Time `json:"reportedAt"`
}
