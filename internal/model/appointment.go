package model

import "time"

// Appointment statuses.  SCHEDULED is the initial state; COMPLETED and
// CANCELLED are terminal.
const (
    AppointmentScheduled = "SCHEDULED"
    AppointmentCompleted = "COMPLETED"
    AppointmentCancelled = "CANCELLED"
)

// Appointment links a patient and a doctor at a point in time.  Reference is
// a UUID handed to the patient for front-desk lookup.
type Appointment struct {
    ID          uint64    `json:"id"`
    Reference   string    `json:"reference"`
    PatientID   uint64    `json:"patientId"`
    DoctorID    uint64    `json:"doctorId"`
    ScheduledAt time.Time `json:"scheduledAt"`
    Status      string    `json:"status"`
    Notes       string    `json:"notes"`
    CreatedAt   time.Time `json:"createdAt"`
    UpdatedAt   time.Time `json:"updatedAt"`
}
