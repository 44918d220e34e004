// Package queue defines message payloads exchanged over the message broker.
package queue

// AppointmentBookedEvent is published when an appointment is created.  It
// carries enough information for downstream consumers to notify the patient
// or feed reporting without querying the primary database.
type AppointmentBookedEvent struct {
    AppointmentID uint64 `json:"appointment_id"`
    Reference     string `json:"reference"`
    PatientID     uint64 `json:"patient_id"`
    PatientName   string `json:"patient_name"`
    DoctorID      uint64 `json:"doctor_id"`
    DoctorName    string `json:"doctor_name"`
    Specialty     string `json:"specialty"`
    ScheduledAt   string `json:"scheduled_at"`
    BookedAt      string `json:"booked_at"`
}
