package model

import "time"

// Prescription is medication prescribed by a doctor for a patient, optionally
// tied to the appointment it was issued during.
type Prescription struct {
    ID            uint64    `json:"id"`
    PatientID     uint64    `json:"patientId"`
    DoctorID      uint64    `json:"doctorId"`
    AppointmentID *uint64   `json:"appointmentId,omitempty"`
    Medication    string    `json:"medication"`
    Dosage        string    `json:"dosage"`
    Instructions  string    `json:"instructions"`
    PrescribedAt  time.Time `json:"prescribedAt"`
}
