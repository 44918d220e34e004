package model

import "time"

// Patient represents a row in the `patients` table.  A patient record is a
// clinical profile and is distinct from the login account; staff create and
// maintain these records.
type Patient struct {
    ID          uint64    `json:"id"`
    FirstName   string    `json:"firstName"`
    LastName    string    `json:"lastName"`
    Email       string    `json:"email"`
    Phone       string    `json:"phone"`
    Gender      string    `json:"gender"`
    DateOfBirth time.Time `json:"dateOfBirth"`
    Address     string    `json:"address"`
    CreatedAt   time.Time `json:"createdAt"`
    UpdatedAt   time.Time `json:"updatedAt"`
}

// MedicalHistory is one entry of a patient's medical record: a condition or
// diagnosis with free-text notes, ordered by RecordedAt.
type MedicalHistory struct {
    ID         uint64    `json:"id"`
    PatientID  uint64    `json:"patientId"`
    Condition  string    `json:"condition"`
    Notes      string    `json:"notes"`
    RecordedAt time.Time `json:"recordedAt"`
}
