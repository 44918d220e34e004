package model

import "time"

// Doctor represents a row in the `doctors` table.
type Doctor struct {
    ID        uint64    `json:"id"`
    FirstName string    `json:"firstName"`
    LastName  string    `json:"lastName"`
    Email     string    `json:"email"`
    Phone     string    `json:"phone"`
    Specialty string    `json:"specialty"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}
