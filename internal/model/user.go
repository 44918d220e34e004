package model

import "time"

// Roles recognized by the API.  Registration defaults to RolePatient; staff
// roles are granted by an administrator.
const (
    RoleAdmin   = "ADMIN"
    RoleDoctor  = "DOCTOR"
    RolePatient = "PATIENT"
)

// User represents a row in the `users` table.  PasswordHash holds the bcrypt
// digest; the plain password is never stored.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email (unique, lowercased)
    PasswordHash string    // users.password_hash
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    Role         string    // users.role (ADMIN | DOCTOR | PATIENT)
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored.  A token is active while
// RevokedAt is null and ExpiresAt is in the future; rotation or logout moves
// it to revoked exactly once and there is no state beyond revoked.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
