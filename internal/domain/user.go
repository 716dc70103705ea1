package domain

import "time"

// User is a portal account (staff side).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	SubRole      SubRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionKey is a secondary credential an admin issues to a non-admin user.
type SessionKey struct {
	ID         string
	UserEmail  string
	KeyHash    string
	CreatedBy  string
	ExpiresAt  time.Time
	LastUsedAt *time.Time
	Revoked    bool
	CreatedAt  time.Time
}

// OTPTrust records a verified admin OTP that bypasses the next prompts.
type OTPTrust struct {
	Email      string
	TrustToken string
	VerifiedAt time.Time
}

// DirectoryEntry is a user as listed in the board's role directories.
type DirectoryEntry struct {
	Email   string
	Name    string
	Role    Role
	SubRole SubRole
}

// RoleDirectory groups users the board needs for mentions and assignment.
type RoleDirectory struct {
	Mentionable     []DirectoryEntry
	CSMs            []DirectoryEntry
	ResumeMakers    []DirectoryEntry
	LinkedInMembers []DirectoryEntry
	TeamLeads       []DirectoryEntry
}
