// Package model defines the data structures used throughout the application.
// Plain structs with struct tags controlling their JSON shape. Cross-entity references are ids only;
// resolving a reference always means a follow-up repository lookup.
package model

import "time"

// RoleUser is the role assigned to every account at registration.
// There is no role-management endpoint; elevated roles would be set
// directly in the database by an operator.
const RoleUser = "user"

// User represents a registered account.
//
// PasswordHash holds the full bcrypt output (salt and cost embedded) and is
// never serialized to JSON: the `json:"-"` tag keeps it out of every
// response no matter which handler echoes the struct.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
