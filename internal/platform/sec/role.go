// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// Role is the closed set of authorization levels an account can hold.
//
// The zero value is not a valid role; accounts always carry one of the
// declared constants. Ownership is never derived from a role.
type Role uint8

const (
	// Default role for self-registered accounts
	RoleUser Role = iota + 1

	// Can edit or remove any review and comment
	RoleModerator

	// Unrestricted catalogue and account management
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleUser:      "user",
	RoleModerator: "moderator",
	RoleAdmin:     "admin",
}

// String returns the wire name of the role ("user", "moderator", "admin").
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole maps a wire name back to its [Role].
func ParseRole(name string) (Role, error) {
	for role, roleName := range roleNames {
		if roleName == name {
			return role, nil
		}
	}
	return 0, fmt.Errorf("sec: unknown role %q", name)
}

// RoleNames lists the wire names of every role, lowest privilege first.
func RoleNames() []string {
	return []string{RoleUser.String(), RoleModerator.String(), RoleAdmin.String()}
}

// MarshalText implements [encoding.TextMarshaler] so roles travel as strings in JSON.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("sec: cannot marshal invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// # Capabilities

// CanModerate reports whether the role may act on content it does not own.
func CanModerate(role Role) bool {
	return role == RoleModerator || role == RoleAdmin
}

// CanAdminister reports whether an account may manage users and the catalogue.
//
// Staff accounts are operator accounts created outside the role system and
// administer regardless of their stored role.
func CanAdminister(role Role, staff bool) bool {
	return staff || role == RoleAdmin
}
