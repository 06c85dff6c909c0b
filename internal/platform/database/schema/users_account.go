// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns shared by more than one
// repository, so that SQL built with fmt.Sprintf stays in sync with the
// migrations.
package schema

import "strings"

// UserAccountTable represents the 'users.account' table.
type UserAccountTable struct {
	Table            string
	ID               string
	Username         string
	Email            string
	Role             string
	IsStaff          string
	IsActive         string
	ConfirmationCode string
	FirstName        string
	LastName         string
	Bio              string
	CreatedAt        string
	UpdatedAt        string

	// UsernameKey and EmailKey are the unique constraint names.
	UsernameKey string
	EmailKey    string
}

// UserAccount is the schema definition for users.account.
var UserAccount = UserAccountTable{
	Table:            "users.account",
	ID:               "id",
	Username:         "username",
	Email:            "email",
	Role:             "role",
	IsStaff:          "isstaff",
	IsActive:         "isactive",
	ConfirmationCode: "confirmationcode",
	FirstName:        "firstname",
	LastName:         "lastname",
	Bio:              "bio",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	UsernameKey:      "account_username_key",
	EmailKey:         "account_email_key",
}

// Columns returns the column names in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Role, t.IsStaff, t.IsActive,
		t.ConfirmationCode, t.FirstName, t.LastName, t.Bio,
		t.CreatedAt, t.UpdatedAt,
	}
}

// SelectList returns [UserAccountTable.Columns] joined for a SELECT or RETURNING clause.
func (t UserAccountTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
