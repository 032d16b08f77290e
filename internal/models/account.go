package models

import "time"

// AccountType is the stored form of an account type.
type AccountType string

// Account is a row of the accounts table.
type Account struct {
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	AccountType   AccountType `json:"accountType"`
	NormalBalance string      `json:"normalBalance"`
	CreatedAt     time.Time   `json:"createdAt"`
}
