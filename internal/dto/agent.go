package dto

import "github.com/shopspring/decimal"

// CreditCheckParams defines query parameters for a credit check.
type CreditCheckParams struct {
	Amount string `form:"amount" binding:"required"`
}

// SetCreditLimitRequest defines the data needed to change an agent's credit limit.
type SetCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit"`
}
