package command

import "time"

// ConfirmCashSubmissionCommand confirms a pending cash handover
type ConfirmCashSubmissionCommand struct {
	OrganizationID string `json:"organization_id"`
	EventID        string `json:"event_id"`
	SubmissionID   string `json:"submission_id"`
	CallerID       string `json:"-"`
}

// ConfirmCashSubmissionResponse echoes the settled submission
type ConfirmCashSubmissionResponse struct {
	SubmissionID string    `json:"submission_id"`
	Amount       int64     `json:"amount"`
	Status       string    `json:"status"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}

// ConfirmTransactionCommand confirms a pending payment
type ConfirmTransactionCommand struct {
	OrganizationID string `json:"organization_id"`
	EventID        string `json:"event_id"`
	TransactionID  string `json:"transaction_id"`
	CallerID       string `json:"-"`
}

// ConfirmTransactionResponse echoes the settled transaction
type ConfirmTransactionResponse struct {
	TransactionID string    `json:"transaction_id"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	ActingRole    string    `json:"acting_role"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// CancelTransactionCommand cancels a pending payment
type CancelTransactionCommand struct {
	OrganizationID string `json:"organization_id"`
	EventID        string `json:"event_id"`
	TransactionID  string `json:"transaction_id"`
	Reason         string `json:"reason"`
	CallerID       string `json:"-"`
}

// CancelTransactionResponse echoes the cancelled transaction
type CancelTransactionResponse struct {
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	ActingRole    string    `json:"acting_role"`
	CancelledAt   time.Time `json:"cancelled_at"`
}

// SetMerchantStatusCommand moves a merchant to a target active state
type SetMerchantStatusCommand struct {
	OrganizationID string `json:"organization_id"`
	EventID        string `json:"event_id"`
	MerchantID     string `json:"merchant_id"`
	IsActive       bool   `json:"is_active"`
	CallerID       string `json:"-"`
}

// SetMerchantStatusResponse reports whether a write happened
type SetMerchantStatusResponse struct {
	MerchantID    string `json:"merchant_id"`
	IsActive      bool   `json:"is_active"`
	StatusChanged bool   `json:"statusChanged"`
}

// ReservePointCardCommand holds card funds for a new pending transaction
type ReservePointCardCommand struct {
	OrganizationID string `json:"organization_id"`
	EventID        string `json:"event_id"`
	CardID         string `json:"card_id"`
	MerchantID     string `json:"merchant_id"`
	Amount         int64  `json:"amount"`
	CallerID       string `json:"-"`
}

// ReservePointCardResponse reports the created transaction and remaining
// availability
type ReservePointCardResponse struct {
	TransactionID string `json:"transaction_id"`
	CardID        string `json:"card_id"`
	Reserved      int64  `json:"reserved"`
	Available     int64  `json:"available"`
}

// LoginCommand authenticates by email and password
type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
