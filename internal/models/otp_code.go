package models

import "time"

// OTP purposes. A code issued for one purpose never satisfies another.
const (
	OTPPurposeRegistration  = "REGISTRATION"
	OTPPurposePasswordReset = "PASSWORD_RESET"
)

// OTPCode — one issued verification code. Each send creates a new row;
// a row is consumable exactly once (used flips to true on success and
// never back).
type OTPCode struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Code      string    `json:"-"`
	Purpose   string    `json:"purpose"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

// DeliveryTarget carries the contact points available for a user.
// SMS is preferred whenever a phone number is present.
type DeliveryTarget struct {
	Phone string
	Email string
}

// DeliveryResult — acknowledgment of an attempted code delivery.
type DeliveryResult struct {
	RecordID  int64  `json:"record_id"`
	Channel   string `json:"channel"` // "sms" or "email"
	MessageID string `json:"message_id,omitempty"`
}
