package models

import (
	"time"
)

const (
	AlertTypeIdExpiringSoon = "ID_EXPIRING_SOON"
	AlertSource             = "FORM_RESPONSE_ADAPTER"
	AlertChannel            = "GOOGLE_FORMS"
)

type AlertEvent struct {
	Type          string     `json:"type" validate:"required"`
	Source        string     `json:"source" validate:"required"`
	Channel       string     `json:"channel" validate:"required"`
	DateTime      *time.Time `json:"dateTime" validate:"required"`
	TransactionID string     `json:"transactionId" validate:"required"`
}

type ExpiryPayload struct {
	FormID      string    `json:"formId"`
	ResponseID  string    `json:"responseId"`
	IdExpiry    string    `json:"idExpiry"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type AlertPayload struct {
	Expiry *ExpiryPayload `json:"expiry,omitempty"`
}

type ExpiryAlert struct {
	Event   AlertEvent   `json:"event"`
	Payload AlertPayload `json:"payload"`
}
