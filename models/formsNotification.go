package models

import (
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/validate"
)

const (
	EventTypeResponses = "RESPONSES"
	EventTypeSchema    = "SCHEMA"
)

type InboundMessage interface {
	GetTransactionId() string
}

// FormsNotification is a Google Forms watch notification, it arrives as Pub/Sub message attributes.
type FormsNotification struct {
	MessageId string `validate:"required"`
	FormId    string `validate:"required"`
	WatchId   string
	EventType string `validate:"required,oneof=RESPONSES SCHEMA"`
}

func NewFormsNotification(messageId string, attributes map[string]string) FormsNotification {
	return FormsNotification{
		MessageId: messageId,
		FormId:    attributes["formId"],
		WatchId:   attributes["watchId"],
		EventType: attributes["eventType"],
	}
}

func (n FormsNotification) GetTransactionId() string {
	return n.MessageId
}

func (n FormsNotification) Validate() error {
	return validate.Validate.Struct(n)
}
