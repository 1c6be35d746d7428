package models

// OutboundMessage carries every alert raised by one source message, they are published in one transaction.
type OutboundMessage struct {
	TransactionID string
	Alerts        []*ExpiryAlert
	SourceMessage PubSubMessage
}

type PubSubMessage interface {
	Ack()
	Nack()
}
