package amqp

import (
	"encoding/json"
	"time"
)

// Alert kinds published by the analytics service.
const (
	// AlertCashflowZeroCrossing fires when a sensitivity projection sees
	// the cash balance reach zero within the horizon.
	AlertCashflowZeroCrossing = "cashflow_zero_crossing"
	// AlertEnvelopeOverspend fires when a budget envelope's period-to-date
	// spend exceeds its target.
	AlertEnvelopeOverspend = "envelope_overspend"
)

// AlertMessage is the lightweight event handed to the alert worker.
// Delivery to the user (mail, push, whatever) is the consumer's concern.
type AlertMessage struct {
	Kind        string    `json:"kind"`
	Owner       string    `json:"owner"`
	Subject     string    `json:"subject"`
	AmountCents int64     `json:"amountCents"`
	Month       int       `json:"month,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewAlertMessage creates an alert stamped with the current time.
func NewAlertMessage(kind, owner, subject string, amountCents int64, month int) *AlertMessage {
	return &AlertMessage{
		Kind:        kind,
		Owner:       owner,
		Subject:     subject,
		AmountCents: amountCents,
		Month:       month,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertMessageFromJSON decodes a message from JSON bytes.
func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
