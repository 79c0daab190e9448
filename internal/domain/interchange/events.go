// Package interchange implements the event-sourced interchange aggregate.
package interchange

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drfirst/go-x12/internal/x12"
)

// AggregateType names interchange streams in the event store
const AggregateType = "Interchange"

// EventType represents the type of domain event
type EventType string

const (
	EventInterchangeReceived   EventType = "InterchangeReceived"
	EventInterchangeParsed     EventType = "InterchangeParsed"
	EventInterchangeTranslated EventType = "InterchangeTranslated"
	EventInterchangeRejected   EventType = "InterchangeRejected"
)

// Event represents a domain event
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     EventType       `json:"event_type"`
	EventData     json.RawMessage `json:"event_data"`
	Version       int             `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	SenderID      string          `json:"sender_id,omitempty"`
	ControlNumber string          `json:"control_number,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// NewEvent creates a new event
func NewEvent(aggregateID string, eventType EventType, data any) (*Event, error) {
	eventData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: AggregateType,
		EventType:     eventType,
		EventData:     eventData,
		Timestamp:     time.Now().UTC(),
	}, nil
}

// WithAuditInfo sets audit fields
func (e *Event) WithAuditInfo(senderID, controlNumber, correlationID string) *Event {
	e.SenderID = senderID
	e.ControlNumber = controlNumber
	e.CorrelationID = correlationID
	return e
}

// Header is the routing information of an ISA envelope
type Header struct {
	SenderQualifier   string `json:"sender_qualifier"`
	SenderID          string `json:"sender_id"`
	ReceiverQualifier string `json:"receiver_qualifier"`
	ReceiverID        string `json:"receiver_id"`
	ControlNumber     string `json:"control_number"`
	Usage             string `json:"usage"`
}

// HeaderOf reads the ISA envelope of a parsed document. Padding is trimmed.
// A document without an ISA yields an empty header.
func HeaderOf(doc *x12.Document) Header {
	isa := doc.First("ISA")
	field := func(pos int) string { return strings.TrimSpace(isa.Element(pos)) }
	return Header{
		SenderQualifier:   field(5),
		SenderID:          field(6),
		ReceiverQualifier: field(7),
		ReceiverID:        field(8),
		ControlNumber:     field(13),
		Usage:             field(15),
	}
}

// ReceivedData records the raw interchange as accepted
type ReceivedData struct {
	InterchangeID string    `json:"interchange_id"`
	Header        Header    `json:"header"`
	Raw           string    `json:"raw"`
	SizeBytes     int       `json:"size_bytes"`
	Source        string    `json:"source"`
	ReceivedAt    time.Time `json:"received_at"`
}

// ParsedData summarizes the parsed document
type ParsedData struct {
	InterchangeID   string              `json:"interchange_id"`
	TransactionType x12.TransactionType `json:"transaction_type"`
	Segments        int                 `json:"segments"`
	Records         int                 `json:"records"`
	Delimiters      string              `json:"delimiters"`
	ParsedAt        time.Time           `json:"parsed_at"`
}

// TranslatedData carries the view model mapped from the document
type TranslatedData struct {
	InterchangeID   string              `json:"interchange_id"`
	TransactionType x12.TransactionType `json:"transaction_type"`
	View            json.RawMessage     `json:"view"`
	TranslatedAt    time.Time           `json:"translated_at"`
}

// RejectedData explains why an interchange could not be processed
type RejectedData struct {
	InterchangeID string    `json:"interchange_id"`
	Stage         Status    `json:"stage"`
	Reason        string    `json:"reason"`
	RejectedAt    time.Time `json:"rejected_at"`
}
