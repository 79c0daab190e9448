// Package interchange implements the event-sourced interchange aggregate.
package interchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/drfirst/go-x12/internal/x12"
)

// Status represents interchange status
type Status string

const (
	StatusNew        Status = "new"
	StatusReceived   Status = "received"
	StatusParsed     Status = "parsed"
	StatusTranslated Status = "translated"
	StatusRejected   Status = "rejected"
)

// ErrInvalidTransition is returned when a command does not fit the current status
var ErrInvalidTransition = errors.New("invalid status transition")

// Aggregate represents the interchange aggregate root
type Aggregate struct {
	id              string
	version         int
	status          Status
	header          Header
	raw             string
	source          string
	transactionType x12.TransactionType
	segments        int
	records         int
	view            json.RawMessage
	rejectReason    string
	correlationID   string
	receivedAt      time.Time
	updatedAt       time.Time
	changes         []*Event
}

// NewAggregate creates an empty interchange aggregate
func NewAggregate(id string) *Aggregate {
	return &Aggregate{
		id:      id,
		status:  StatusNew,
		changes: make([]*Event, 0),
	}
}

// ID returns the aggregate ID
func (a *Aggregate) ID() string { return a.id }

// Version returns the current version
func (a *Aggregate) Version() int { return a.version }

// Status returns the current status
func (a *Aggregate) Status() Status { return a.status }

// Header returns the ISA routing information
func (a *Aggregate) Header() Header { return a.header }

// Raw returns the interchange text as received
func (a *Aggregate) Raw() string { return a.raw }

// TransactionType returns the classified transaction type
func (a *Aggregate) TransactionType() x12.TransactionType { return a.transactionType }

// Changes returns uncommitted events
func (a *Aggregate) Changes() []*Event { return a.changes }

// ClearChanges clears uncommitted events
func (a *Aggregate) ClearChanges() { a.changes = make([]*Event, 0) }

// Receive records the raw interchange
func (a *Aggregate) Receive(raw, source, correlationID string, header Header) error {
	if a.status != StatusNew {
		return fmt.Errorf("%w: receive from %s", ErrInvalidTransition, a.status)
	}
	return a.record(EventInterchangeReceived, correlationID, &ReceivedData{
		InterchangeID: a.id,
		Header:        header,
		Raw:           raw,
		SizeBytes:     len(raw),
		Source:        source,
		ReceivedAt:    time.Now().UTC(),
	})
}

// MarkParsed records the outcome of parsing
func (a *Aggregate) MarkParsed(doc *x12.Document, records int) error {
	if a.status != StatusReceived {
		return fmt.Errorf("%w: parse from %s", ErrInvalidTransition, a.status)
	}
	return a.record(EventInterchangeParsed, "", &ParsedData{
		InterchangeID:   a.id,
		TransactionType: doc.TransactionType,
		Segments:        doc.Len(),
		Records:         records,
		Delimiters:      doc.Delimiters.String(),
		ParsedAt:        time.Now().UTC(),
	})
}

// MarkTranslated stores the view model mapped from the document
func (a *Aggregate) MarkTranslated(view json.RawMessage) error {
	if a.status != StatusParsed {
		return fmt.Errorf("%w: translate from %s", ErrInvalidTransition, a.status)
	}
	return a.record(EventInterchangeTranslated, "", &TranslatedData{
		InterchangeID:   a.id,
		TransactionType: a.transactionType,
		View:            view,
		TranslatedAt:    time.Now().UTC(),
	})
}

// Reject ends processing. Only interchanges still in flight can be rejected.
func (a *Aggregate) Reject(reason string) error {
	if a.status != StatusReceived && a.status != StatusParsed {
		return fmt.Errorf("%w: reject from %s", ErrInvalidTransition, a.status)
	}
	return a.record(EventInterchangeRejected, "", &RejectedData{
		InterchangeID: a.id,
		Stage:         a.status,
		Reason:        reason,
		RejectedAt:    time.Now().UTC(),
	})
}

func (a *Aggregate) record(eventType EventType, correlationID string, data any) error {
	event, err := NewEvent(a.id, eventType, data)
	if err != nil {
		return err
	}
	if correlationID == "" {
		correlationID = a.correlationID
	}
	header := a.header
	if rd, ok := data.(*ReceivedData); ok {
		header = rd.Header
	}
	event.WithAuditInfo(header.SenderID, header.ControlNumber, correlationID)

	if err := a.apply(event); err != nil {
		return err
	}
	a.changes = append(a.changes, event)
	return nil
}

// apply applies an event to update state
func (a *Aggregate) apply(event *Event) error {
	switch event.EventType {
	case EventInterchangeReceived:
		var data ReceivedData
		if err := json.Unmarshal(event.EventData, &data); err != nil {
			return fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		a.status = StatusReceived
		a.header = data.Header
		a.raw = data.Raw
		a.source = data.Source
		a.correlationID = event.CorrelationID
		a.receivedAt = data.ReceivedAt
	case EventInterchangeParsed:
		var data ParsedData
		if err := json.Unmarshal(event.EventData, &data); err != nil {
			return fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		a.status = StatusParsed
		a.transactionType = data.TransactionType
		a.segments = data.Segments
		a.records = data.Records
	case EventInterchangeTranslated:
		var data TranslatedData
		if err := json.Unmarshal(event.EventData, &data); err != nil {
			return fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		a.status = StatusTranslated
		a.view = data.View
	case EventInterchangeRejected:
		var data RejectedData
		if err := json.Unmarshal(event.EventData, &data); err != nil {
			return fmt.Errorf("decode %s: %w", event.EventType, err)
		}
		a.status = StatusRejected
		a.rejectReason = data.Reason
	default:
		return fmt.Errorf("unknown event type %q", event.EventType)
	}
	a.version++
	a.updatedAt = event.Timestamp
	return nil
}

// LoadFromHistory rebuilds state from stored events
func (a *Aggregate) LoadFromHistory(events []*Event) error {
	for _, event := range events {
		if err := a.apply(event); err != nil {
			return fmt.Errorf("replay version %d: %w", event.Version, err)
		}
	}
	return nil
}

// State is the read model of an interchange
type State struct {
	ID              string              `json:"id"`
	Version         int                 `json:"version"`
	Status          Status              `json:"status"`
	Header          Header              `json:"header"`
	Source          string              `json:"source,omitempty"`
	TransactionType x12.TransactionType `json:"transaction_type,omitempty"`
	Segments        int                 `json:"segments"`
	Records         int                 `json:"records"`
	View            json.RawMessage     `json:"view,omitempty"`
	RejectReason    string              `json:"reject_reason,omitempty"`
	CorrelationID   string              `json:"correlation_id,omitempty"`
	ReceivedAt      time.Time           `json:"received_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// State returns the current read model
func (a *Aggregate) State() State {
	return State{
		ID:              a.id,
		Version:         a.version,
		Status:          a.status,
		Header:          a.header,
		Source:          a.source,
		TransactionType: a.transactionType,
		Segments:        a.segments,
		Records:         a.records,
		View:            a.view,
		RejectReason:    a.rejectReason,
		CorrelationID:   a.correlationID,
		ReceivedAt:      a.receivedAt,
		UpdatedAt:       a.updatedAt,
	}
}
