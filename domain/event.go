package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventType tags a provenance entry with the mutation that produced it.
type EventType string

const (
	EventRegistered      EventType = "registered"
	EventTransferred     EventType = "transferred"
	EventMetadataUpdated EventType = "metadata-updated"
	EventStatusUpdated   EventType = "status-updated"
)

func (t EventType) Valid() bool {
	switch t {
	case EventRegistered, EventTransferred, EventMetadataUpdated, EventStatusUpdated:
		return true
	default:
		return false
	}
}

// ProvenanceEvent is one immutable entry in a component's history, keyed by
// (ComponentID, EventID). Event ids are contiguous from 1 with no gaps.
type ProvenanceEvent struct {
	ComponentID ComponentID
	EventID     uint64
	EventType   EventType
	Initiator   Identity
	Timestamp   LogicalTime
	Details     EventDetails
}

func (e ProvenanceEvent) Validate() error {
	if e.ComponentID == 0 {
		return errors.New("component id is required")
	}
	if e.EventID == 0 {
		return errors.New("event id is required")
	}
	if !e.EventType.Valid() {
		return fmt.Errorf("invalid event type %q", e.EventType)
	}
	if e.Initiator.IsNull() {
		return errors.New("initiator is required")
	}
	if e.Details == nil {
		return errors.New("details are required")
	}
	if e.Details.EventType() != e.EventType {
		return fmt.Errorf("details do not match event type %q", e.EventType)
	}
	return nil
}

// EventDetails is the structured payload of a provenance entry. One concrete
// type per event kind; the kind stored on the event decides decoding.
type EventDetails interface {
	EventType() EventType
}

type RegisteredDetails struct {
	SerialNumber string `json:"serial_number"`
	PartNumber   string `json:"part_number"`
}

type TransferredDetails struct {
	NewOwner Identity `json:"new_owner"`
}

type MetadataUpdatedDetails struct {
	Metadata string `json:"metadata"`
}

type StatusUpdatedDetails struct {
	Status string `json:"status"`
}

func (RegisteredDetails) EventType() EventType      { return EventRegistered }
func (TransferredDetails) EventType() EventType     { return EventTransferred }
func (MetadataUpdatedDetails) EventType() EventType { return EventMetadataUpdated }
func (StatusUpdatedDetails) EventType() EventType   { return EventStatusUpdated }

// MarshalDetails encodes a details payload as JSON. The event type travels
// alongside the payload, so no envelope tag is embedded.
func MarshalDetails(details EventDetails) ([]byte, error) {
	if details == nil {
		return nil, errors.New("details are required")
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("marshal details: %w", err)
	}
	return raw, nil
}

// UnmarshalDetails decodes a details payload for the given event type.
func UnmarshalDetails(eventType EventType, raw []byte) (EventDetails, error) {
	decode := func(into EventDetails) (EventDetails, error) {
		if err := json.Unmarshal(raw, into); err != nil {
			return nil, fmt.Errorf("unmarshal %s details: %w", eventType, err)
		}
		return into, nil
	}
	switch eventType {
	case EventRegistered:
		out, err := decode(&RegisteredDetails{})
		if err != nil {
			return nil, err
		}
		return *out.(*RegisteredDetails), nil
	case EventTransferred:
		out, err := decode(&TransferredDetails{})
		if err != nil {
			return nil, err
		}
		return *out.(*TransferredDetails), nil
	case EventMetadataUpdated:
		out, err := decode(&MetadataUpdatedDetails{})
		if err != nil {
			return nil, err
		}
		return *out.(*MetadataUpdatedDetails), nil
	case EventStatusUpdated:
		out, err := decode(&StatusUpdatedDetails{})
		if err != nil {
			return nil, err
		}
		return *out.(*StatusUpdatedDetails), nil
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
}
