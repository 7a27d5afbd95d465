package stay

import (
	"encoding/json"
	"time"
	"unicode"
)

// EventTypeStayCompleted is the discriminator value carried by every outbound
// event.
const EventTypeStayCompleted = "StayCompleted"

// eventFieldOverrides maps warehouse column names to the payload names
// consumers already depend on. Everything else gets the mechanical
// snake_case→camelCase rendering.
var eventFieldOverrides = map[string]string{
	FieldResvDetailID:     "reservationDetailId",
	FieldArrivalDateKey:   "arrivalDate",
	FieldDepartureDateKey: "departureDate",
	FieldDistChannel3Key:  "distributionChannel",
}

// StayCompletedEvent is the outbound payload for one completed stay. It has
// no identity of its own beyond the source row's fingerprint.
type StayCompletedEvent struct {
	EventType string
	row       Row
}

// NewStayCompletedEvent builds the outbound event for an eligible row. Pure
// and total: every present row field is copied into the payload, absent
// fields are omitted.
func NewStayCompletedEvent(row Row) StayCompletedEvent {
	return StayCompletedEvent{
		EventType: EventTypeStayCompleted,
		row:       row,
	}
}

// Field returns the payload value for a warehouse column name.
func (e StayCompletedEvent) Field(name string) (any, bool) {
	v, ok := e.row.Get(name)
	if !ok {
		return nil, false
	}
	return jsonSafeValue(v), true
}

func (e StayCompletedEvent) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any, e.row.Len()+1)
	payload["eventType"] = e.EventType
	for _, name := range e.row.FieldNames() {
		v, _ := e.row.Get(name)
		payload[eventFieldName(name)] = jsonSafeValue(v)
	}
	return json.Marshal(payload)
}

// jsonSafeValue mirrors the decimal collapse used during normalization, with
// timestamps rendered as RFC 3339 strings for transport.
func jsonSafeValue(v any) any {
	switch c := v.(type) {
	case time.Time:
		return c.UTC().Format(time.RFC3339)
	default:
		return c
	}
}

func eventFieldName(name string) string {
	if override, ok := eventFieldOverrides[name]; ok {
		return override
	}
	return toCamel(name)
}

func toCamel(name string) string {
	parts := []rune{}
	upperNext := false
	for _, r := range name {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}
		parts = append(parts, r)
	}
	return string(parts)
}
