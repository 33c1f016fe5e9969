package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"time"
)

// UnknownSource is used when the input does not name where an entry came from.
const UnknownSource = "unknown"

// ErrNonUTCTimestamp is returned when an entry is built with a timestamp
// that is not in UTC.
var ErrNonUTCTimestamp = errors.New("timestamp must be in UTC")

// Entry is a single normalized log line. It is immutable: all fields are
// unexported and every "modification" returns a new Entry.
//
// Only the timestamp, level, message and source take part in equality. Raw,
// the correlation and request IDs, and metadata are informational.
type Entry struct {
	timestamp time.Time
	level     Level
	message   string
	source    string

	raw           string
	correlationID *string
	requestID     *string
	metadata      map[string]string
}

// EntryOption sets an optional field on an Entry.
type EntryOption func(*Entry)

// WithRequestID sets the request ID.
func WithRequestID(id string) EntryOption {
	return func(e *Entry) {
		e.requestID = &id
	}
}

// WithCorrelationID sets the correlation ID.
func WithCorrelationID(id string) EntryOption {
	return func(e *Entry) {
		e.correlationID = &id
	}
}

// WithMetadata sets the metadata. The map is copied.
func WithMetadata(md map[string]string) EntryOption {
	return func(e *Entry) {
		if len(md) == 0 {
			e.metadata = nil
			return
		}
		e.metadata = maps.Clone(md)
	}
}

// NewEntry builds an Entry. It fails with ErrNonUTCTimestamp unless ts is in
// the UTC location.
func NewEntry(ts time.Time, level Level, message, source, raw string, opts ...EntryOption) (Entry, error) {
	if err := checkUTC(ts); err != nil {
		return Entry{}, err
	}

	e := Entry{
		timestamp: ts,
		level:     level,
		message:   message,
		source:    source,
		raw:       raw,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e, nil
}

func checkUTC(ts time.Time) error {
	if ts.Location() != time.UTC {
		return fmt.Errorf("%w (got %s)", ErrNonUTCTimestamp, ts.Location())
	}
	return nil
}

// Timestamp returns when the entry was logged, in UTC.
func (e Entry) Timestamp() time.Time { return e.timestamp }

// Level returns the entry severity.
func (e Entry) Level() Level { return e.level }

// Message returns the human-readable text.
func (e Entry) Message() string { return e.message }

// Source returns the origin of the entry, such as a log group name.
func (e Entry) Source() string { return e.source }

// Raw returns the original, unprocessed line.
func (e Entry) Raw() string { return e.raw }

// RequestID returns the request ID, if one was set.
func (e Entry) RequestID() (string, bool) {
	if e.requestID == nil {
		return "", false
	}
	return *e.requestID, true
}

// CorrelationID returns the correlation ID, if one was set.
func (e Entry) CorrelationID() (string, bool) {
	if e.correlationID == nil {
		return "", false
	}
	return *e.correlationID, true
}

// Metadata returns a copy of the metadata map. It is never nil.
func (e Entry) Metadata() map[string]string {
	if e.metadata == nil {
		return map[string]string{}
	}
	return maps.Clone(e.metadata)
}

// MetadataValue returns a single metadata value.
func (e Entry) MetadataValue(key string) (string, bool) {
	v, ok := e.metadata[key]
	return v, ok
}

// RangeMetadata calls fn for each metadata pair until fn returns false.
func (e Entry) RangeMetadata(fn func(key, value string) bool) {
	for k, v := range e.metadata {
		if !fn(k, v) {
			return
		}
	}
}

// MetadataLen returns the number of metadata keys.
func (e Entry) MetadataLen() int { return len(e.metadata) }

// IsError reports whether the entry is ERROR or CRITICAL. UNKNOWN is not an error.
func (e Entry) IsError() bool {
	return e.level == LevelError || e.level == LevelCritical
}

// Equal reports whether two entries have the same timestamp, level, message
// and source.
func (e Entry) Equal(other Entry) bool {
	return e.timestamp.Equal(other.timestamp) &&
		e.level == other.level &&
		e.message == other.message &&
		e.source == other.source
}

// EntryKey is the comparable identity of an Entry. Two entries are Equal
// exactly when their keys are ==, so it can be used as a map key.
type EntryKey struct {
	Unix    int64
	Nano    int
	Level   Level
	Message string
	Source  string
}

// Key returns the identity of the entry.
func (e Entry) Key() EntryKey {
	return EntryKey{
		Unix:    e.timestamp.Unix(),
		Nano:    e.timestamp.Nanosecond(),
		Level:   e.level,
		Message: e.message,
		Source:  e.source,
	}
}

// With returns a copy of the entry with the given options applied.
func (e Entry) With(opts ...EntryOption) Entry {
	c := e
	c.metadata = maps.Clone(e.metadata)
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLevel returns a copy of the entry with a different level.
func (e Entry) WithLevel(level Level) Entry {
	c := e.With()
	c.level = level
	return c
}

// WithMessage returns a copy of the entry with a different message.
func (e Entry) WithMessage(message string) Entry {
	c := e.With()
	c.message = message
	return c
}

// WithSource returns a copy of the entry with a different source.
func (e Entry) WithSource(source string) Entry {
	c := e.With()
	c.source = source
	return c
}

// WithRaw returns a copy of the entry with a different raw line.
func (e Entry) WithRaw(raw string) Entry {
	c := e.With()
	c.raw = raw
	return c
}

// WithTimestamp returns a copy of the entry with a different timestamp.
func (e Entry) WithTimestamp(ts time.Time) (Entry, error) {
	if err := checkUTC(ts); err != nil {
		return Entry{}, err
	}
	c := e.With()
	c.timestamp = ts
	return c, nil
}

// String returns a short single-line rendering for debugging.
func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s %q", e.timestamp.Format(time.RFC3339Nano), e.level, e.source, e.message)
}

type entryJSON struct {
	Timestamp     time.Time         `json:"timestamp"`
	Level         Level             `json:"level"`
	Message       string            `json:"message"`
	Source        string            `json:"source"`
	Raw           string            `json:"raw"`
	RequestID     *string           `json:"request_id,omitempty"`
	CorrelationID *string           `json:"correlation_id,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		Timestamp:     e.timestamp,
		Level:         e.level,
		Message:       e.message,
		Source:        e.source,
		Raw:           e.raw,
		RequestID:     e.requestID,
		CorrelationID: e.correlationID,
		Metadata:      e.metadata,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded entry is validated
// like one built with NewEntry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var in entryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var opts []EntryOption
	if in.RequestID != nil {
		opts = append(opts, WithRequestID(*in.RequestID))
	}
	if in.CorrelationID != nil {
		opts = append(opts, WithCorrelationID(*in.CorrelationID))
	}
	if len(in.Metadata) > 0 {
		opts = append(opts, WithMetadata(in.Metadata))
	}

	decoded, err := NewEntry(in.Timestamp, in.Level, in.Message, in.Source, in.Raw, opts...)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}
