package parser

import (
	"fmt"

	"github.com/valyala/fastjson"

	"github.com/logsentinel/logsentinel/pkg/model"
)

// CloudWatch export keys.
const (
	keyLogGroupName = "logGroupName"
	keyLogEvents    = "logEvents"
	keyMessage      = "message"
	keyTimestamp    = "timestamp"
)

var jsonParsers fastjson.ParserPool

// CloudWatchParser parses CloudWatch Logs JSON exports:
//
//	{"logGroupName": "...", "logStreamName": "...",
//	 "logEvents": [{"timestamp": 1705312800000, "message": "..."}]}
//
// logGroupName becomes the source of every entry. Unknown keys are ignored.
type CloudWatchParser struct{}

// NewCloudWatchParser creates a CloudWatch export parser.
func NewCloudWatchParser() *CloudWatchParser {
	return &CloudWatchParser{}
}

// Name returns the format name.
func (p *CloudWatchParser) Name() string {
	return FormatCloudWatch
}

// ParseFile reads the export at path and parses it.
func (p *CloudWatchParser) ParseFile(path string) ([]model.Entry, error) {
	content, err := ReadExport(path)
	if err != nil {
		return nil, err
	}
	return p.ParseString(content)
}

// ParseString parses an export held in memory. Entries are returned in the
// order of logEvents. Either every event parses or an error is returned.
func (p *CloudWatchParser) ParseString(content string) ([]model.Entry, error) {
	jp := jsonParsers.Get()
	defer jsonParsers.Put(jp)

	doc, err := jp.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if doc.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%w: top level must be an object, got %s", ErrFormat, doc.Type())
	}

	events := field(doc, keyLogEvents)
	if events == nil {
		return nil, fmt.Errorf("%w: missing %q key", ErrFormat, keyLogEvents)
	}
	items, err := events.Array()
	if err != nil {
		return nil, fmt.Errorf("%w: %q must be an array, got %s", ErrFormat, keyLogEvents, events.Type())
	}

	source, err := logGroupName(doc)
	if err != nil {
		return nil, err
	}

	entries := make([]model.Entry, 0, len(items))
	for i, ev := range items {
		entry, err := parseEvent(ev, source)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", keyLogEvents, i, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// field returns the value of key in object v. When a key is repeated the last
// occurrence wins.
func field(v *fastjson.Value, key string) *fastjson.Value {
	obj, err := v.Object()
	if err != nil {
		return nil
	}
	var last *fastjson.Value
	obj.Visit(func(k []byte, val *fastjson.Value) {
		if string(k) == key {
			last = val
		}
	})
	return last
}

func logGroupName(doc *fastjson.Value) (string, error) {
	v := field(doc, keyLogGroupName)
	if v == nil || v.Type() == fastjson.TypeNull {
		return model.UnknownSource, nil
	}
	b, err := v.StringBytes()
	if err != nil {
		return "", fmt.Errorf("%w: %q must be a string, got %s", ErrFormat, keyLogGroupName, v.Type())
	}
	return string(b), nil
}

func parseEvent(ev *fastjson.Value, source string) (model.Entry, error) {
	if ev.Type() != fastjson.TypeObject {
		return model.Entry{}, fmt.Errorf("%w: event must be an object, got %s", ErrFormat, ev.Type())
	}

	msgVal := field(ev, keyMessage)
	if msgVal == nil {
		return model.Entry{}, fmt.Errorf("%w: missing %q", ErrFormat, keyMessage)
	}
	msg, err := msgVal.StringBytes()
	if err != nil {
		return model.Entry{}, fmt.Errorf("%w: %q must be a string, got %s", ErrFormat, keyMessage, msgVal.Type())
	}

	tsVal := field(ev, keyTimestamp)
	if tsVal == nil {
		return model.Entry{}, fmt.Errorf("%w: missing %q", ErrFormat, keyTimestamp)
	}
	ms, err := tsVal.Int64()
	if err != nil {
		return model.Entry{}, fmt.Errorf("%w: %q must be an integer: %v", ErrFormat, keyTimestamp, err)
	}

	raw := string(msg)

	var opts []model.EntryOption
	if id, ok := ExtractRequestID(raw); ok {
		opts = append(opts, model.WithRequestID(id))
	}

	return model.NewEntry(TimestampFromMillis(ms), ExtractLevel(raw), raw, source, raw, opts...)
}
