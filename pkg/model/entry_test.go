package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logsentinel/logsentinel/pkg/model"
)

func sampleEntry(t *testing.T) model.Entry {
	t.Helper()
	e, err := model.NewEntry(
		time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		model.LevelInfo,
		"Connection established",
		"/aws/lambda/my-function",
		"[INFO] Connection established",
	)
	require.NoError(t, err)
	return e
}

func TestNewEntry_ValidFields(t *testing.T) {
	e := sampleEntry(t)

	assert.Equal(t, model.LevelInfo, e.Level())
	assert.Equal(t, "Connection established", e.Message())
	assert.Equal(t, "/aws/lambda/my-function", e.Source())
	assert.Equal(t, "[INFO] Connection established", e.Raw())
	assert.True(t, e.Timestamp().Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)))

	_, ok := e.RequestID()
	assert.False(t, ok)
	_, ok = e.CorrelationID()
	assert.False(t, ok)
	assert.Empty(t, e.Metadata())
}

func TestNewEntry_RejectsNonUTC(t *testing.T) {
	testCases := []struct {
		name string
		ts   time.Time
	}{
		{"local", time.Date(2024, 1, 15, 10, 0, 0, 0, time.Local)},
		{"fixed offset", time.Date(2024, 1, 15, 10, 0, 0, 0, time.FixedZone("CET", 3600))},
		{"zero offset but not UTC", time.Date(2024, 1, 15, 10, 0, 0, 0, time.FixedZone("UTC", 0))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.ts.Location() == time.UTC {
				t.Skip("local zone is UTC on this machine")
			}
			_, err := model.NewEntry(tc.ts, model.LevelInfo, "m", "s", "r")
			assert.ErrorIs(t, err, model.ErrNonUTCTimestamp)
		})
	}
}

func TestEntry_WithTimestampRevalidates(t *testing.T) {
	e := sampleEntry(t)

	_, err := e.WithTimestamp(time.Date(2024, 1, 15, 10, 0, 0, 0, time.FixedZone("EST", -5*3600)))
	assert.ErrorIs(t, err, model.ErrNonUTCTimestamp)

	moved, err := e.WithTimestamp(time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 11, moved.Timestamp().Hour())
	assert.Equal(t, 10, e.Timestamp().Hour())
}

func TestEntry_EqualIgnoresInformationalFields(t *testing.T) {
	base := sampleEntry(t)

	a := base.WithRaw("[INFO] Connection established test").
		With(model.WithRequestID("req-001"), model.WithMetadata(map[string]string{"correlation_id": "req-001"}))
	b := base.With(model.WithCorrelationID("req-001"), model.WithMetadata(map[string]string{"correlation_id": "req-002"}))

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
}

func TestEntry_EqualComparesCoreFields(t *testing.T) {
	base := sampleEntry(t)

	later, err := base.WithTimestamp(base.Timestamp().Add(time.Millisecond))
	require.NoError(t, err)

	testCases := []struct {
		name  string
		other model.Entry
	}{
		{"message", base.WithMessage("[INFO] Connection established test")},
		{"level", base.WithLevel(model.LevelWarning)},
		{"source", base.WithSource("/aws/lambda/other")},
		{"timestamp", later},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, base.Equal(tc.other))
			assert.NotEqual(t, base.Key(), tc.other.Key())
		})
	}
}

func TestEntry_KeyUsableAsMapKey(t *testing.T) {
	base := sampleEntry(t)
	seen := map[model.EntryKey]int{}

	seen[base.Key()]++
	seen[base.WithRaw("different raw").Key()]++
	seen[base.WithMessage("different").Key()]++

	assert.Len(t, seen, 2)
	assert.Equal(t, 2, seen[base.Key()])
}

func TestEntry_KeyDistinctBeyondNanosecondRange(t *testing.T) {
	epoch, err := model.NewEntry(time.UnixMilli(0).UTC(), model.LevelInfo, "x", "s", "x")
	require.NoError(t, err)
	far, err := model.NewEntry(time.UnixMilli(288230376151711744).UTC(), model.LevelInfo, "x", "s", "x")
	require.NoError(t, err)

	require.False(t, epoch.Equal(far))
	assert.NotEqual(t, epoch.Key(), far.Key())
}

func TestEntry_IsError(t *testing.T) {
	base := sampleEntry(t)

	want := map[model.Level]bool{
		model.LevelDebug:    false,
		model.LevelInfo:     false,
		model.LevelWarning:  false,
		model.LevelError:    true,
		model.LevelCritical: true,
		model.LevelUnknown:  false,
	}
	for level, isErr := range want {
		assert.Equal(t, isErr, base.WithLevel(level).IsError(), level.String())
	}
}

func TestEntry_Immutability(t *testing.T) {
	md := map[string]string{"detail": "original"}
	e, err := model.NewEntry(time.Unix(0, 0).UTC(), model.LevelInfo, "m", "s", "r", model.WithMetadata(md))
	require.NoError(t, err)

	md["detail"] = "changed"
	v, _ := e.MetadataValue("detail")
	assert.Equal(t, "original", v)

	got := e.Metadata()
	got["detail"] = "changed again"
	v, _ = e.MetadataValue("detail")
	assert.Equal(t, "original", v)

	modified := e.WithLevel(model.LevelError)
	assert.Equal(t, model.LevelInfo, e.Level())
	assert.Equal(t, model.LevelError, modified.Level())
}

func TestEntry_RangeMetadata(t *testing.T) {
	e, err := model.NewEntry(time.Unix(0, 0).UTC(), model.LevelInfo, "m", "s", "r",
		model.WithMetadata(map[string]string{"a": "1", "b": "2", "c": "3"}))
	require.NoError(t, err)

	got := map[string]string{}
	e.RangeMetadata(func(k, v string) bool {
		got[k] = v
		return true
	})
	assert.Equal(t, e.Metadata(), got)

	calls := 0
	e.RangeMetadata(func(string, string) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestEntry_JSONRoundTrip(t *testing.T) {
	e, err := model.NewEntry(
		time.UnixMilli(1705312801000).UTC(),
		model.LevelError,
		"[ERROR] failure RequestId: req-9",
		"/aws/lambda/my-function",
		"[ERROR] failure RequestId: req-9",
		model.WithRequestID("req-9"),
		model.WithMetadata(map[string]string{"detail": "x"}),
	)
	require.NoError(t, err)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"ERROR"`)
	assert.Contains(t, string(data), `"timestamp":"2024-01-15T10:00:01Z"`)
	assert.Contains(t, string(data), `"request_id":"req-9"`)
	assert.NotContains(t, string(data), "correlation_id")

	var decoded model.Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, e.Equal(decoded))
	id, ok := decoded.RequestID()
	assert.True(t, ok)
	assert.Equal(t, "req-9", id)
	assert.Equal(t, e.Raw(), decoded.Raw())
}

func TestEntry_UnmarshalRejectsOffsetTimestamp(t *testing.T) {
	var e model.Entry
	err := json.Unmarshal([]byte(`{"timestamp":"2024-01-15T10:00:00+02:00","level":"INFO","message":"m","source":"s","raw":"r"}`), &e)
	assert.ErrorIs(t, err, model.ErrNonUTCTimestamp)
}
