package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/logsentinel/logsentinel/pkg/config"
	"github.com/logsentinel/logsentinel/pkg/model"
	"github.com/logsentinel/logsentinel/pkg/output"
)

func newTestReport(t *testing.T, level model.Level) *output.Report {
	t.Helper()
	e, err := model.NewEntry(
		time.Date(2024, 1, 15, 10, 0, 1, 0, time.UTC),
		level,
		"["+level.String()+"] failure",
		"/aws/lambda/my-function",
		"["+level.String()+"] failure",
	)
	if err != nil {
		t.Fatal(err)
	}
	entries := []model.Entry{e}
	return output.NewReport(entries, entries, output.Metadata{
		RunID:    "run-123",
		File:     "export.json",
		Format:   "cloudwatch",
		Duration: time.Second,
	})
}

func TestClient_Send_Success(t *testing.T) {
	var receivedBody []byte
	var receivedHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedHeaders = r.Header.Clone()
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Send(context.Background(), newTestReport(t, model.LevelError), SendOptions{
		URL: server.URL,
	})

	if !resp.Success() {
		t.Errorf("expected success, got error: %v", resp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if resp.Body != `{"status":"ok"}` {
		t.Errorf("unexpected body: %s", resp.Body)
	}

	if got := receivedHeaders.Get("Content-Type"); got != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", got)
	}
	if got := receivedHeaders.Get("User-Agent"); got != UserAgent {
		t.Errorf("expected User-Agent %s, got %s", UserAgent, got)
	}
	if got := receivedHeaders.Get("Idempotency-Key"); got != "run-123" {
		t.Errorf("expected Idempotency-Key run-123, got %s", got)
	}
	if got := receivedHeaders.Get("Authorization"); got != "" {
		t.Errorf("expected no auth header, got %s", got)
	}

	var payload map[string]any
	if err := json.Unmarshal(receivedBody, &payload); err != nil {
		t.Fatalf("failed to parse received payload: %v", err)
	}
	for _, key := range []string{"summary", "entries", "metadata"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("payload missing %s field", key)
		}
	}
}

func TestClient_Send_WithBearerToken(t *testing.T) {
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(t, model.LevelError), SendOptions{
		URL:   server.URL,
		Token: "secret-token-123",
	})

	if !resp.Success() {
		t.Errorf("expected success, got error: %v", resp.Error)
	}
	if receivedAuth != "Bearer secret-token-123" {
		t.Errorf("expected Bearer token, got %s", receivedAuth)
	}
}

func TestClient_Send_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(t, model.LevelError), SendOptions{
		URL: server.URL,
	})

	if resp.Success() {
		t.Error("expected failure, got success")
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", resp.StatusCode)
	}
	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestClient_Send_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(t, model.LevelError), SendOptions{
		URL: server.URL,
	})

	if resp.Success() {
		t.Error("expected failure, got success")
	}
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("expected status 304, got %d", resp.StatusCode)
	}
	if resp.Error == nil || resp.Error.Error() != "webhook returned status 304" {
		t.Errorf("unexpected error: %v", resp.Error)
	}
}

func TestClient_Send_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp := NewClient().Send(context.Background(), newTestReport(t, model.LevelError), SendOptions{
		URL:     server.URL,
		Timeout: 50 * time.Millisecond,
	})

	if resp.Success() {
		t.Error("expected failure due to timeout")
	}
	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestClient_Send_InvalidURL(t *testing.T) {
	resp := NewClient().Send(context.Background(), newTestReport(t, model.LevelError), SendOptions{
		URL: "://invalid-url",
	})

	if resp.Success() {
		t.Error("expected failure for invalid URL")
	}
	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestClient_Send_ConnectionRefused(t *testing.T) {
	resp := NewClient().Send(context.Background(), newTestReport(t, model.LevelError), SendOptions{
		URL:     "http://127.0.0.1:59999", // Unlikely to be listening
		Timeout: 100 * time.Millisecond,
	})

	if resp.Success() {
		t.Error("expected failure for connection refused")
	}
	if resp.Error == nil {
		t.Error("expected error to be set")
	}
}

func TestResponse_Success(t *testing.T) {
	tests := []struct {
		name        string
		resp        Response
		wantSuccess bool
	}{
		{"200 OK", Response{StatusCode: 200}, true},
		{"204 No Content", Response{StatusCode: 204}, true},
		{"400 Bad Request", Response{StatusCode: 400}, false},
		{"500 Server Error", Response{StatusCode: 500}, false},
		{"With Error", Response{StatusCode: 200, Error: io.EOF}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.Success(); got != tt.wantSuccess {
				t.Errorf("Success() = %v, want %v", got, tt.wantSuccess)
			}
		})
	}
}

func TestShouldFire(t *testing.T) {
	tests := []struct {
		trigger   config.WebhookTrigger
		hasErrors bool
		want      bool
	}{
		{config.WebhookTriggerAlways, false, true},
		{config.WebhookTriggerAlways, true, true},
		{config.WebhookTriggerNever, true, false},
		{config.WebhookTriggerOnErrors, true, true},
		{config.WebhookTriggerOnErrors, false, false},
		{"", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		if got := ShouldFire(tt.trigger, tt.hasErrors); got != tt.want {
			t.Errorf("ShouldFire(%q, %v) = %v, want %v", tt.trigger, tt.hasErrors, got, tt.want)
		}
	}
}

func TestClient_SendAll(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	hooks := []config.WebhookConfig{
		{Name: "errors", URL: server.URL, Trigger: config.WebhookTriggerOnErrors},
		{Name: "always", URL: server.URL, Trigger: config.WebhookTriggerAlways},
		{Name: "never", URL: server.URL, Trigger: config.WebhookTriggerNever},
	}

	client := NewClient()

	deliveries := client.SendAll(context.Background(), newTestReport(t, model.LevelInfo), hooks)
	if len(deliveries) != 1 || deliveries[0].Webhook.Name != "always" {
		t.Fatalf("deliveries without errors = %+v, want only always", deliveries)
	}

	deliveries = client.SendAll(context.Background(), newTestReport(t, model.LevelCritical), hooks)
	if len(deliveries) != 2 {
		t.Fatalf("got %d deliveries, want 2", len(deliveries))
	}
	for _, d := range deliveries {
		if !d.Response.Success() {
			t.Errorf("webhook %s failed: %v", d.Webhook.Name, d.Response.Error)
		}
	}

	if got := hits.Load(); got != 3 {
		t.Errorf("server received %d requests, want 3", got)
	}
}
