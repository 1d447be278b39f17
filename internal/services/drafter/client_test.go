package drafter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"actas/internal/meeting"
	"actas/internal/services"
)

func transcript() []meeting.Segment {
	return []meeting.Segment{
		{ID: "p-0", Timestamp: "00:00", Speaker: "Presidente", Text: "Se abre la sesión."},
		{ID: "p-1", Timestamp: "00:15", Text: "Primer punto del orden del día."},
	}
}

func request() Request {
	return Request{
		BuildingName:   "Edificio Alameda 42",
		Date:           time.Date(2024, time.January, 15, 18, 30, 0, 0, time.UTC),
		AttendeesCount: 12,
		Transcript:     transcript(),
	}
}

func completionBody(content string) string {
	return `{"choices":[{"message":{"content":` + string(mustJSON(content)) + `},"finish_reason":"stop"}]}`
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

func TestDraftActaRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.DraftActa(context.Background(), request())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("missing key: got %v", err)
	}
}

func TestDraftActaRequiresTranscript(t *testing.T) {
	client := NewClient(Config{APIKey: "sk-test"})
	req := request()
	req.Transcript = nil
	_, err := client.DraftActa(context.Background(), req)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("missing transcript: got %v", err)
	}
}

func TestDraftActaSuccess(t *testing.T) {
	var captured chatCompletionRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("ACTA DE REUNIÓN\n\nDesarrollo.")))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-4o"})
	content, err := client.DraftActa(context.Background(), request())
	if err != nil {
		t.Fatalf("DraftActa: %v", err)
	}
	if content != "ACTA DE REUNIÓN\n\nDesarrollo." {
		t.Fatalf("content = %q", content)
	}

	if auth != "Bearer sk-test" {
		t.Fatalf("authorization = %q", auth)
	}
	if captured.Model != "gpt-4o" {
		t.Fatalf("model = %q", captured.Model)
	}
	if captured.MaxCompletionTokens != maxCompletionTokens {
		t.Fatalf("max tokens = %d", captured.MaxCompletionTokens)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
	if !strings.Contains(captured.Messages[1].Content, "Edificio Alameda 42") {
		t.Fatal("prompt missing building name")
	}
}

func TestDraftActaRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(completionBody("Acta final.")))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "sk-test", BaseURL: server.URL},
		WithRetryBackoff(time.Millisecond, 10*time.Millisecond),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)

	content, err := client.DraftActa(context.Background(), request())
	if err != nil {
		t.Fatalf("DraftActa: %v", err)
	}
	if content != "Acta final." {
		t.Fatalf("content = %q", content)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if len(slept) != 2 {
		t.Fatalf("sleeps = %d, want 2", len(slept))
	}
}

func TestDraftActaDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "sk-test", BaseURL: server.URL},
		WithSleeper(func(time.Duration) {}),
	)
	if _, err := client.DraftActa(context.Background(), request()); err == nil {
		t.Fatal("expected failure on 400")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDraftActaHonorsRetryAfter(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(completionBody("Acta.")))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "sk-test", BaseURL: server.URL},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	if _, err := client.DraftActa(context.Background(), request()); err != nil {
		t.Fatalf("DraftActa: %v", err)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("slept = %v, want [1s]", slept)
	}
}

func TestDraftActaReportsRefusal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"","refusal":"cannot comply"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL})
	_, err := client.DraftActa(context.Background(), request())
	if err == nil || !strings.Contains(err.Error(), "model refused") {
		t.Fatalf("refusal: got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := parseRetryAfter("5"); !ok || d != 5*time.Second {
		t.Fatalf("seconds form: %v, %v", d, ok)
	}
	if _, ok := parseRetryAfter(""); ok {
		t.Fatal("empty value should not parse")
	}
	if _, ok := parseRetryAfter("-1"); ok {
		t.Fatal("negative value should not parse")
	}
	when := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	if d, ok := parseRetryAfter(when); !ok || d <= 0 || d > 30*time.Second {
		t.Fatalf("http date form: %v, %v", d, ok)
	}
}

func TestBackoffDelayDoubles(t *testing.T) {
	client := NewClient(Config{APIKey: "sk-test"}, WithRetryBackoff(time.Second, 10*time.Second))
	if got := client.backoffDelay(1); got != time.Second {
		t.Fatalf("attempt 1 = %v", got)
	}
	if got := client.backoffDelay(2); got != 2*time.Second {
		t.Fatalf("attempt 2 = %v", got)
	}
	if got := client.backoffDelay(6); got != 10*time.Second {
		t.Fatalf("attempt 6 should cap at max, got %v", got)
	}
}
