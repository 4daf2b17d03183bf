package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Options{}); err != ErrMissingAPIKey {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestCreateIntent(t *testing.T) {
	var gotAuth string
	var gotReq IntentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pi_1","amount":2500,"currency":"usd","status":"requires_payment_method","client_secret":"pi_1_secret"}`))
	}))
	defer server.Close()

	client, err := New(Options{APIKey: "sk_test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	intent, err := client.CreateIntent(context.Background(), IntentRequest{
		Amount:   2500,
		Currency: "usd",
		Metadata: map[string]string{MetadataUserID: "user-1"},
	})
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}

	if gotAuth != "Bearer sk_test" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if gotReq.Amount != 2500 || gotReq.Metadata[MetadataUserID] != "user-1" {
		t.Fatalf("unexpected request body: %+v", gotReq)
	}
	if intent.ID != "pi_1" || intent.ClientSecret != "pi_1_secret" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	if len(intent.Raw) == 0 {
		t.Fatal("expected raw payload to be retained")
	}
}

func TestGetIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/payment_intents/pi_42" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"id":"pi_42","amount":10000,"currency":"usd","status":"succeeded","metadata":{"preemPath":"organizations/o/series/s/events/e/races/r/preems/p","userId":"user-1"}}`))
	}))
	defer server.Close()

	client, err := New(Options{APIKey: "sk_test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	intent, err := client.GetIntent(context.Background(), "pi_42")
	if err != nil {
		t.Fatalf("get intent: %v", err)
	}
	if intent.Status != StatusSucceeded || intent.Amount != 10000 {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	if intent.Metadata[MetadataPreemPath] == "" {
		t.Fatal("expected preem path metadata")
	}
}

func TestGetIntentErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"message":"no such intent"}}`))
	}))
	defer server.Close()

	client, err := New(Options{APIKey: "sk_test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.GetIntent(context.Background(), "pi_missing"); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
