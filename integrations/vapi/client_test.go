package vapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"remindcall/models"
)

func TestValidateSignature(t *testing.T) {
	c := New("https://api.vapi.ai", "key", "topsecret")
	body := []byte(`{"call_id":"CALL1","status":"transcribed"}`)

	if !c.ValidateSignature(body, Sign("topsecret", body)) {
		t.Fatalf("valid signature rejected")
	}
	if c.ValidateSignature(body, Sign("wrongsecret", body)) {
		t.Fatalf("signature from wrong secret accepted")
	}
	if c.ValidateSignature(body, "") {
		t.Fatalf("empty signature accepted")
	}
	if c.ValidateSignature([]byte(`{"call_id":"CALL2"}`), Sign("topsecret", body)) {
		t.Fatalf("signature over different body accepted")
	}
}

func TestValidateSignatureRejectsWithoutSecret(t *testing.T) {
	c := New("https://api.vapi.ai", "key", "")
	if c.ValidateSignature([]byte(`{}`), "anything") {
		t.Fatalf("delivery accepted without a configured secret")
	}
	if c.ValidateSignature([]byte(`{}`), "") {
		t.Fatalf("unsigned delivery accepted without a configured secret")
	}
}

func TestPlaceCall(t *testing.T) {
	var got createCallRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/call" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createCallResponse{ID: "vapi-123", Status: "queued"})
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "")
	res, err := c.PlaceCall(context.Background(), "+15551234567", "Dentist at 3pm", "rem-1")
	if err != nil {
		t.Fatalf("PlaceCall: %v", err)
	}
	if res.ExternalCallID != "vapi-123" || res.Status != "queued" || res.Provider != models.ProviderVapi {
		t.Fatalf("unexpected result %+v", res)
	}
	if got.PhoneNumber != "+15551234567" || got.Assistant.FirstMessage != "Dentist at 3pm" {
		t.Fatalf("unexpected request payload %+v", got)
	}
	if got.Metadata["reminder_id"] != "rem-1" {
		t.Fatalf("reminder metadata missing: %+v", got.Metadata)
	}
}

func TestRequestTranscription(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "")
	if err := c.RequestTranscription(context.Background(), "vapi-123", "rem-1"); err != nil {
		t.Fatalf("RequestTranscription: %v", err)
	}
	if gotPath != "/call/vapi-123/transcript" {
		t.Fatalf("unexpected path %s", gotPath)
	}
}

func TestPlaceCallErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "")
	if _, err := c.PlaceCall(context.Background(), "+15551234567", "hello", "rem-1"); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
