package vapi

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"remindcall/models"
	"remindcall/utils"

	"go.uber.org/zap"
)

// Vapi has no Go SDK; this is a thin JSON client over its REST API.

// Client talks to the Vapi voice-AI API: outbound call creation, transcript
// requests, and inbound webhook signature validation.
type Client struct {
	baseURL       string
	apiKey        string
	webhookSecret string
	http          *http.Client
}

// New creates a Vapi client. Outbound requests carry a 10 second timeout.
func New(baseURL, apiKey, webhookSecret string) *Client {
	return &Client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		webhookSecret: webhookSecret,
		http:          &http.Client{Timeout: 10 * time.Second},
	}
}

type assistantModelMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type createCallRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Assistant   struct {
		Model struct {
			Provider string                  `json:"provider"`
			Model    string                  `json:"model"`
			Messages []assistantModelMessage `json:"messages"`
		} `json:"model"`
		Voice struct {
			Provider string `json:"provider"`
			VoiceID  string `json:"voiceId"`
		} `json:"voice"`
		FirstMessage string `json:"firstMessage"`
	} `json:"assistant"`
	Metadata map[string]string `json:"metadata"`
}

type createCallResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PlaceCall creates a voice-AI call that delivers the reminder message.
func (c *Client) PlaceCall(ctx context.Context, phoneNumber, message, reminderID string) (models.CallResult, error) {
	logger := utils.GetLogger()

	req := createCallRequest{PhoneNumber: phoneNumber}
	req.Assistant.Model.Provider = "openai"
	req.Assistant.Model.Model = "gpt-3.5-turbo"
	req.Assistant.Model.Messages = []assistantModelMessage{{
		Role:    "system",
		Content: "You are a friendly reminder assistant. Deliver the reminder message clearly and concisely.",
	}}
	req.Assistant.Voice.Provider = "11labs"
	req.Assistant.Voice.VoiceID = "rachel"
	req.Assistant.FirstMessage = message
	req.Metadata = map[string]string{"reminder_id": reminderID}

	var resp createCallResponse
	if err := c.post(ctx, "/call", req, &resp); err != nil {
		return models.CallResult{}, fmt.Errorf("vapi: create call for reminder %s: %w", reminderID, err)
	}

	status := resp.Status
	if status == "" {
		status = "created"
	}

	logger.Info("vapi call created",
		zap.String("reminderId", reminderID),
		zap.String("callId", resp.ID))
	return models.CallResult{
		ExternalCallID: resp.ID,
		Status:         status,
		Provider:       models.ProviderVapi,
	}, nil
}

// RequestTranscription asks Vapi to produce a transcript for a finished call.
func (c *Client) RequestTranscription(ctx context.Context, callID, reminderID string) error {
	payload := map[string]any{
		"call_id":  callID,
		"metadata": map[string]string{"reminder_id": reminderID},
	}
	if err := c.post(ctx, "/call/"+callID+"/transcript", payload, nil); err != nil {
		return fmt.Errorf("vapi: request transcription for call %s: %w", callID, err)
	}
	return nil
}

// ValidateSignature checks the X-Vapi-Signature header: a hex HMAC-SHA256 of
// the raw request body, compared in constant time. An unset secret rejects
// every delivery; there is no unauthenticated mode.
func (c *Client) ValidateSignature(rawBody []byte, signature string) bool {
	if c.webhookSecret == "" {
		utils.GetLogger().Warn("vapi webhook secret not set - rejecting delivery")
		return false
	}
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(c.webhookSecret, rawBody)), []byte(signature))
}

// Sign computes the hex HMAC-SHA256 of body with the given secret. Exported
// so tests and tooling can produce valid webhook signatures.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
