package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"remindcall/models"
	"remindcall/services/webhook"
	"remindcall/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TwilioValidator checks a telephony webhook signature against the absolute
// callback URL and the posted form parameters.
type TwilioValidator interface {
	ValidateSignature(url string, params map[string]string, signature string) bool
}

// VapiValidator checks a voice-AI webhook signature against the raw body.
type VapiValidator interface {
	ValidateSignature(rawBody []byte, signature string) bool
}

// WebhookHandler receives delivery-status callbacks from both providers,
// authenticates them, and hands the normalized event to the reconciler.
type WebhookHandler struct {
	Reconciler *webhook.Reconciler
	Twilio     TwilioValidator
	Vapi       VapiValidator
	// PublicBaseURL is the externally visible base URL Twilio signed over.
	PublicBaseURL string
}

// TwilioWebhookHandler handles POST /webhooks/twilio. Twilio posts
// form-encoded call status events signed with X-Twilio-Signature.
func (h *WebhookHandler) TwilioWebhookHandler(c *gin.Context) {
	logger := utils.GetLogger()

	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed form body"})
		return
	}

	params := make(map[string]string, len(c.Request.PostForm))
	for key := range c.Request.PostForm {
		params[key] = c.Request.PostFormValue(key)
	}

	url := h.PublicBaseURL + c.Request.URL.RequestURI()
	if !h.Twilio.ValidateSignature(url, params, c.GetHeader("X-Twilio-Signature")) {
		logger.Warn("invalid twilio signature", zap.String("url", url))
		c.String(http.StatusForbidden, "invalid signature")
		return
	}

	callSid := c.Request.PostFormValue("CallSid")
	callStatus := c.Request.PostFormValue("CallStatus")
	if callSid == "" || callStatus == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing CallSid or CallStatus"})
		return
	}
	logger.Info("twilio webhook received",
		zap.String("callSid", callSid),
		zap.String("callStatus", callStatus))

	outcome, err := h.Reconciler.Process(c.Request.Context(), models.WebhookEvent{
		Provider:       models.ProviderTwilio,
		ExternalCallID: callSid,
		RawStatus:      callStatus,
		ReminderID:     c.Request.PostFormValue("reminderId"),
	})
	if err != nil {
		logger.Error("twilio webhook processing failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "store unavailable")
		return
	}

	c.String(http.StatusOK, string(outcome))
}

type vapiWebhookBody struct {
	CallID   string `json:"call_id"`
	Status   string `json:"status"`
	Metadata struct {
		ReminderID string `json:"reminder_id"`
	} `json:"metadata"`
	Transcript string `json:"transcript"`
}

// VapiWebhookHandler handles POST /webhooks/vapi. Vapi posts JSON signed
// with X-Vapi-Signature, a hex HMAC-SHA256 of the body.
func (h *WebhookHandler) VapiWebhookHandler(c *gin.Context) {
	logger := utils.GetLogger()

	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if !h.Vapi.ValidateSignature(rawBody, c.GetHeader("X-Vapi-Signature")) {
		logger.Warn("invalid vapi signature")
		c.String(http.StatusForbidden, "invalid signature")
		return
	}

	var body vapiWebhookBody
	if err := json.Unmarshal(rawBody, &body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed JSON body"})
		return
	}
	if body.CallID == "" || body.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing call_id or status"})
		return
	}
	logger.Info("vapi webhook received",
		zap.String("callId", body.CallID),
		zap.String("status", body.Status))

	outcome, err := h.Reconciler.Process(c.Request.Context(), models.WebhookEvent{
		Provider:       models.ProviderVapi,
		ExternalCallID: body.CallID,
		RawStatus:      body.Status,
		Transcript:     body.Transcript,
		ReminderID:     body.Metadata.ReminderID,
	})
	if err != nil {
		logger.Error("vapi webhook processing failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "store unavailable")
		return
	}

	c.String(http.StatusOK, string(outcome))
}
