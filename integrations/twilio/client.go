package twilio

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"remindcall/models"
	"remindcall/utils"

	twilio "github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// Client wraps the Twilio operations the dispatcher and webhook handler need:
// outbound call creation and inbound signature validation.
type Client struct {
	rest        *twilio.RestClient
	validator   twclient.RequestValidator
	fromNumber  string
	callbackURL string
}

// New creates a Twilio client bound to the configured caller number. The
// callbackURL is where Twilio posts call status events.
func New(accountSID, authToken, fromNumber, callbackURL string) *Client {
	return &Client{
		rest:        twilio.NewRestClientWithParams(twilio.ClientParams{Username: accountSID, Password: authToken}),
		validator:   twclient.NewRequestValidator(authToken),
		fromNumber:  fromNumber,
		callbackURL: callbackURL,
	}
}

// PlaceCall creates an outbound voice call that speaks the reminder message.
// The message is embedded as inline TwiML, so it must be XML-escaped.
func (c *Client) PlaceCall(ctx context.Context, phoneNumber, message, reminderID string) (models.CallResult, error) {
	logger := utils.GetLogger()

	if c.fromNumber == "" {
		return models.CallResult{}, fmt.Errorf("twilio: caller number is not configured")
	}

	params := &openapi.CreateCallParams{}
	params.SetTo(phoneNumber)
	params.SetFrom(c.fromNumber)
	params.SetTwiml(sayTwiml(message))
	params.SetStatusCallback(c.callbackURL)
	params.SetStatusCallbackEvent([]string{"initiated", "ringing", "answered", "completed"})
	params.SetStatusCallbackMethod("POST")

	resp, err := c.rest.Api.CreateCall(params)
	if err != nil {
		return models.CallResult{}, fmt.Errorf("twilio: create call for reminder %s: %w", reminderID, err)
	}

	result := models.CallResult{Provider: models.ProviderTwilio, Status: "created"}
	if resp.Sid != nil {
		result.ExternalCallID = *resp.Sid
	}
	if resp.Status != nil {
		result.Status = *resp.Status
	}

	logger.Info("twilio call created",
		zap.String("reminderId", reminderID),
		zap.String("callSid", result.ExternalCallID))
	return result, nil
}

// ValidateSignature checks an inbound webhook's X-Twilio-Signature against
// the absolute callback URL and the posted form parameters.
func (c *Client) ValidateSignature(url string, params map[string]string, signature string) bool {
	if signature == "" {
		return false
	}
	return c.validator.Validate(url, params, signature)
}

// sayTwiml builds a minimal <Response><Say> document around the message.
func sayTwiml(message string) string {
	var escaped strings.Builder
	_ = xml.EscapeText(&escaped, []byte(message))
	return fmt.Sprintf(`<Response><Say voice="alice">%s</Say></Response>`, escaped.String())
}
