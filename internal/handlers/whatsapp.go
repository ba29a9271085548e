package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/recipehub/recipebot-backend/internal/models"
	"github.com/recipehub/recipebot-backend/internal/services"
)

// WhatsAppHandler turns Twilio webhook calls into dialog engine events
type WhatsAppHandler struct {
	engine  *services.DialogEngine
	replier services.Replier
}

// NewWhatsAppHandler creates a new WhatsApp handler
func NewWhatsAppHandler(engine *services.DialogEngine, replier services.Replier) *WhatsAppHandler {
	return &WhatsAppHandler{
		engine:  engine,
		replier: replier,
	}
}

// TwilioWebhookPayload represents an incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid        string `form:"MessageSid"`
	AccountSid        string `form:"AccountSid"`
	From              string `form:"From"` // "whatsapp:+919876543210"
	To                string `form:"To"`
	Body              string `form:"Body"`
	NumMedia          string `form:"NumMedia"`
	MediaUrl0         string `form:"MediaUrl0"`
	MediaContentType0 string `form:"MediaContentType0"`
}

// HandleWebhook processes incoming WhatsApp messages
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		log.Printf("Error parsing webhook: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	ev, ok := eventFromPayload(&payload)
	if !ok {
		// Status callbacks and other non-message posts are acknowledged silently
		return c.SendStatus(fiber.StatusOK)
	}

	log.Printf("📱 WhatsApp %s from %s: %s", ev.Kind, ev.SessionID, payload.Body)

	if err := h.engine.HandleEvent(ev, h.replier); err != nil {
		log.Printf("Error processing message: %v", err)
	}

	// Acknowledge webhook receipt
	return c.SendStatus(fiber.StatusOK)
}

// eventFromPayload maps a Twilio payload to the engine's abstract event
func eventFromPayload(p *TwilioWebhookPayload) (models.Event, bool) {
	from := strings.TrimPrefix(p.From, "whatsapp:")
	if from == "" {
		return models.Event{}, false
	}

	if p.NumMedia != "" && p.NumMedia != "0" && p.MediaUrl0 != "" {
		att := &models.Attachment{
			ID:          attachmentID(p),
			URL:         p.MediaUrl0,
			ContentType: p.MediaContentType0,
		}
		kind := models.EventPhoto
		if strings.HasPrefix(p.MediaContentType0, "audio/") {
			kind = models.EventVoice
		}
		return models.Event{SessionID: from, Kind: kind, Attachment: att}, true
	}

	body := strings.TrimSpace(p.Body)
	if body == "" {
		return models.Event{}, false
	}

	if strings.HasPrefix(body, "/") {
		command := strings.ToLower(strings.TrimPrefix(strings.Fields(body)[0], "/"))
		return models.Event{SessionID: from, Kind: models.EventCommand, Command: command}, true
	}

	return models.Event{SessionID: from, Kind: models.EventText, Text: body}, true
}

// attachmentID derives a stable identifier for the stored filename: the last
// path segment of the media URL, falling back to the message SID
func attachmentID(p *TwilioWebhookPayload) string {
	if p.MediaUrl0 != "" {
		url := strings.TrimSuffix(p.MediaUrl0, "/")
		if idx := strings.LastIndex(url, "/"); idx >= 0 && idx < len(url)-1 {
			return url[idx+1:]
		}
	}
	return p.MessageSid
}

// For testing without Twilio
type TestWebhookPayload struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// HandleTestWebhook processes test WhatsApp messages (for development).
// Replies are collected and returned in the response instead of being sent.
func (h *WhatsAppHandler) HandleTestWebhook(c *fiber.Ctx) error {
	var payload TestWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid test payload",
		})
	}

	log.Printf("🧪 Test webhook received from %s: %s", payload.From, payload.Message)

	ev, ok := eventFromPayload(&TwilioWebhookPayload{
		From: "whatsapp:" + payload.From,
		Body: payload.Message,
	})
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Empty test message",
		})
	}

	recorder := &RecordingReplier{}
	if err := h.engine.HandleEvent(ev, recorder); err != nil {
		log.Printf("Error processing test message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"replies": recorder.Replies,
	})
}

// RecordingReplier collects replies instead of sending them
type RecordingReplier struct {
	Replies []RecordedReply
}

// RecordedReply is one reply captured by RecordingReplier
type RecordedReply struct {
	Kind string `json:"kind"` // "text" or "photo"
	To   string `json:"to"`
	Body string `json:"body"` // message text, or the photo handle
}

func (r *RecordingReplier) SendText(to, body string) error {
	r.Replies = append(r.Replies, RecordedReply{Kind: "text", To: to, Body: body})
	return nil
}

func (r *RecordingReplier) SendPhoto(to, handle string) error {
	r.Replies = append(r.Replies, RecordedReply{Kind: "photo", To: to, Body: handle})
	return nil
}
