package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/recipehub/recipebot-backend/internal/services"
)

// TwilioReplier sends engine replies out through Twilio. Photo handles are
// relative media paths; they are served statically under /media, so the
// outbound media URL is the public base URL plus the handle.
type TwilioReplier struct {
	twilio  *services.TwilioService
	baseURL string
}

// NewTwilioReplier creates the production replier
func NewTwilioReplier(twilio *services.TwilioService, publicBaseURL string) *TwilioReplier {
	return &TwilioReplier{
		twilio:  twilio,
		baseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

func (r *TwilioReplier) SendText(to, body string) error {
	if r.twilio == nil {
		log.Printf("📤 Reply to %s (not sent - Twilio not configured): %s", to, body)
		return nil
	}
	return r.twilio.SendWhatsAppMessage(to, body)
}

func (r *TwilioReplier) SendPhoto(to, handle string) error {
	url := fmt.Sprintf("%s/media/%s", r.baseURL, strings.TrimPrefix(handle, "/"))
	if r.twilio == nil {
		log.Printf("📤 Photo to %s (not sent - Twilio not configured): %s", to, url)
		return nil
	}
	return r.twilio.SendWhatsAppMedia(to, url)
}
