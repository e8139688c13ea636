package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"storefront/models"
	"strings"
	"unicode/utf8"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,19}$`)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type ContactService struct {
	whatsAppNumber string
	limiter        RateLimiter
	captcha        CaptchaVerifier
}

// NewContactService accepts nil limiter and captcha; the matching check is
// then skipped.
func NewContactService(whatsAppNumber string, limiter RateLimiter, captcha CaptchaVerifier) *ContactService {
	return &ContactService{
		whatsAppNumber: normalizeWhatsApp(whatsAppNumber),
		limiter:        limiter,
		captcha:        captcha,
	}
}

// Submit validates a contact form and returns the WhatsApp URL the client
// is redirected to.
func (s *ContactService) Submit(ctx context.Context, req models.ContactRequest, clientIP string) (string, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	message := strings.TrimSpace(req.Message)

	switch {
	case name == "" || phone == "" || message == "":
		return "", invalid("Nama, nomor telepon, dan pesan wajib diisi")
	case utf8.RuneCountInString(name) > 100:
		return "", invalid("Nama maksimal 100 karakter")
	case !phonePattern.MatchString(phone):
		return "", invalid("Nomor telepon tidak valid")
	case utf8.RuneCountInString(message) > 1000:
		return "", invalid("Pesan maksimal 1000 karakter")
	}

	if s.whatsAppNumber == "" {
		return "", infra("contact", fmt.Errorf("whatsapp number not configured"))
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, clientIP)
		if err != nil {
			log.Printf("[Contact] rate limiter unavailable, allowing request: %v", err)
		} else if !allowed {
			return "", ErrRateLimited
		}
	}

	if s.captcha != nil {
		ok, err := s.captcha.Verify(ctx, req.RecaptchaToken, clientIP)
		if err != nil {
			return "", infra("verify recaptcha", err)
		}
		if !ok {
			return "", ErrRecaptchaFailed
		}
	}

	return WhatsAppURL(s.whatsAppNumber, fmt.Sprintf("Halo, saya %s (%s).\n\n%s", name, phone, message)), nil
}

// WhatsAppURL builds a wa.me click-to-chat link with text prefilled.
func WhatsAppURL(number, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + normalizeWhatsApp(number) + "?text=" + escaped
}

// normalizeWhatsApp strips formatting and turns a local 08xx number into
// the 628xx form wa.me expects.
func normalizeWhatsApp(number string) string {
	digits := digitsOnly(number)
	if strings.HasPrefix(digits, "0") {
		return "62" + strings.TrimPrefix(digits, "0")
	}
	return digits
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
