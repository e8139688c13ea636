package services

import (
	"context"
	"errors"
	"storefront/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

type stubCaptcha struct {
	ok  bool
	err error
}

func (s stubCaptcha) Verify(context.Context, string, string) (bool, error) {
	return s.ok, s.err
}

func validContact() models.ContactRequest {
	return models.ContactRequest{Name: "Rina", Phone: "0812-3456-789", Message: "Apakah kopi ready?", RecaptchaToken: "tok"}
}

func TestContactService_Submit(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	svc := NewContactService("0812 1111 2222", limiter, stubCaptcha{ok: true})

	link, err := svc.Submit(context.Background(), validContact(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t,
		"https://wa.me/6281211112222?text=Halo%2C%20saya%20Rina%20%280812-3456-789%29.%0A%0AApakah%20kopi%20ready%3F",
		link)
	assert.Equal(t, []string{"10.0.0.1"}, limiter.keys)
}

func TestContactService_Validation(t *testing.T) {
	svc := NewContactService("628123", nil, nil)

	cases := map[string]func(r *models.ContactRequest){
		"missing name":  func(r *models.ContactRequest) { r.Name = " " },
		"bad phone":     func(r *models.ContactRequest) { r.Phone = "call me" },
		"empty message": func(r *models.ContactRequest) { r.Message = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validContact()
			mutate(&req)
			_, err := svc.Submit(context.Background(), req, "10.0.0.1")
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve))
		})
	}
}

func TestContactService_RateLimited(t *testing.T) {
	svc := NewContactService("628123", &stubLimiter{allowed: false}, stubCaptcha{ok: true})

	_, err := svc.Submit(context.Background(), validContact(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestContactService_LimiterOutageAllowsRequest(t *testing.T) {
	svc := NewContactService("628123", &stubLimiter{err: errors.New("redis down")}, nil)

	_, err := svc.Submit(context.Background(), validContact(), "10.0.0.1")
	assert.NoError(t, err)
}

func TestContactService_Captcha(t *testing.T) {
	svc := NewContactService("628123", nil, stubCaptcha{ok: false})
	_, err := svc.Submit(context.Background(), validContact(), "10.0.0.1")
	assert.ErrorIs(t, err, ErrRecaptchaFailed)

	svc = NewContactService("628123", nil, stubCaptcha{err: errors.New("timeout")})
	_, err = svc.Submit(context.Background(), validContact(), "10.0.0.1")
	var ie *InfrastructureError
	assert.True(t, errors.As(err, &ie))
}

func TestContactService_MissingNumber(t *testing.T) {
	svc := NewContactService("", nil, nil)
	_, err := svc.Submit(context.Background(), validContact(), "10.0.0.1")
	var ie *InfrastructureError
	assert.True(t, errors.As(err, &ie))
}

func TestNormalizeWhatsApp(t *testing.T) {
	assert.Equal(t, "6281234", normalizeWhatsApp("0812-34"))
	assert.Equal(t, "6281234", normalizeWhatsApp("+62 812 34"))
	assert.Equal(t, "", normalizeWhatsApp(""))
}
