package templates

import (
	"context"
	"strings"
	"time"

	"github.com/oksasatya/passvault/config"
)

type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}
func WithVerifyURL(url string) Option { return func(d *EmailData) { d.VerifyURL = url } }
func WithResetURL(url string) Option  { return func(d *EmailData) { d.ResetURL = url } }
func WithChanges(ch map[string]string) Option {
	return func(d *EmailData) { d.Changes = ch }
}

func setLocation(d *EmailData, loc string) {
	if s := strings.TrimSpace(loc); s != "" {
		d.Location = s
	}
}

func WithLocation(loc string) Option {
	return func(d *EmailData) { setLocation(d, loc) }
}

func WithGeoFromIP(ctx context.Context, r GeoResolver, ip string) Option {
	return func(d *EmailData) {
		if r == nil || strings.TrimSpace(ip) == "" {
			return
		}
		if g, err := r.Lookup(ctx, ip); err == nil {
			setLocation(d, FormatGeo(g))
		}
	}
}

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		utc := time.Now().Add(dur).UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04")
	}
}

// NewBaseEmailData fills branding from cfg, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		PrivacyURL:     cfg.PrivacyURL,
		UnsubscribeURL: cfg.UnsubscribeURL,

		ResetURL:  cfg.ResetPasswordURL,
		VerifyURL: cfg.VerifyEmailURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, Welcome, name, email, opts...))
}

func NewVerifyEmailData(cfg *config.Config, name, email, verifyURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithVerifyURL(verifyURL)}, opts...)
	return ToMap(NewBaseEmailData(cfg, VerifyEmail, name, email, opts...))
}

func NewForgotPasswordData(cfg *config.Config, name, email, resetURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithResetURL(resetURL)}, opts...)
	return ToMap(NewBaseEmailData(cfg, ForgotPassword, name, email, opts...))
}

func NewProfileUpdatedData(cfg *config.Config, name, email string, changes map[string]string, opts ...Option) map[string]any {
	opts = append([]Option{WithChanges(changes)}, opts...)
	return ToMap(NewBaseEmailData(cfg, ProfileUpdated, name, email, opts...))
}
