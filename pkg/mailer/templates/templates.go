package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`

	LogoURL        string `json:"LogoURL"`
	SupportURL     string `json:"SupportURL"`
	PrivacyURL     string `json:"PrivacyURL"`
	UnsubscribeURL string `json:"UnsubscribeURL"`

	ResetURL  string `json:"ResetURL"`
	VerifyURL string `json:"VerifyURL"`

	ExpiresAt     time.Time         `json:"ExpiresAt"`
	ExpiresAtText string            `json:"ExpiresAtText"`
	IP            string            `json:"IP"`
	Time          string            `json:"Time"`
	TimeAt        time.Time         `json:"TimeAt"`
	UserAgent     string            `json:"UserAgent"`
	Location      string            `json:"Location"`
	Changes       map[string]string `json:"Changes"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() || rv.IsZero() {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":     func() time.Time { return time.Now().UTC() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
		"eq":      func(a, b any) bool { return fmt.Sprint(a) == fmt.Sprint(b) },
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// Template names. The typed ones all render through Universal.
const (
	Universal      = "universal"
	Welcome        = "welcome"
	VerifyEmail    = "verify_email"
	ForgotPassword = "forgot_password"
	ProfileUpdated = "profile_updated"
)

// IsKnownType reports whether name is one of the typed templates.
func IsKnownType(name string) bool {
	switch strings.ToLower(name) {
	case Welcome, VerifyEmail, ForgotPassword, ProfileUpdated:
		return true
	}
	return false
}

func renderFile(filename string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)
	if isHTML {
		tpl, e := htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render renders <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (text string, html string, err error) {
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", err
	}
	return text, html, nil
}
