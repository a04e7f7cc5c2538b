package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (with Data) or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // welcome, verify_email, forgot_password, profile_updated, universal
	Data     map[string]any `json:"data,omitempty"`
}

// IsRaw reports whether the job carries its own subject and body.
func (j EmailJob) IsRaw() bool {
	return j.Template == "" && j.Subject != "" && (j.Text != "" || j.HTML != "")
}
