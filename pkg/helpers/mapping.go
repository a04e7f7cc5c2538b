package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/passvault/pkg/mailer"
	mailtpl "github.com/oksasatya/passvault/pkg/mailer/templates"
)

// SubjectForUniversal picks the subject line from data["Type"].
func SubjectForUniversal(data map[string]any) string {
	typeStr := fmt.Sprintf("%v", data["Type"])
	switch strings.ToLower(typeStr) {
	case mailtpl.Welcome:
		return "Welcome to your vault"
	case mailtpl.VerifyEmail:
		return "Verify your email address"
	case mailtpl.ForgotPassword:
		return "Reset your password"
	case mailtpl.ProfileUpdated:
		return "Your profile was updated successfully"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// MapTypedToUniversal rewrites a job addressed to one of the typed templates
// so it renders through the universal template with Type set.
func MapTypedToUniversal(job *mailer.EmailJob) {
	if !mailtpl.IsKnownType(job.Template) {
		return
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Type"] = strings.ToLower(job.Template)
	}
	job.Template = mailtpl.Universal
}
