// Package worker holds the background job consumers.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/passvault/pkg/helpers"
	"github.com/oksasatya/passvault/pkg/mailer"
	mailtpl "github.com/oksasatya/passvault/pkg/mailer/templates"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack   Outcome = iota // done
	Drop                 // nack without requeue; the payload can never succeed
	Retry                // nack with requeue
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Drop:
		return "drop"
	case Retry:
		return "retry"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// EmailWorker renders queued email jobs and hands them to a Sender.
type EmailWorker struct {
	Sender      mailer.Sender
	Geo         mailtpl.GeoResolver
	Logger      logrus.FieldLogger
	SendTimeout time.Duration
}

func NewEmailWorker(sender mailer.Sender, geo mailtpl.GeoResolver, logger logrus.FieldLogger) *EmailWorker {
	return &EmailWorker{Sender: sender, Geo: geo, Logger: logger, SendTimeout: 15 * time.Second}
}

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Render turns a job into a message. Typed templates render through the
// universal template; raw jobs pass through.
func (w *EmailWorker) Render(ctx context.Context, job mailer.EmailJob) (Message, error) {
	if job.To == "" {
		return Message{}, fmt.Errorf("job has no recipient")
	}
	if job.Template == "" {
		if !job.IsRaw() {
			return Message{}, fmt.Errorf("raw job needs a subject and a body")
		}
		return Message{To: job.To, Subject: job.Subject, Text: job.Text, HTML: job.HTML}, nil
	}

	helpers.EnsureRecipientAndEmail(&job)
	helpers.MapTypedToUniversal(&job)
	if job.Template != mailtpl.Universal {
		return Message{}, fmt.Errorf("unknown template %q", job.Template)
	}

	w.enrichLocation(ctx, job.Data)
	helpers.LocalizeTimesIfPossible(ctx, w.Geo, job.Data)

	text, html, err := mailtpl.Render(mailtpl.Universal, job.Data)
	if err != nil {
		return Message{}, err
	}
	subject := job.Subject
	if subject == "" {
		subject = helpers.SubjectForUniversal(job.Data)
	}
	return Message{To: job.To, Subject: subject, Text: text, HTML: html}, nil
}

func (w *EmailWorker) enrichLocation(ctx context.Context, data map[string]any) {
	if w.Geo == nil {
		return
	}
	if loc, ok := data["Location"]; ok && fmt.Sprint(loc) != "" {
		return
	}
	ip, ok := data["IP"].(string)
	if !ok || ip == "" {
		return
	}
	if g, err := w.Geo.Lookup(ctx, ip); err == nil {
		data["Location"] = mailtpl.FormatGeo(g)
	}
}

// Handle processes one queue payload.
func (w *EmailWorker) Handle(ctx context.Context, body []byte) Outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogError(w.Logger, "bad email payload", err, nil)
		return Drop
	}
	msg, err := w.Render(ctx, job)
	if err != nil {
		helpers.LogError(w.Logger, "render failed", err, logrus.Fields{"template": job.Template})
		return Drop
	}

	timeout := w.SendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := w.Sender.Send(c, msg.To, msg.Subject, msg.Text, msg.HTML); err != nil {
		helpers.LogError(w.Logger, "send failed", err, logrus.Fields{"to": msg.To})
		return Retry
	}
	helpers.LogInfo(w.Logger, "email sent", logrus.Fields{"to": msg.To, "subject": msg.Subject})
	return Ack
}
