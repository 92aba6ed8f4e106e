package contact

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/salwynchristopher/portfolio/internal/mail"
)

const (
	adminSubjectPrefix = "Portfolio Contact: "
	ackSubject         = "Thank you for contacting me"
)

// html/template escapes & < > " ' (and a few more) in every interpolation
var (
	adminTemplate = template.Must(template.New("admin").Parse(`
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
`))

	ackTemplate = template.Must(template.New("ack").Parse(`
<h2>Thank you, {{.Name}}!</h2>
<p>I received your message and will get back to you as soon as possible.</p>
<p><strong>Your message:</strong></p>
<p>{{.Subject}}</p>
<p>Best regards,<br>{{.Owner}}</p>
`))
)

type templateData struct {
	Submission
	Lines []string
	Owner string
}

// Composer builds the two emails sent for an accepted submission
type Composer struct {
	Sender string
	Owner  string
}

// Admin builds the notification sent to the site owner. Replies go to the
// submitter.
func (c Composer) Admin(s Submission) (mail.Message, error) {
	body, err := render(adminTemplate, templateData{Submission: s, Lines: splitLines(s.Message)})
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		From:    c.Sender,
		To:      c.Sender,
		Subject: adminSubjectPrefix + s.Subject,
		HTML:    body,
		ReplyTo: s.Email,
	}, nil
}

// Acknowledgment builds the thank-you email sent to the submitter
func (c Composer) Acknowledgment(s Submission) (mail.Message, error) {
	body, err := render(ackTemplate, templateData{Submission: s, Owner: c.Owner})
	if err != nil {
		return mail.Message{}, err
	}
	return mail.Message{
		From:    c.Sender,
		To:      s.Email,
		Subject: ackSubject,
		HTML:    body,
	}, nil
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
