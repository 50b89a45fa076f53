package services

import (
	"bytes"
	"html/template"
)

// AutoReplySubject is the subject of the contact form acknowledgement
const AutoReplySubject = "We Received Your Message - CareLink"

var autoReplyTemplate = template.Must(template.New("auto_reply").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #667eea;">Thank You for Contacting CareLink</h2>
  <p>Dear {{.Name}},</p>
  <p>We have received your message and our team will get back to you within 24 hours.</p>
  {{if .Service}}<p><strong>Service requested:</strong> {{.Service}}</p>{{end}}
  <p><strong>Your message:</strong></p>
  <blockquote style="border-left: 3px solid #667eea; padding-left: 12px; color: #555;">{{.Message}}</blockquote>
  <p>Best regards,<br>The CareLink Team</p>
</div>`))

// AutoReplyData fills the acknowledgement template
type AutoReplyData struct {
	Name    string
	Service string
	Message string
}

// RenderAutoReply renders the acknowledgement body with HTML escaping
func RenderAutoReply(data AutoReplyData) (string, error) {
	var buf bytes.Buffer
	if err := autoReplyTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
