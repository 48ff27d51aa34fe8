package email

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

const htmlHeaders = "MIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\""

type Emailer interface {
	Send(to, subject, additionalHeaders, body string) error
}

type Service struct {
	emailer Emailer
	baseURL string
	brand   string
	tmpl    *template.Template
}

func NewService(emailer Emailer, baseURL, brand string) (*Service, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/confirm_email.html")
	if err != nil {
		return nil, err
	}
	return &Service{
		emailer: emailer,
		baseURL: strings.TrimRight(baseURL, "/"),
		brand:   brand,
		tmpl:    tmpl,
	}, nil
}

func (e *Service) SendConfirmation(toEmail, token string) error {
	var body bytes.Buffer
	err := e.tmpl.Execute(&body, map[string]string{
		"Brand":           e.brand,
		"Email":           toEmail,
		"ConfirmLink":     e.baseURL + "/api/confirm/" + token,
		"UnsubscribeLink": e.baseURL + "/api/unsubscribe/" + token,
	})
	if err != nil {
		return err
	}

	return e.emailer.Send(toEmail,
		"Confirm your "+e.brand+" newsletter subscription",
		htmlHeaders,
		body.String())
}
