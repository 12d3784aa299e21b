// Package notify queues templated emails and sends the periodic budget
// digest.
package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"
	"sync"

	"github.com/sebuszqo/FlexiFi/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

type EmailData interface {
	TemplateFileName() string
	Subject() string
}

type EmailSender interface {
	QueueEmail(to string, data EmailData)
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer renders emails from the embedded templates and delivers them from a
// single background worker.
type Mailer struct {
	cfg       SMTPConfig
	templates *template.Template
	taskQueue chan emailTask
	send      sendFunc
	logger    logging.Logger
	done      sync.WaitGroup
	closeOnce sync.Once
}

type emailTask struct {
	to   string
	data EmailData
}

func NewMailer(cfg SMTPConfig, logger logging.Logger) (*Mailer, error) {
	return newMailer(cfg, logger, smtp.SendMail)
}

func newMailer(cfg SMTPConfig, logger logging.Logger, send sendFunc) (*Mailer, error) {
	if cfg.From == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp sender address and password must be set")
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	m := &Mailer{
		cfg:       cfg,
		templates: tmpl,
		taskQueue: make(chan emailTask, 100),
		send:      send,
		logger:    logger,
	}
	m.done.Add(1)
	go m.worker()
	return m, nil
}

func (m *Mailer) worker() {
	defer m.done.Done()
	for task := range m.taskQueue {
		if err := m.sendTemplatedEmail(task.to, task.data); err != nil {
			m.logger.WithError(err).Error("Error sending email",
				logging.Field{Key: logging.FieldRecipient, Value: task.to})
		}
	}
}

func (m *Mailer) QueueEmail(to string, data EmailData) {
	m.taskQueue <- emailTask{to: to, data: data}
}

// Close stops accepting emails and waits for the queue to drain.
func (m *Mailer) Close() {
	m.closeOnce.Do(func() {
		close(m.taskQueue)
	})
	m.done.Wait()
}

func (m *Mailer) render(to string, data EmailData) ([]byte, error) {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, data.TemplateFileName(), data); err != nil {
		return nil, fmt.Errorf("error executing template: %w", err)
	}

	message := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + data.Subject() + "\r\n" +
		"MIME-version: 1.0;\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\";\r\n\r\n" +
		body.String())
	return message, nil
}

func (m *Mailer) sendTemplatedEmail(to string, data EmailData) error {
	message, err := m.render(to, data)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.From, []string{to}, message); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}
