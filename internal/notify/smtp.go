package notify

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// SMTPConfig holds configuration for the SMTP server.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// SMTPNotifier sends messages through an SMTP relay.
type SMTPNotifier struct {
	config   SMTPConfig
	logger   zerolog.Logger
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPNotifier creates an SMTPNotifier.
func NewSMTPNotifier(config SMTPConfig, logger zerolog.Logger) *SMTPNotifier {
	return &SMTPNotifier{config: config, logger: logger, sendMail: smtp.SendMail}
}

// Notify sends msg. Without credentials the message is logged instead of sent.
func (s *SMTPNotifier) Notify(ctx context.Context, msg Message) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Strs("to", msg.To).
			Str("subject", msg.Subject).
			Msg("SMTP credentials not configured - notification not sent")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	if err := s.sendMail(addr, auth, s.config.FromEmail, msg.To, s.compose(msg)); err != nil {
		return fmt.Errorf("failed to send email via %s: %w", addr, err)
	}
	return nil
}

func (s *SMTPNotifier) compose(msg Message) []byte {
	var b strings.Builder
	from := stripLineBreaks(s.config.FromEmail)
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", headerText(s.config.FromName), from)
	}
	to := make([]string, len(msg.To))
	for i, addr := range msg.To {
		to[i] = stripLineBreaks(addr)
	}
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", stripLineBreaks(msg.ReplyTo))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", headerText(msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// stripLineBreaks keeps user-supplied values from starting a new header.
func stripLineBreaks(v string) string {
	return lineBreaks.Replace(v)
}

// headerText returns v as a single-line header value, Q-encoded when it is
// not plain ASCII.
func headerText(v string) string {
	return mime.QEncoding.Encode("utf-8", stripLineBreaks(v))
}

// LogNotifier writes messages to the log. Used when notifications are disabled.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message.
func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.logger.Info().
		Str("kind", msg.Kind).
		Strs("to", msg.To).
		Str("subject", msg.Subject).
		Msg("notification")
	return nil
}
