package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	portssvc "github.com/hirelens/hirelens_backend/internal/core/ports/services"
	"github.com/hirelens/hirelens_backend/internal/platform/config"
)

// smtpNotifier sends invitation emails over plain SMTP with optional auth.
type smtpNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *slog.Logger
}

// NewSMTPNotifier creates an invitation notifier from configuration. Returns
// a no-op notifier when no SMTP host is configured, so local development
// works without a mail server.
func NewSMTPNotifier(cfg *config.AppConfig, logger *slog.Logger) portssvc.InvitationNotifierSvc {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not configured, invitation emails will be logged only")
		return &logOnlyNotifier{logger: logger}
	}
	return &smtpNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		logger:   logger,
	}
}

var _ portssvc.InvitationNotifierSvc = (*smtpNotifier)(nil)

// SendInvitationEmail delivers the invitation message to one recipient.
func (n *smtpNotifier) SendInvitationEmail(ctx context.Context, email, inviterName, workspaceName, inviteURL string) error {
	subject := fmt.Sprintf("You're invited to join %s on HireLens", workspaceName)
	if workspaceName == "" {
		subject = "You're invited to a HireLens workspace"
	}

	inviter := inviterName
	if inviter == "" {
		inviter = "A workspace admin"
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("From: %s\r\n", n.from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", email))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	body.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	body.WriteString(fmt.Sprintf("%s has invited you to join the %s workspace on HireLens.\r\n\r\n", inviter, workspaceName))
	body.WriteString(fmt.Sprintf("Accept the invitation: %s\r\n\r\n", inviteURL))
	body.WriteString("The link expires in 7 days. If you weren't expecting this, you can ignore this email.\r\n")

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	if err := smtp.SendMail(addr, auth, n.from, []string{email}, []byte(body.String())); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	n.logger.Info("Invitation email sent", slog.String("to", email))
	return nil
}

// logOnlyNotifier records what would have been sent. Used when SMTP is not
// configured.
type logOnlyNotifier struct {
	logger *slog.Logger
}

var _ portssvc.InvitationNotifierSvc = (*logOnlyNotifier)(nil)

func (n *logOnlyNotifier) SendInvitationEmail(ctx context.Context, email, inviterName, workspaceName, inviteURL string) error {
	n.logger.Info("Invitation email (not sent, SMTP disabled)",
		slog.String("to", email),
		slog.String("workspace", workspaceName),
		slog.String("invite_url", inviteURL))
	return nil
}
