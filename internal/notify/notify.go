// Package notify delivers account emails. The auth service treats delivery
// as fire-and-forget: a failed send is logged and never fails the request
// that triggered it.
package notify

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/aussiebroadwan/rolodex/pkg/slogx"
)

// Notifier sends account-lifecycle messages to a user.
type Notifier interface {
	// SendConfirmation delivers the email-confirmation link for the given
	// account. The token is a signed confirmation token; the implementation
	// embeds it in a link under its configured public base URL.
	SendConfirmation(ctx context.Context, email, username, confirmToken string) error
}

// LogNotifier writes the confirmation link to the structured log instead of
// sending mail. It is the default in development and in tests; deployments
// swap in a real mail transport behind the same interface.
type LogNotifier struct {
	// BaseURL is the public origin the confirmation link is built against,
	// e.g. "http://localhost:8080".
	BaseURL string
}

func (n *LogNotifier) SendConfirmation(ctx context.Context, email, username, confirmToken string) error {
	link := n.BaseURL + "/v1/email/confirm/" + url.PathEscape(confirmToken)

	slogx.FromContext(ctx).Info("confirmation email",
		slog.String("email", email),
		slog.String("username", username),
		slog.String("link", link),
	)
	return nil
}
