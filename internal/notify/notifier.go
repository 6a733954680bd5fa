package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/taskflow/taskflow-api/internal/logger"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
)

// Notifier sends account emails. Delivery problems are logged and never
// returned to the caller.
type Notifier struct {
	mailer Mailer
	prefs  repository.PreferenceRepository
}

func NewNotifier(mailer Mailer, prefs repository.PreferenceRepository) *Notifier {
	return &Notifier{mailer: mailer, prefs: prefs}
}

func (n *Notifier) Welcome(ctx context.Context, user *models.User) {
	n.send(ctx, user, Message{
		Subject:   "Welcome to TaskFlow",
		PlainText: fmt.Sprintf("Hi %s, your TaskFlow account %q is ready.", user.Name, user.Username),
		HTML:      fmt.Sprintf("<p>Hi %s,</p><p>your TaskFlow account <strong>%s</strong> is ready.</p>", html.EscapeString(user.Name), html.EscapeString(user.Username)),
	})
}

func (n *Notifier) PasswordChanged(ctx context.Context, user *models.User) {
	n.send(ctx, user, Message{
		Subject:   "Your TaskFlow password was changed",
		PlainText: fmt.Sprintf("Hi %s, the password for %q was just changed. If this wasn't you, contact an administrator.", user.Name, user.Username),
		HTML:      fmt.Sprintf("<p>Hi %s,</p><p>the password for <strong>%s</strong> was just changed. If this wasn't you, contact an administrator.</p>", html.EscapeString(user.Name), html.EscapeString(user.Username)),
	})
}

func (n *Notifier) send(ctx context.Context, user *models.User, msg Message) {
	if n == nil || n.mailer == nil {
		return
	}

	prefs, err := n.prefs.Get(ctx, user.ID)
	if err != nil {
		logger.WarnLog(ctx, "notify: failed to load preferences for user %d: %v", user.ID, err)
		return
	}
	if !prefs.EmailNotifications {
		return
	}

	msg.ToName = user.Name
	msg.ToEmail = user.Email
	if err := n.mailer.Send(ctx, msg); err != nil {
		logger.ErrorLog(ctx, "notify: failed to send %q to user %d: %v", msg.Subject, user.ID, err)
	}
}
