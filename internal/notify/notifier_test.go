package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

func TestNotifier_SendsWhenEnabled(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(mailer, repository.NewMemoryPreferenceRepository())
	user := &models.User{ID: 1, Name: "Alice", Username: "alice", Email: "a@x.io"}

	n.Welcome(context.Background(), user)
	n.PasswordChanged(context.Background(), user)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "a@x.io", mailer.sent[0].ToEmail)
	assert.Contains(t, mailer.sent[1].Subject, "password")
}

func TestNotifier_EscapesHTML(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(mailer, repository.NewMemoryPreferenceRepository())
	user := &models.User{ID: 1, Name: "<script>alert(1)</script>", Username: "a&b", Email: "a@x.io"}

	n.Welcome(context.Background(), user)

	require.Len(t, mailer.sent, 1)
	assert.NotContains(t, mailer.sent[0].HTML, "<script>")
	assert.Contains(t, mailer.sent[0].HTML, "&lt;script&gt;")
	assert.Contains(t, mailer.sent[0].HTML, "a&amp;b")
}

func TestNotifier_SkipsWhenDisabled(t *testing.T) {
	ctx := context.Background()
	mailer := &recordingMailer{}
	prefs := repository.NewMemoryPreferenceRepository()
	require.NoError(t, prefs.Save(ctx, 1, models.NotificationPreferences{EmailNotifications: false}))

	NewNotifier(mailer, prefs).Welcome(ctx, &models.User{ID: 1, Email: "a@x.io"})

	assert.Empty(t, mailer.sent)
}

func TestNotifier_SwallowsMailerErrors(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	n := NewNotifier(mailer, repository.NewMemoryPreferenceRepository())

	assert.NotPanics(t, func() {
		n.Welcome(context.Background(), &models.User{ID: 1, Email: "a@x.io"})
	})
	assert.Len(t, mailer.sent, 1)
}

func TestNilNotifierIsNoop(t *testing.T) {
	var n *Notifier
	assert.NotPanics(t, func() { n.Welcome(context.Background(), &models.User{ID: 1}) })
}
