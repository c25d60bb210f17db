package desktop

import (
	"errors"
	"testing"
	"time"

	"tomodoro/internal/core/model"
	"tomodoro/internal/core/timer"
	"tomodoro/internal/logging"
	"tomodoro/internal/storage"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifyingApp struct {
	fyne.App
	sent []*fyne.Notification
}

func (app *notifyingApp) SendNotification(notification *fyne.Notification) {
	app.sent = append(app.sent, notification)
}

type failingStore struct{}

func (failingStore) Save(model.Settings) error { return errors.New("disk full") }

func newTestTimer(t *testing.T, mode model.Mode) *timer.Timer {
	t.Helper()
	tm := timer.New(model.DefaultSettings().TimerConfig(), mode, timer.Config{TickInterval: time.Hour})
	t.Cleanup(tm.Close)
	return tm
}

func TestPreferencesSaver_KeepsTimerMode(t *testing.T) {
	store := storage.NewSettingsStore(t.TempDir(), nil)
	tm := newTestTimer(t, model.ModeBreak)
	var applied []model.Settings
	save := preferencesSaver(store, tm, logging.Discard(), func(string) {
		t.Fatal("no notification expected")
	}, func(settings model.Settings) {
		applied = append(applied, settings)
	})

	form := model.DefaultSettings()
	form.Mode = model.ModeFocus
	form.FocusDuration = 30 * time.Minute
	save(form)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, model.ModeBreak, stored.Mode)
	assert.Equal(t, 30*time.Minute, stored.FocusDuration)
	require.Len(t, applied, 1)
	assert.Equal(t, model.ModeBreak, applied[0].Mode)
}

func TestPreferencesSaver_FailureNotifiesWithoutApplying(t *testing.T) {
	tm := newTestTimer(t, model.ModeFocus)
	var messages []string
	save := preferencesSaver(failingStore{}, tm, logging.Discard(), func(message string) {
		messages = append(messages, message)
	}, func(model.Settings) {
		t.Fatal("apply must not run after a failed save")
	})

	save(model.DefaultSettings())

	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "disk full")
}

func TestHandleEvent_RoutesNotifications(t *testing.T) {
	tests := []struct {
		name     string
		event    timer.Event
		want     string
		recorded int
	}{
		{name: "focus completed", event: timer.Event{Type: timer.EventCompleted, Mode: model.ModeFocus}, want: "Focus finished. Time for a break."},
		{name: "break completed", event: timer.Event{Type: timer.EventCompleted, Mode: model.ModeBreak}, want: "Break is over. Ready to focus?"},
		{name: "collaborator error", event: timer.Event{Type: timer.EventError, Message: "database is locked"}, want: "database is locked"},
		{name: "session recorded", event: timer.Event{Type: timer.EventSessionRecorded}, recorded: 1},
		{name: "progress", event: timer.Event{Type: timer.EventProgress}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := &notifyingApp{App: test.NewTempApp(t)}
			recorded := 0

			handleEvent(app, tt.event, func() { recorded++ })

			assert.Equal(t, tt.recorded, recorded)
			if tt.want == "" {
				assert.Empty(t, app.sent)
				return
			}
			require.Len(t, app.sent, 1)
			assert.Equal(t, "tomodoro", app.sent[0].Title)
			assert.Equal(t, tt.want, app.sent[0].Content)
		})
	}
}
