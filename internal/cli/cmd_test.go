package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tomodoro "tomodoro/internal/app"
	"tomodoro/internal/config"
	"tomodoro/internal/core/model"
	"tomodoro/internal/storage"
	"tomodoro/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silentPlayer struct {
	mu    sync.Mutex
	files []string
}

func (player *silentPlayer) PlayFile(_ context.Context, path string) error {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.files = append(player.files, filepath.Base(path))
	return nil
}

type testEnv struct {
	dir       string
	player    *silentPlayer
	frontends Frontends
	launched  []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{"TOMODORO_CONFIG_DIR", "TOMODORO_DB", "TOMODORO_DEBUG", "TOMODORO_LOG_FILE", "TOMODORO_TICK"} {
		t.Setenv(key, "")
	}
	env := &testEnv{dir: t.TempDir(), player: &silentPlayer{}}
	env.frontends = Frontends{
		GUI: func(ctx context.Context, a *tomodoro.App) error {
			env.launched = append(env.launched, "gui")
			return nil
		},
		TUI: func(ctx context.Context, a *tomodoro.App) error {
			env.launched = append(env.launched, "tui")
			return nil
		},
	}
	return env
}

// executeCmd runs the command tree against the env's config dir and captures
// stdout and stderr.
func (env *testEnv) executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(env.frontends, tomodoro.WithSoundPlayer(env.player), tomodoro.WithoutBell())
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--config-dir", env.dir}, args...))
	err := root.Execute()
	return buf.String(), err
}

func (env *testEnv) seedSessions(t *testing.T, sessions ...model.Session) {
	t.Helper()
	a, err := tomodoro.Open(&config.Config{ConfigDir: env.dir, DBPath: filepath.Join(env.dir, "tomodoro.db")})
	require.NoError(t, err)
	defer a.Close()
	_, err = a.Sessions.Import(context.Background(), sessions)
	require.NoError(t, err)
}

// --- front ends ---

func TestRootCmd_LaunchesGUI(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.executeCmd(t)

	require.NoError(t, err)
	assert.Equal(t, []string{"gui"}, env.launched)
	assert.FileExists(t, filepath.Join(env.dir, "tomodoro.db"))
}

func TestTUICmd_RequiresTerminal(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.executeCmd(t, "tui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
	assert.Empty(t, env.launched)
}

func TestRootCmd_MissingFrontend(t *testing.T) {
	env := newTestEnv(t)
	env.frontends.GUI = nil

	_, err := env.executeCmd(t, "gui")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not available")
}

// --- settings ---

func TestSettingsCmd_SetAndShow(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.executeCmd(t, "settings", "set", "focus_duration", "50")
	require.NoError(t, err)

	output, err := env.executeCmd(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, output, "focus_duration")
	assert.Contains(t, output, "50")
}

func TestSettingsCmd_SetRejectsInvalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.executeCmd(t, "settings", "set", "break_duration", "45")

	assert.ErrorIs(t, err, storage.ErrInvalidSetting)
}

func TestSettingsCmd_Path(t *testing.T) {
	env := newTestEnv(t)

	output, err := env.executeCmd(t, "settings", "path")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.dir, "settings.yaml"), strings.TrimSpace(output))
}

func TestSettingsCmd_Reset(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.executeCmd(t, "settings", "set", "focus_color", "#10b981")
	require.NoError(t, err)

	_, err = env.executeCmd(t, "settings", "reset")
	require.NoError(t, err)

	settings, err := storage.NewSettingsStore(env.dir, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), settings)
}

func TestSettingsCmd_EditRequiresTerminal(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.executeCmd(t, "settings", "edit")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings set")
}

func TestSettingsFormValues_Apply(t *testing.T) {
	values := newSettingsFormValues(model.DefaultSettings())
	values.focusMinutes = "45"
	values.breakColor = "#14B8A6"
	values.volume = "0.4"

	updated, err := values.apply(model.DefaultSettings())

	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, updated.FocusDuration)
	assert.Equal(t, "#14B8A6", updated.BreakColor)
	assert.Equal(t, 0.4, updated.Volume)

	values.breakMinutes = "0"
	_, err = values.apply(model.DefaultSettings())
	assert.Error(t, err)
}

func TestColorOptions_IncludesCustomColor(t *testing.T) {
	assert.Len(t, colorOptions("#8B5CF6"), len(model.ColorPresets))
	assert.Len(t, colorOptions("#123456"), len(model.ColorPresets)+1)
}

// --- history ---

func TestHistoryCmd_Empty(t *testing.T) {
	env := newTestEnv(t)

	output, err := env.executeCmd(t, "history")

	require.NoError(t, err)
	assert.Contains(t, output, "No sessions found.")
	assert.NotContains(t, output, "Overall")
}

func TestHistoryCmd_ShowsDay(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	env.seedSessions(t,
		testutil.NewTestSession(start, 1500, testutil.WithEnd(start.Add(25*time.Minute))),
		testutil.NewTestSession(start.Add(time.Hour), 600),
		testutil.NewTestSession(start.AddDate(0, 0, 1), 900),
	)

	output, err := env.executeCmd(t, "history", "--date", "2026-03-10")

	require.NoError(t, err)
	assert.Contains(t, output, "2026-03-10")
	assert.Contains(t, output, "25:00")
	assert.Contains(t, output, "10:00")
	assert.Contains(t, output, "2 sessions, 35m")
	assert.NotContains(t, output, "15:00")
	assert.Contains(t, output, "Overall: 3 sessions, 2 days active, 50m focus")
}

func TestHistoryCmd_OverallShownForEmptyRange(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	env.seedSessions(t, testutil.NewTestSession(start, 1500))

	output, err := env.executeCmd(t, "history", "--date", "2026-03-12")

	require.NoError(t, err)
	assert.Contains(t, output, "No sessions found.")
	assert.Contains(t, output, "Overall: 1 session, 1 day active, 25m focus")
}

func TestHistoryCmd_InvalidFlags(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.executeCmd(t, "history", "--date", "10/03/2026")
	assert.Error(t, err)

	_, err = env.executeCmd(t, "history", "--days", "0")
	assert.Error(t, err)
}

func TestHistoryRange(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	from, to, err := historyRange("", 3, now)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), to)
}

func TestHistoryExportImport_RoundTrip(t *testing.T) {
	source := newTestEnv(t)
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	source.seedSessions(t,
		testutil.NewTestSession(start, 1500),
		testutil.NewTestSession(start.Add(time.Hour), 300),
	)
	exportPath := filepath.Join(t.TempDir(), "export.json")

	output, err := source.executeCmd(t, "history", "export", "--out", exportPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Exported 2 sessions")

	raw, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	var exported []model.Session
	require.NoError(t, json.Unmarshal(raw, &exported))
	require.Len(t, exported, 2)
	assert.Equal(t, 1500, exported[0].Duration)

	target := newTestEnv(t)
	output, err = target.executeCmd(t, "history", "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Imported 2 sessions (2 in the log)")

	output, err = target.executeCmd(t, "history", "export")
	require.NoError(t, err)
	assert.Contains(t, output, exported[0].ID)
}

func TestHistoryImport_RejectsBadFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := env.executeCmd(t, "history", "import", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing import file")
}

// --- sounds ---

func TestSoundsCmd_List(t *testing.T) {
	env := newTestEnv(t)

	output, err := env.executeCmd(t, "sounds", "list")

	require.NoError(t, err)
	for _, id := range model.Sounds {
		assert.Contains(t, output, id)
	}
}

func TestSoundsCmd_Play(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.executeCmd(t, "sounds", "play", "gong")
	require.NoError(t, err)

	env.player.mu.Lock()
	defer env.player.mu.Unlock()
	require.Len(t, env.player.files, 1)
	assert.Contains(t, env.player.files[0], "gong")
}

func TestSoundsCmd_PlayUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.executeCmd(t, "sounds", "play", "kazoo")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sound")
}
