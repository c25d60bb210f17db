package sound

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlayer struct {
	mu     sync.Mutex
	played []string
	fail   func(path string) error
}

func (player *recordingPlayer) PlayFile(_ context.Context, path string) error {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.played = append(player.played, path)
	if player.fail != nil {
		return player.fail(path)
	}
	return nil
}

func (player *recordingPlayer) paths() []string {
	player.mu.Lock()
	defer player.mu.Unlock()
	return append([]string(nil), player.played...)
}

func newTestService(t *testing.T, player Player, bell *bytes.Buffer) *Service {
	t.Helper()
	service := NewService(Options{CacheDir: t.TempDir(), Volume: 0.7, Player: player, Bell: bell})
	t.Cleanup(func() { _ = service.Close() })
	return service
}

func TestPlaySync_WritesValidWAV(t *testing.T) {
	player := &recordingPlayer{}
	service := newTestService(t, player, &bytes.Buffer{})

	for _, id := range service.Available() {
		t.Run(id, func(t *testing.T) {
			require.NoError(t, service.PlaySync(context.Background(), id))

			paths := player.paths()
			path := paths[len(paths)-1]
			assert.Contains(t, path, id)

			file, err := os.Open(path)
			require.NoError(t, err)
			defer file.Close()

			decoder := wav.NewDecoder(file)
			assert.True(t, decoder.IsValidFile())
			buffer, err := decoder.FullPCMBuffer()
			require.NoError(t, err)
			assert.NotEmpty(t, buffer.Data)
		})
	}
}

func TestPlaySync_CachesAssets(t *testing.T) {
	player := &recordingPlayer{}
	service := newTestService(t, player, &bytes.Buffer{})

	require.NoError(t, service.PlaySync(context.Background(), "bell"))
	require.NoError(t, service.PlaySync(context.Background(), "bell"))
	service.SetVolume(0.2)
	require.NoError(t, service.PlaySync(context.Background(), "bell"))

	paths := player.paths()
	require.Len(t, paths, 3)
	assert.Equal(t, paths[0], paths[1])
	assert.NotEqual(t, paths[0], paths[2], "volume change renders a new asset")
}

func TestPlaySync_UnknownSoundFallsBackToTone(t *testing.T) {
	player := &recordingPlayer{}
	bell := &bytes.Buffer{}
	service := newTestService(t, player, bell)

	err := service.PlaySync(context.Background(), "kazoo")

	assert.ErrorIs(t, err, ErrUnknownSound)
	paths := player.paths()
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], fallbackID)
	assert.Empty(t, bell.String())
}

func TestPlaySync_PlayerFailureRingsBell(t *testing.T) {
	player := &recordingPlayer{fail: func(string) error { return ErrUnsupported }}
	bell := &bytes.Buffer{}
	service := newTestService(t, player, bell)

	err := service.PlaySync(context.Background(), "gong")

	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Len(t, player.paths(), 2, "sound then fallback tone")
	assert.Equal(t, "\a", bell.String())
}

func TestPlay_IsAsynchronousAndBestEffort(t *testing.T) {
	release := make(chan struct{})
	player := &recordingPlayer{fail: func(string) error {
		<-release
		return errors.New("device busy")
	}}
	bell := &bytes.Buffer{}
	service := newTestService(t, player, bell)

	service.Play("chime")
	close(release)
	service.Wait()

	assert.Equal(t, "\a", bell.String())
}

func TestSetVolumeClamps(t *testing.T) {
	service := newTestService(t, &recordingPlayer{}, &bytes.Buffer{})

	service.SetVolume(3)
	assert.Equal(t, 1.0, service.Volume())
	service.SetVolume(-1)
	assert.Equal(t, 0.0, service.Volume())
}

func TestClose_RemovesOwnedCacheDir(t *testing.T) {
	service := NewService(Options{Volume: 0.5, Player: &recordingPlayer{}, Bell: &bytes.Buffer{}})
	require.NoError(t, service.PlaySync(context.Background(), "ding"))
	dir := service.dir
	require.DirExists(t, dir)

	require.NoError(t, service.Close())

	assert.NoDirExists(t, dir)
}

func TestSynthesizeRespectsVolume(t *testing.T) {
	loud := synthesize(voices["ding"], 1)
	silent := synthesize(voices["ding"], 0)

	require.Equal(t, len(loud), len(silent))
	var peak int
	for i := range loud {
		assert.Zero(t, silent[i])
		if loud[i] > peak {
			peak = loud[i]
		}
	}
	assert.Greater(t, peak, maxSample/4)
	assert.LessOrEqual(t, peak, maxSample)
}

func TestPlayAt_UsesGivenVolume(t *testing.T) {
	player := &recordingPlayer{}
	service := newTestService(t, player, &bytes.Buffer{})

	service.PlayAt("bell", 0.25)
	service.Wait()

	paths := player.paths()
	require.Len(t, paths, 1)
	assert.Contains(t, paths[0], "bell-025")
	assert.Equal(t, 0.7, service.Volume(), "preview leaves the volume unchanged")
}
