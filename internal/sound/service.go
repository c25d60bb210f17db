package sound

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tomodoro/internal/core/model"
)

var (
	// ErrUnknownSound is returned for ids outside model.Sounds.
	ErrUnknownSound = errors.New("unknown sound")
	// ErrUnsupported is returned when no audio player exists on this platform.
	ErrUnsupported = errors.New("audio playback not supported")
)

// playTimeout bounds a single playback attempt.
const playTimeout = 10 * time.Second

// Player plays a WAV file.
type Player interface {
	PlayFile(ctx context.Context, path string) error
}

// Options configure a Service.
type Options struct {
	// CacheDir holds the synthesized files. Empty means a private temp dir
	// removed by Close.
	CacheDir string
	Volume   float64
	Player   Player
	Logger   *slog.Logger
	// Bell receives the terminal bell when nothing else could be played.
	Bell io.Writer
}

// Service plays completion sounds. Playback is best effort: failures are
// logged and degrade to a short beep, then to the terminal bell.
type Service struct {
	mu       sync.Mutex
	dir      string
	ownsDir  bool
	volume   float64
	cache    map[string]string
	player   Player
	logger   *slog.Logger
	bell     io.Writer
	inflight sync.WaitGroup
}

// NewService creates a sound service.
func NewService(options Options) *Service {
	if options.Player == nil {
		options.Player = NewSystemPlayer()
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if options.Bell == nil {
		options.Bell = os.Stdout
	}
	return &Service{
		dir:    options.CacheDir,
		volume: clampVolume(options.Volume),
		cache:  make(map[string]string),
		player: options.Player,
		logger: options.Logger,
		bell:   options.Bell,
	}
}

// Available lists the playable sound ids.
func (service *Service) Available() []string {
	return append([]string(nil), model.Sounds...)
}

// SetVolume changes the playback volume, clamped to [0, 1].
func (service *Service) SetVolume(volume float64) {
	service.mu.Lock()
	defer service.mu.Unlock()
	service.volume = clampVolume(volume)
}

// Volume returns the playback volume.
func (service *Service) Volume() float64 {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.volume
}

// Play starts playing soundID in the background and returns immediately.
func (service *Service) Play(soundID string) {
	service.PlayAt(soundID, service.Volume())
}

// PlayAt is Play with an explicit volume, used to preview unsaved settings.
func (service *Service) PlayAt(soundID string, volume float64) {
	volume = clampVolume(volume)
	service.inflight.Add(1)
	go func() {
		defer service.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				service.logger.Error("sound playback panicked", "sound", soundID, "panic", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
		defer cancel()
		if err := service.play(ctx, soundID, volume); err != nil {
			service.logger.Warn("sound playback degraded", "sound", soundID, "error", err)
		}
	}()
}

// PlaySync plays soundID and waits for it to finish. When soundID cannot be
// played the fallback beep or the terminal bell is used instead and the
// primary failure is returned.
func (service *Service) PlaySync(ctx context.Context, soundID string) error {
	return service.play(ctx, soundID, service.Volume())
}

func (service *Service) play(ctx context.Context, soundID string, volume float64) error {
	primary := service.playVoice(ctx, soundID, volume)
	if primary == nil {
		return nil
	}

	fallback := service.playVoice(ctx, fallbackID, volume)
	if fallback == nil {
		return primary
	}
	service.logger.Debug("fallback tone failed, ringing bell", "error", fallback)

	if _, err := io.WriteString(service.bell, "\a"); err != nil {
		return errors.Join(primary, fallback, fmt.Errorf("terminal bell: %w", err))
	}
	return primary
}

// Wait blocks until every background Play has finished.
func (service *Service) Wait() {
	service.inflight.Wait()
}

// Close waits for playback and removes a cache dir the service created.
func (service *Service) Close() error {
	service.Wait()
	service.mu.Lock()
	defer service.mu.Unlock()
	if !service.ownsDir || service.dir == "" {
		return nil
	}
	err := os.RemoveAll(service.dir)
	service.dir = ""
	service.ownsDir = false
	service.cache = make(map[string]string)
	return err
}

func (service *Service) playVoice(ctx context.Context, id string, volume float64) error {
	if id != fallbackID && !model.ValidSound(id) {
		return fmt.Errorf("%w: %q", ErrUnknownSound, id)
	}
	path, err := service.asset(id, volume)
	if err != nil {
		return err
	}
	if err := service.player.PlayFile(ctx, path); err != nil {
		return fmt.Errorf("play %s: %w", id, err)
	}
	return nil
}

// asset returns the cached WAV for id at volume, writing it on first use.
func (service *Service) asset(id string, volume float64) (string, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	key := fmt.Sprintf("%s-%03d", id, int(math.Round(volume*100)))
	if path, ok := service.cache[key]; ok {
		return path, nil
	}

	if service.dir == "" {
		dir, err := os.MkdirTemp("", "tomodoro-sounds-")
		if err != nil {
			return "", fmt.Errorf("create sound cache: %w", err)
		}
		service.dir = dir
		service.ownsDir = true
	} else if err := os.MkdirAll(service.dir, 0o755); err != nil {
		return "", fmt.Errorf("create sound cache: %w", err)
	}

	path := filepath.Join(service.dir, key+".wav")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeWAV(file, id, volume); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	service.cache[key] = path
	service.logger.Debug("sound asset written", "sound", id, "path", path)
	return path, nil
}

func clampVolume(volume float64) float64 {
	if math.IsNaN(volume) {
		return model.DefaultSettings().Volume
	}
	return math.Max(0, math.Min(1, volume))
}
