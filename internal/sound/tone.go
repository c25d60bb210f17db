package sound

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	sampleRate = 44100
	bitDepth   = 16
	maxSample  = 1<<(bitDepth-1) - 1
)

// fallbackID names the plain beep played when a sound cannot be played.
const fallbackID = "fallback"

type partial struct {
	freq float64
	amp  float64
}

// note is a decaying sum of sine partials starting at offset seconds.
type note struct {
	offset   float64
	length   float64
	decay    float64
	partials []partial
}

var voices = map[string][]note{
	"bell": {
		{length: 1.2, decay: 3.5, partials: []partial{{880, 0.6}, {1760, 0.25}, {2640, 0.1}}},
	},
	"chime": {
		{length: 0.6, decay: 5, partials: []partial{{1046.5, 0.5}, {2093, 0.15}}},
		{offset: 0.25, length: 0.8, decay: 4, partials: []partial{{1318.5, 0.5}, {2637, 0.15}}},
	},
	"ding": {
		{length: 0.5, decay: 7, partials: []partial{{1318.5, 0.7}, {3956, 0.1}}},
	},
	"gong": {
		{length: 2.0, decay: 1.6, partials: []partial{{98, 0.4}, {196, 0.35}, {294, 0.2}, {415, 0.1}}},
	},
	"notification": {
		{length: 0.12, partials: []partial{{660, 0.5}}},
		{offset: 0.16, length: 0.12, partials: []partial{{880, 0.5}}},
	},
	fallbackID: {
		{length: 0.1, partials: []partial{{800, 0.3}}},
	},
}

// synthesize renders notes as 16-bit mono samples scaled by volume.
func synthesize(notes []note, volume float64) []int {
	var total float64
	for _, n := range notes {
		total = math.Max(total, n.offset+n.length)
	}
	mix := make([]float64, int(total*sampleRate))

	for _, n := range notes {
		start := int(n.offset * sampleRate)
		count := int(n.length * sampleRate)
		for i := 0; i < count && start+i < len(mix); i++ {
			t := float64(i) / sampleRate
			envelope := 1.0
			if n.decay > 0 {
				envelope = math.Exp(-n.decay * t)
			}
			// 5 ms ramps avoid clicks at the edges.
			envelope *= math.Min(1, math.Min(t, n.length-t)/0.005)
			var value float64
			for _, p := range n.partials {
				value += p.amp * math.Sin(2*math.Pi*p.freq*t)
			}
			mix[start+i] += value * envelope
		}
	}

	samples := make([]int, len(mix))
	for i, value := range mix {
		value = math.Max(-1, math.Min(1, value*volume))
		samples[i] = int(value * maxSample)
	}
	return samples
}

// writeWAV encodes the voice for id as a mono PCM WAV file.
func writeWAV(w io.WriteSeeker, id string, volume float64) error {
	notes, ok := voices[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSound, id)
	}

	encoder := wav.NewEncoder(w, sampleRate, bitDepth, 1, 1)
	buffer := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           synthesize(notes, volume),
		SourceBitDepth: bitDepth,
	}
	if err := encoder.Write(buffer); err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finish %s: %w", id, err)
	}
	return nil
}
