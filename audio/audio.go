// Package audio implements the consumer side of emucollab.AudioSource: a
// sample-stream recorder used by tests and cmd/c64core to capture whatever
// PCM an attached SID model produces (spec §1 "an audio sample stream...
// produced per frame"; the SID synthesiser itself is out of scope). Uses
// github.com/go-audio/audio and github.com/go-audio/wav, the same pair the
// teacher pulls in for its own sound-regression fixtures.
package audio

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SampleRate is the fixed PCM rate this core records at; the C64's SID is
// driven by the system clock rather than a standard audio rate, so the
// host's AudioSource implementation is expected to resample to this rate
// before calling Write.
const SampleRate = 44100

// Sink accumulates interleaved 16-bit stereo PCM samples and flushes them
// to a WAV file. It is single-writer: the same goroutine that calls
// machine.Machine.ExecuteOneCycle's audio catch-up is the only one that
// should call Write.
type Sink struct {
	samples []int
}

// NewSink creates an empty recorder.
func NewSink() *Sink {
	return &Sink{}
}

// Write appends interleaved stereo samples (left, right, left, right, ...)
// to the recording.
func (s *Sink) Write(samples []int16) {
	for _, v := range samples {
		s.samples = append(s.samples, int(v))
	}
}

// Len reports how many int16 samples (not frames) have been recorded.
func (s *Sink) Len() int { return len(s.samples) }

// Reset discards all recorded samples, e.g. between test cases.
func (s *Sink) Reset() { s.samples = s.samples[:0] }

// Flush encodes the recorded samples as a 16-bit stereo PCM WAV file and
// writes them to w, then clears the recording.
func (s *Sink) Flush(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, SampleRate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: SampleRate},
		Data:           s.samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	s.Reset()
	return nil
}
