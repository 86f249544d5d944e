package placeholders

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"time"

	"chosenoffset.com/genplaceholders/internal/fileutil"
)

// ToneOptions are the audio defaults applied to catalog entries
type ToneOptions struct {
	SampleRate   int           // Samples per second
	Amplitude    int           // Peak sample value, at most 32767
	Duration     time.Duration // Default length of sound effects
	MinFrequency float64       // Lower bound for seed-derived frequencies
	MaxFrequency float64       // Upper bound for seed-derived frequencies
}

// DefaultToneOptions matches the classic placeholder beep
func DefaultToneOptions() ToneOptions {
	return ToneOptions{
		SampleRate:   22050,
		Amplitude:    16000,
		Duration:     250 * time.Millisecond,
		MinFrequency: 440,
		MaxFrequency: 1320,
	}
}

// Tone is a mono sine wave
type Tone struct {
	Frequency  float64
	Duration   time.Duration
	SampleRate int
	Amplitude  int
}

// ToneFor builds the tone for an asset. A zero frequency or duration is
// filled from opts; the frequency is derived from seed so every run of the
// generator produces the same file.
func ToneFor(seed string, frequency float64, duration time.Duration, opts ToneOptions) Tone {
	if frequency <= 0 {
		lo := int(math.Round(opts.MinFrequency))
		hi := int(math.Round(opts.MaxFrequency))
		if hi < lo {
			hi = lo
		}
		frequency = float64(lo + seededRand(seed).IntN(hi-lo+1))
	}
	if duration <= 0 {
		duration = opts.Duration
	}
	return Tone{
		Frequency:  frequency,
		Duration:   duration,
		SampleRate: opts.SampleRate,
		Amplitude:  opts.Amplitude,
	}
}

// FrameCount is the number of samples the tone spans
func (t Tone) FrameCount() int {
	return int(t.Duration.Seconds() * float64(t.SampleRate))
}

// Samples renders the tone as signed 16-bit samples
func (t Tone) Samples() []int16 {
	n := t.FrameCount()
	samples := make([]int16, n)
	step := 2 * math.Pi * t.Frequency / float64(t.SampleRate)
	for i := range samples {
		// Truncate toward zero like an int() cast.
		samples[i] = int16(float64(t.Amplitude) * math.Sin(step*float64(i)))
	}
	return samples
}

func (t Tone) validate() error {
	if t.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate %d", t.SampleRate)
	}
	if t.Amplitude < 0 || t.Amplitude > math.MaxInt16 {
		return fmt.Errorf("amplitude %d out of range", t.Amplitude)
	}
	if t.Frequency <= 0 {
		return fmt.Errorf("invalid frequency %v", t.Frequency)
	}
	if nyquist := float64(t.SampleRate) / 2; t.Frequency >= nyquist {
		return fmt.Errorf("frequency %.0f Hz must be below %.0f Hz", t.Frequency, nyquist)
	}
	return nil
}

const (
	wavHeaderSize  = 44
	wavFormatPCM   = 1
	wavChannels    = 1
	wavBitsPerSamp = 16
)

// WriteWAV encodes the tone as a 16-bit mono PCM RIFF/WAVE stream
func WriteWAV(w io.Writer, t Tone) error {
	if err := t.validate(); err != nil {
		return err
	}

	samples := t.Samples()
	blockAlign := wavChannels * wavBitsPerSamp / 8
	dataSize := len(samples) * blockAlign

	header := make([]byte, 0, wavHeaderSize)
	header = append(header, "RIFF"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(36+dataSize))
	header = append(header, "WAVE"...)
	header = append(header, "fmt "...)
	header = binary.LittleEndian.AppendUint32(header, 16)
	header = binary.LittleEndian.AppendUint16(header, wavFormatPCM)
	header = binary.LittleEndian.AppendUint16(header, wavChannels)
	header = binary.LittleEndian.AppendUint32(header, uint32(t.SampleRate))
	header = binary.LittleEndian.AppendUint32(header, uint32(t.SampleRate*blockAlign))
	header = binary.LittleEndian.AppendUint16(header, uint16(blockAlign))
	header = binary.LittleEndian.AppendUint16(header, wavBitsPerSamp)
	header = append(header, "data"...)
	header = binary.LittleEndian.AppendUint32(header, uint32(dataSize))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}

	data := make([]byte, 0, dataSize)
	for _, s := range samples {
		data = binary.LittleEndian.AppendUint16(data, uint16(s))
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	return nil
}

// SaveWAV writes the tone to path, creating parent directories
func SaveWAV(path string, t Tone) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return WriteWAV(w, t)
	})
}
