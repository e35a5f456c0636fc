// Package wav renders sink output into wav files. It emulates a host
// engine: a single pre-allocated host buffer is filled repeatedly and
// encoded as integer PCM.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"pipelined.dev/synth"
	"pipelined.dev/synth/signal"
)

// pcmFormat is the wav audio format code for integer PCM.
const pcmFormat = 1

var (
	// ErrUnsupportedBitDepth is returned when unsupported bit depth is used.
	ErrUnsupportedBitDepth = errors.New("only 16, 24 and 32 bit depths are supported")
	// ErrInvalidFormat is returned when format has non-positive values.
	ErrInvalidFormat = errors.New("invalid format")
)

// Format defines output file properties and host buffer size in frames.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   signal.BitDepth
	BufferSize int
}

// Validate checks if format can be rendered.
func (f Format) Validate() error {
	switch f.BitDepth {
	case signal.BitDepth16, signal.BitDepth24, signal.BitDepth32:
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, f.BitDepth)
	}
	if f.SampleRate <= 0 || f.Channels <= 0 || f.BufferSize <= 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidFormat, f)
	}
	return nil
}

// Render fills sink buffer by buffer until frames are produced and
// encodes the result into ws. The last buffer is trimmed to the remaining
// frames.
func Render(ws io.WriteSeeker, sink *synth.Sink, f Format, frames int) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if frames <= 0 {
		return fmt.Errorf("%w: frames must be > 0: %d", ErrInvalidFormat, frames)
	}

	host := make(signal.Interleaved, f.BufferSize*f.Channels)
	ints := make([]int, len(host))
	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: f.Channels,
			SampleRate:  f.SampleRate,
		},
		SourceBitDepth: int(f.BitDepth),
	}
	e := wav.NewEncoder(ws, f.SampleRate, int(f.BitDepth), f.Channels, pcmFormat)
	for rendered := 0; rendered < frames; rendered += f.BufferSize {
		if err := sink.Fill(host, f.Channels); err != nil {
			return errors.Join(err, e.Close())
		}
		n := min(f.BufferSize, frames-rendered) * f.Channels
		host[:n].AsInts(f.BitDepth, ints)
		ib.Data = ints[:n]
		if err := e.Write(ib); err != nil {
			return errors.Join(fmt.Errorf("encode: %w", err), e.Close())
		}
	}
	return e.Close()
}

// RenderFile renders sink output into a new file at path.
func RenderFile(path string, sink *synth.Sink, f Format, frames int) error {
	if err := f.Validate(); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Render(file, sink, f, frames); err != nil {
		return errors.Join(err, file.Close())
	}
	return file.Close()
}
