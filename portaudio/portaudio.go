// Package portaudio plays sink output on the default output device.
package portaudio

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"pipelined.dev/synth"
)

// Stream is an output stream of the default device. Device pulls
// interleaved buffers from the sink on its own real-time thread.
type Stream struct {
	stream *portaudio.Stream
}

// Open initializes portaudio and opens the default output stream bound
// to the sink callback. Stream must be closed to terminate portaudio.
func Open(sink *synth.Sink, sampleRate, channels, framesPerBuffer int) (*Stream, error) {
	if sampleRate <= 0 || channels <= 0 || framesPerBuffer <= 0 {
		return nil, fmt.Errorf("invalid stream parameters: rate %d, channels %d, buffer %d", sampleRate, channels, framesPerBuffer)
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), framesPerBuffer, sink.Callback(channels))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open stream: %w", err), portaudio.Terminate())
	}
	return &Stream{stream: stream}, nil
}

// Start starts the playback.
func (s *Stream) Start() error {
	return s.stream.Start()
}

// Stop stops the playback. Stream can be started again.
func (s *Stream) Stop() error {
	return s.stream.Stop()
}

// Close closes the stream and terminates portaudio.
func (s *Stream) Close() error {
	err := s.stream.Close()
	return errors.Join(err, portaudio.Terminate())
}
