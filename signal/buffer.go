package signal

import (
	"errors"
	"fmt"
	"math"

	"pipelined.dev/synth/native"
)

var (
	// ErrInvalidShape is returned for non-positive or non-divisible
	// frame and channel counts.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrOutOfRange is returned when sample index is outside of buffer.
	ErrOutOfRange = errors.New("index out of range")
)

// Shape is a size of interleaved buffer.
type Shape struct {
	Frames   int
	Channels int
}

// Len returns number of samples in buffer of this shape.
func (s Shape) Len() int {
	return s.Frames * s.Channels
}

// Valid returns true if both dimensions are positive and the number of
// samples fits into int.
func (s Shape) Valid() bool {
	return s.Frames > 0 && s.Channels > 0 && s.Frames <= math.MaxInt/s.Channels
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Frames, s.Channels)
}

// ShapeOf returns shape of flat interleaved buffer with length samples.
func ShapeOf(length, channels int) (Shape, error) {
	if channels <= 0 || length <= 0 || length%channels != 0 {
		return Shape{}, &ShapeError{Length: length, Channels: channels, flat: true}
	}
	return Shape{Frames: length / channels, Channels: channels}, nil
}

// ShapeError describes rejected shape.
type ShapeError struct {
	Frames   int
	Channels int
	Length   int // length of flat buffer the shape was derived from
	flat     bool
}

func (e *ShapeError) Error() string {
	if e.flat {
		return fmt.Sprintf("invalid shape: %d samples for %d channels", e.Length, e.Channels)
	}
	return fmt.Sprintf("invalid shape: %d frames, %d channels", e.Frames, e.Channels)
}

// Is makes ShapeError match ErrInvalidShape.
func (e *ShapeError) Is(err error) bool {
	return err == ErrInvalidShape
}

// IndexError describes out of range access.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// Is makes IndexError match ErrOutOfRange.
func (e *IndexError) Is(err error) bool {
	return err == ErrOutOfRange
}

// Buffer is a channel-interleaved view over native memory. Sample for
// frame f and channel c is stored at f*channels + c.
type Buffer struct {
	shape   Shape
	storage *native.Owned[float32]
}

// NewBuffer allocates a zeroed buffer of frames*channels samples. Shape is
// validated before any allocation.
func NewBuffer(frames, channels int, opts ...native.Option) (*Buffer, error) {
	s := Shape{Frames: frames, Channels: channels}
	if !s.Valid() {
		return nil, &ShapeError{Frames: frames, Channels: channels}
	}
	storage, err := native.New[float32](s.Len(), opts...)
	if err != nil {
		return nil, err
	}
	return &Buffer{shape: s, storage: storage}, nil
}

// Shape returns shape of the buffer.
func (b *Buffer) Shape() Shape {
	return b.shape
}

// Frames returns number of frames.
func (b *Buffer) Frames() int {
	return b.shape.Frames
}

// Channels returns number of channels.
func (b *Buffer) Channels() int {
	return b.shape.Channels
}

// Len returns number of samples. Zero if buffer is released.
func (b *Buffer) Len() int {
	return b.storage.Len()
}

// Allocated returns true if buffer memory is live.
func (b *Buffer) Allocated() bool {
	return b != nil && b.storage.Allocated()
}

// Handle returns address of buffer memory. Zero if buffer is released.
func (b *Buffer) Handle() uintptr {
	return b.storage.Handle()
}

// Release returns buffer memory. Safe to call more than once.
func (b *Buffer) Release() {
	if b == nil {
		return
	}
	b.storage.Release()
}

// Samples returns interleaved samples. It panics with ErrUseAfterFree if
// buffer is released. The slice must not be retained after Release.
func (b *Buffer) Samples() []float32 {
	return b.storage.MustData()
}

// Get returns sample at linear index.
func (b *Buffer) Get(index int) (float32, error) {
	data, err := b.storage.Data()
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(data) {
		return 0, &IndexError{Index: index, Len: len(data)}
	}
	return data[index], nil
}

// Set assigns sample at linear index.
func (b *Buffer) Set(index int, value float32) error {
	data, err := b.storage.Data()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(data) {
		return &IndexError{Index: index, Len: len(data)}
	}
	data[index] = value
	return nil
}

// At returns sample of the channel in the frame.
func (b *Buffer) At(frame, channel int) (float32, error) {
	if frame < 0 || frame >= b.shape.Frames {
		return 0, &IndexError{Index: frame, Len: b.shape.Frames}
	}
	if channel < 0 || channel >= b.shape.Channels {
		return 0, &IndexError{Index: channel, Len: b.shape.Channels}
	}
	return b.Get(frame*b.shape.Channels + channel)
}

// SetAt assigns sample of the channel in the frame.
func (b *Buffer) SetAt(frame, channel int, value float32) error {
	if frame < 0 || frame >= b.shape.Frames {
		return &IndexError{Index: frame, Len: b.shape.Frames}
	}
	if channel < 0 || channel >= b.shape.Channels {
		return &IndexError{Index: channel, Len: b.shape.Channels}
	}
	return b.Set(frame*b.shape.Channels+channel, value)
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	data, err := b.storage.Data()
	if err != nil {
		return
	}
	clear(data)
}

// CopyInto copies min(b.Len(), dst.Len()) samples into dst in source order
// and returns the number of copied samples. If dst is smaller, the rest is
// silently dropped. Nothing is copied if either buffer is released.
func (b *Buffer) CopyInto(dst *Buffer) int {
	if !dst.Allocated() {
		return 0
	}
	return b.CopyTo(dst.storage.MustData())
}

// CopyTo copies min(b.Len(), len(dst)) samples into host-managed slice
// with the same truncation policy as CopyInto.
func (b *Buffer) CopyTo(dst []float32) int {
	src, err := b.storage.Data()
	if err != nil {
		return 0
	}
	return copy(dst, src)
}
