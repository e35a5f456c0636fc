/*
Package synth executes chains of audio nodes that fill interleaved sample
buffers on demand of a host audio engine.

Concept

A host engine periodically asks for the next block of audio. The block must
be ready before the device needs it, so the code that produces it runs
under a hard time budget: no blocking, no I/O and no allocation once the
buffer size is settled. The pipeline has two stages:

    Node - the stateful producer of signal, it owns its output buffer;
    Sink - the boundary between a node and memory owned by the host.

Host calls Sink.Fill with its own buffer. Sink asks the node to process a
block of the same shape and copies the result into the host buffer:

    gen := oscillator.New(48000, oscillator.WithFrequency(261.62))
    defer gen.Release()
    sink := synth.NewSink(gen)

    host := make([]float32, 512*2)
    err := sink.Fill(host, 2)

Buffers

Node output buffers live in native memory, outside of the Go heap, and are
owned by exactly one node. A node embeds Provider, which allocates the
buffer on the first call and reallocates it only when the requested shape
changes. The buffer returned by Process is valid until the next call to
Process or Release of the node. Nodes never share buffers: a node that
consumes another node's output copies it into its own buffer.

Parameters

Parameters like frequency and amplitude are written by control goroutines
while fills are running. They are published through package param and
loaded once at the beginning of Process, so a block never mixes old and new
values.

Errors

Invalid shapes are rejected before any allocation. If a node fails to
produce a block, Sink writes silence into the host buffer and returns the
error; it never panics on the host's real-time goroutine.
*/
package synth
