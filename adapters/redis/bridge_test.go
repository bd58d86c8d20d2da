package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pthm/rigor"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newEncoder(t *testing.T) *rigor.Encoder {
	t.Helper()
	enc, err := rigor.NewEncoder([]byte("test-signing-key"))
	require.NoError(t, err)
	return enc
}

func run(t *testing.T, b *Bridge) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-b.Ready():
	case err := <-done:
		t.Fatalf("Run() returned early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("bridge never subscribed")
	}
}

func TestBridge_RelaysBetweenProcesses(t *testing.T) {
	client := newClient(t)
	enc := newEncoder(t)

	local := rigor.NewBus()
	remote := rigor.NewBus()
	a := New(client, local, enc, WithOrigin("a"))
	b := New(client, remote, enc, WithOrigin("b"))
	run(t, b)

	var localGot []any
	local.On("greet", func(data any) { localGot = append(localGot, data) })
	received := make(chan any, 1)
	remote.On("greet", func(data any) { received <- data })

	a.Emit("greet", "hi")

	select {
	case data := <-received:
		assert.Equal(t, "hi", data)
	case <-time.After(2 * time.Second):
		t.Fatal("remote bus never received the message")
	}
	assert.Equal(t, []any{"hi"}, localGot)
}

func TestBridge_Sealed(t *testing.T) {
	client := newClient(t)
	enc := newEncoder(t)

	a := New(client, rigor.NewBus(), enc, WithOrigin("a"), WithSealed(), WithChannel("sealed"))
	remote := rigor.NewBus()
	b := New(client, remote, enc, WithOrigin("b"), WithSealed(), WithChannel("sealed"))
	run(t, b)

	received := make(chan any, 1)
	remote.On("secret", func(data any) { received <- data })

	require.NoError(t, a.Publish(context.Background(), "secret", "s3cr3t"))

	select {
	case data := <-received:
		assert.Equal(t, "s3cr3t", data)
	case <-time.After(2 * time.Second):
		t.Fatal("sealed message never arrived")
	}
}

func TestBridge_SkipsOwnOrigin(t *testing.T) {
	enc := newEncoder(t)
	bus := rigor.NewBus()
	b := New(nil, bus, enc, WithOrigin("self"))

	calls := 0
	bus.On("t", func(any) { calls++ })

	own, err := enc.Encode(rigor.Envelope{Origin: "self", Topic: "t", Data: 1}, false)
	require.NoError(t, err)
	require.NoError(t, b.handle(own))
	assert.Equal(t, 0, calls)

	other, err := enc.Encode(rigor.Envelope{Origin: "peer", Topic: "t", Data: 1}, false)
	require.NoError(t, err)
	require.NoError(t, b.handle(other))
	assert.Equal(t, 1, calls)
}

func TestBridge_RejectsBadPayloads(t *testing.T) {
	enc := newEncoder(t)
	other, err := rigor.NewEncoder([]byte("another-key"))
	require.NoError(t, err)

	forged, err := other.Encode(rigor.Envelope{Origin: "x", Topic: "t"}, false)
	require.NoError(t, err)
	foreignSealed, err := other.Encode(rigor.Envelope{Origin: "x", Topic: "t"}, true)
	require.NoError(t, err)

	tests := []struct {
		name    string
		sealed  bool
		payload string
		want    error
	}{
		{"garbage", false, "not-a-message", rigor.ErrInvalidFormat},
		{"wrong key", false, forged, rigor.ErrSignatureInvalid},
		{"sealed with another key", true, foreignSealed, rigor.ErrDecryptFailed},
		{"signed payload on sealed bridge", true, forged, rigor.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []Option{WithOrigin("me")}
			if tt.sealed {
				opts = append(opts, WithSealed())
			}
			b := New(nil, rigor.NewBus(), enc, opts...)

			err := b.handle(tt.payload)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, rigor.IsDecodeError(err))
		})
	}
}

func TestBridge_Plugin(t *testing.T) {
	bus := rigor.NewBus()
	b := New(nil, bus, newEncoder(t))
	caps := rigor.Compose([]rigor.Plugin{b.Plugin()}, nil)

	assert.True(t, caps.Has(rigor.CapEmit))
	assert.True(t, caps.Has(rigor.CapOn))

	dispose := caps.On("t", func(any) {})
	assert.Equal(t, 1, bus.Subscribers("t"))
	dispose()
	assert.Equal(t, 0, bus.Subscribers("t"))
}

func TestNew_Defaults(t *testing.T) {
	b := New(nil, rigor.NewBus(), newEncoder(t))
	assert.Equal(t, "rigor:bus", b.channel)
	assert.Len(t, b.Origin(), 16)
	assert.NotEqual(t, b.Origin(), New(nil, rigor.NewBus(), newEncoder(t)).Origin())
}
