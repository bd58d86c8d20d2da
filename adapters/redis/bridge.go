// Package redis relays the emit/on capabilities of rigor across processes
// over a Redis pub/sub channel.
//
// Every message is an Envelope encoded with the rigor Encoder, so remote
// payloads are authenticated (and, when sealed, encrypted) before they reach
// a component:
//
//	enc, _ := rigor.NewEncoder(key)
//	bridge := redis.New(client, rigor.NewBus(), enc)
//	go bridge.Run(ctx)
//
//	r := rigor.New(rigor.WithFlavor(rigor.SafeFlavor.With(bridge.Plugin())))
package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/pthm/rigor"
	backend "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Bridge publishes local emits to Redis and replays remote ones on a local
// bus.
type Bridge struct {
	client  *backend.Client
	bus     *rigor.Bus
	enc     *rigor.Encoder
	channel string
	origin  string
	sealed  bool
	logger  *zap.Logger
	ready   chan struct{}
}

type Option func(*Bridge)

// WithChannel sets the Redis channel. Defaults to "rigor:bus".
func WithChannel(channel string) Option {
	return func(b *Bridge) {
		b.channel = channel
	}
}

// WithOrigin sets the id this bridge stamps on outgoing envelopes. Messages
// carrying the same origin are not replayed. Defaults to a random id.
func WithOrigin(origin string) Option {
	return func(b *Bridge) {
		b.origin = origin
	}
}

// WithSealed encrypts envelopes instead of only signing them. Every bridge
// on a channel must agree on this setting.
func WithSealed() Option {
	return func(b *Bridge) {
		b.sealed = true
	}
}

// WithLogger sets the logger for dropped messages and publish failures.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// New creates a bridge between bus and the Redis server behind client.
func New(client *backend.Client, bus *rigor.Bus, enc *rigor.Encoder, opts ...Option) *Bridge {
	b := &Bridge{
		client:  client,
		bus:     bus,
		enc:     enc,
		channel: "rigor:bus",
		logger:  zap.NewNop(),
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.origin == "" {
		b.origin = randomOrigin()
	}
	return b
}

// Origin returns the id stamped on outgoing envelopes.
func (b *Bridge) Origin() string { return b.origin }

// Ready is closed once Run has an active subscription.
func (b *Bridge) Ready() <-chan struct{} { return b.ready }

// Publish sends one envelope to the channel without delivering it locally.
func (b *Bridge) Publish(ctx context.Context, topic string, data any) error {
	payload, err := b.enc.Encode(rigor.Envelope{Origin: b.origin, Topic: topic, Data: data}, b.sealed)
	if err != nil {
		return fmt.Errorf("redis bridge: encode: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis bridge: publish: %w", err)
	}
	return nil
}

// Emit delivers data to local subscribers, then publishes it. It has the
// shape of the emit capability, so publish failures are logged rather than
// returned.
func (b *Bridge) Emit(topic string, data any) {
	b.bus.Emit(topic, data)
	if err := b.Publish(context.Background(), topic, data); err != nil {
		b.logger.Warn("emit not relayed", zap.String("topic", topic), zap.Error(err))
	}
}

// Plugin provides emit through the bridge and on through the local bus.
func (b *Bridge) Plugin() rigor.Plugin {
	return func(rigor.Trigger) rigor.Provides {
		return rigor.Provides{
			rigor.CapEmit: rigor.EmitFunc(b.Emit),
			rigor.CapOn:   rigor.OnFunc(b.bus.On),
		}
	}
}

// Run subscribes to the channel and replays remote envelopes on the local
// bus until ctx is done. Messages that fail to decode are logged and
// dropped.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis bridge: subscribe %s: %w", b.channel, err)
	}
	close(b.ready)
	b.logger.Debug("bridge subscribed", zap.String("channel", b.channel), zap.String("origin", b.origin))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := b.handle(msg.Payload); err != nil {
				b.logger.Warn("dropped message", zap.String("channel", msg.Channel), zap.Error(err))
			}
		}
	}
}

func (b *Bridge) handle(payload string) error {
	var env rigor.Envelope
	if err := b.enc.Decode(payload, b.sealed, &env); err != nil {
		return rigor.WrapDecodeError(err)
	}
	if env.Origin == b.origin {
		return nil
	}
	b.bus.Emit(env.Topic, env.Data)
	return nil
}

func randomOrigin() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("redis bridge: failed to generate origin: %v", err))
	}
	return hex.EncodeToString(buf)
}
