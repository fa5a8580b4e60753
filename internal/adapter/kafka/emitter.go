package kafka

import (
	"context"
	"crypto/tls"
	"log/slog"
	"strconv"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.FeedbackStream = FeedbackEmitter{}

// A feedbackCodec used for serde [schema.FeedbackV1]
type feedbackCodec struct {
	serde Serde
}

func (c feedbackCodec) Encode(v any) ([]byte, error) {
	const op = "feedbackCodec.Encode"
	if _, ok := v.(schema.FeedbackV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c feedbackCodec) Decode(data []byte) (any, error) {
	const op = "feedbackCodec.Decode"
	var s schema.FeedbackV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

type gokaEmitter interface {
	EmitSync(key string, msg any) error
	Finish() error
}

// A FeedbackEmitterConfig used for setup [FeedbackEmitter].
//
// TLSConfig is optional.
type FeedbackEmitterConfig struct {
	SeedBrokers []string
	Topic       string
	Serde       Serde
	TLSConfig   *tls.Config
}

// A FeedbackEmitter emits like and rating changes keyed by product id.
type FeedbackEmitter struct {
	ge gokaEmitter
}

func NewFeedbackEmitter(config FeedbackEmitterConfig) (FeedbackEmitter, error) {
	const op = "NewFeedbackEmitter"

	if len(config.SeedBrokers) == 0 || config.Topic == "" || config.Serde == nil {
		return FeedbackEmitter{}, opErr(ErrTooFewOpts, op)
	}

	var opts []goka.EmitterOption
	if config.TLSConfig != nil {
		sc := goka.DefaultConfig()
		sc.Net.TLS.Enable = true
		sc.Net.TLS.Config = config.TLSConfig
		opts = append(opts,
			goka.WithEmitterProducerBuilder(goka.ProducerBuilderWithConfig(sc)),
		)
	}

	ge, err := goka.NewEmitter(
		config.SeedBrokers,
		goka.Stream(config.Topic),
		feedbackCodec{config.Serde},
		opts...,
	)
	if err != nil {
		return FeedbackEmitter{}, opErr(err, op)
	}
	return FeedbackEmitter{ge}, nil
}

func (e FeedbackEmitter) EmitFeedback(ctx context.Context, v domain.Feedback) error {
	const op = "FeedbackEmitter.EmitFeedback"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	key := strconv.Itoa(v.ProductID)
	if err := e.ge.EmitSync(key, feedbackToSchemaV1(v)); err != nil {
		return opErr(err, op)
	}
	return nil
}

func (e FeedbackEmitter) Close() {
	const op = "FeedbackEmitter.Close"
	log := slog.With("op", op)

	log.Info("closing emitter...")
	if err := e.ge.Finish(); err != nil {
		log.Error("failed to finish gracefully", "err", err)
		return
	}
	log.Info("emitter is closed")
}
