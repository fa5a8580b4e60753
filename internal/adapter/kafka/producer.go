package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.CheckoutProducer = CheckoutProducer{}

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(ctx context.Context, rs ...*kgo.Record) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A CheckoutProducer publishes completed checkouts keyed by order id.
type CheckoutProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewCheckoutProducer(opts ...ProducerOpt) (CheckoutProducer, error) {
	const op = "NewCheckoutProducer"

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return CheckoutProducer{}, opErr(err, op)
		}
	}
	if options.cl == nil || options.encoder == nil {
		return CheckoutProducer{}, opErr(ErrTooFewOpts, op)
	}

	opPrefix := "CheckoutProducer"
	return CheckoutProducer{
		producer: producer{opPrefix: opPrefix, cl: options.cl},
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p CheckoutProducer) Close() {
	p.producer.close()
}

func (p CheckoutProducer) NotifyCheckout(
	ctx context.Context, v domain.Checkout,
) error {
	const op = "NotifyCheckout"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p CheckoutProducer) createRecord(v domain.Checkout) (*kgo.Record, error) {
	const op = "createRecord"

	s := checkoutToSchemaV1(v)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(s.OrderID), Value: b}, nil
}
