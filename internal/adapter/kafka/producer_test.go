package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type MockProducerClient struct {
	mock.Mock
}

func (c *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := c.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (c *MockProducerClient) Close() {
	c.Called()
}

type MockEncoder struct {
	mock.Mock
}

func (e *MockEncoder) Encode(v any) ([]byte, error) {
	args := e.Called(v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func testCheckout() domain.Checkout {
	return domain.Checkout{
		OrderID:   uuid.MustParse("6f1c1b8e-3b38-4a44-9d77-0d3f4f7d1a10"),
		Email:     "buyer@example.com",
		Total:     30,
		CreatedAt: time.UnixMilli(1760000000000),
		Items: []domain.CartItem{
			{ID: 1, Name: "A", Price: 10, Quantity: 3},
		},
	}
}

func TestNewCheckoutProducer(t *testing.T) {
	t.Run("NoOpts", func(t *testing.T) {
		_, err := NewCheckoutProducer()
		require.ErrorIs(t, err, ErrTooFewOpts)
	})

	t.Run("NilEncoder", func(t *testing.T) {
		_, err := NewCheckoutProducer(
			ProducerExistingClientOpt(new(MockProducerClient)),
			ProducerEncoderOpt(nil),
		)
		require.Error(t, err)
	})
}

func TestCheckoutProducer(t *testing.T) {
	t.Run("Produce", func(t *testing.T) {
		cl := new(MockProducerClient)
		enc := new(MockEncoder)
		v := testCheckout()
		payload := []byte("encoded")

		enc.On("Encode", checkoutToSchemaV1(v)).Return(payload, nil)
		cl.On("ProduceSync", mock.Anything, mock.MatchedBy(
			func(rs []*kgo.Record) bool {
				return len(rs) == 1 &&
					string(rs[0].Key) == v.OrderID.String() &&
					string(rs[0].Value) == string(payload)
			},
		)).Return(kgo.ProduceResults{{}})

		p, err := NewCheckoutProducer(
			ProducerExistingClientOpt(cl),
			ProducerEncoderOpt(enc),
		)
		require.NoError(t, err)

		require.NoError(t, p.NotifyCheckout(t.Context(), v))
		cl.AssertExpectations(t)
		enc.AssertExpectations(t)
	})

	t.Run("ProduceFailed", func(t *testing.T) {
		cl := new(MockProducerClient)
		enc := new(MockEncoder)
		brokerErr := errors.New("broker unavailable")

		enc.On("Encode", mock.Anything).Return([]byte("encoded"), nil)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: brokerErr}})

		p, err := NewCheckoutProducer(
			ProducerExistingClientOpt(cl),
			ProducerEncoderOpt(enc),
		)
		require.NoError(t, err)

		err = p.NotifyCheckout(t.Context(), testCheckout())
		require.ErrorIs(t, err, brokerErr)
	})

	t.Run("EncodeFailed", func(t *testing.T) {
		cl := new(MockProducerClient)
		enc := new(MockEncoder)
		encErr := errors.New("encode")

		enc.On("Encode", mock.Anything).Return(nil, encErr)

		p, err := NewCheckoutProducer(
			ProducerExistingClientOpt(cl),
			ProducerEncoderOpt(enc),
		)
		require.NoError(t, err)

		err = p.NotifyCheckout(t.Context(), testCheckout())
		require.ErrorIs(t, err, encErr)
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		p, err := NewCheckoutProducer(
			ProducerExistingClientOpt(new(MockProducerClient)),
			ProducerEncoderOpt(new(MockEncoder)),
		)
		require.NoError(t, err)

		err = p.NotifyCheckout(ctx, testCheckout())
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Close", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("Close").Return()

		p, err := NewCheckoutProducer(
			ProducerExistingClientOpt(cl),
			ProducerEncoderOpt(new(MockEncoder)),
		)
		require.NoError(t, err)

		p.Close()
		cl.AssertExpectations(t)
	})
}

func TestCheckoutToSchemaV1(t *testing.T) {
	v := testCheckout()
	s := checkoutToSchemaV1(v)

	assert.Equal(t, v.OrderID.String(), s.OrderID)
	assert.Equal(t, v.Email, s.Email)
	assert.Equal(t, v.Total, s.Total)
	assert.True(t, v.CreatedAt.Equal(s.CreatedAt))
	assert.Equal(t, []schema.CheckoutItemV1{
		{ProductID: 1, Name: "A", Price: 10, Quantity: 3},
	}, s.Items)
}
