package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeCheckoutV1(t *testing.T) {
	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeCheckoutV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeCheckoutV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		_, err := schema.NewSerdeCheckoutV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
	})

	t.Run("RegistryUnavailable", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		subject := "checkouts-value"
		registryErr := errors.New("registry unavailable")

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.CheckoutSchemaTextV1,
		).Return(0, registryErr)

		_, err := schema.NewSerdeCheckoutV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.ErrorIs(t, err, registryErr)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 1
		subject := "checkouts-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.CheckoutSchemaTextV1,
		).Return(schemaID, nil)

		serde, err := schema.NewSerdeCheckoutV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)
		schemaIdentifier.AssertExpectations(t)

		v1 := schema.CheckoutV1{
			OrderID:   "testOrderID",
			Email:     "buyer@example.com",
			Total:     10,
			CreatedAt: time.UnixMilli(1760000000000).UTC(),
			Items: []schema.CheckoutItemV1{
				{ProductID: 1, Name: "A", Price: 10, Quantity: 1},
			},
		}

		encodedData, err := serde.Encode(v1)
		require.NoError(t, err)

		var v2 schema.CheckoutV1
		err = serde.Decode(encodedData, &v2)
		require.NoError(t, err)

		assert.Equal(t, v1.OrderID, v2.OrderID)
		assert.Equal(t, v1.Email, v2.Email)
		assert.Equal(t, v1.Total, v2.Total)
		assert.True(t, v1.CreatedAt.Equal(v2.CreatedAt))
		assert.Equal(t, v1.Items, v2.Items)
	})
}

func TestSerdeFeedbackV1(t *testing.T) {
	schemaIdentifier := new(MockSchemaIdentifier)
	subject := "feedback-value"

	schemaIdentifier.On(
		"DetermineID", t.Context(), subject, schema.FeedbackSchemaTextV1,
	).Return(2, nil)

	serde, err := schema.NewSerdeFeedbackV1(
		t.Context(),
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schemaIdentifier),
	)
	require.NoError(t, err)

	v1 := schema.FeedbackV1{ProductID: 3, Liked: true, Rating: 5}
	data, err := serde.Encode(v1)
	require.NoError(t, err)

	var v2 schema.FeedbackV1
	require.NoError(t, serde.Decode(data, &v2))
	assert.Equal(t, v1, v2)
}
