package schema

import (
	"testing"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutV1(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		vMarshal := CheckoutV1{
			OrderID:   "testOrderID",
			Email:     "buyer@example.com",
			Total:     30.5,
			CreatedAt: time.UnixMilli(1760000000123).UTC(),
			Items: []CheckoutItemV1{
				{ProductID: 1, Name: "A", Price: 10, Quantity: 2},
				{ProductID: 2, Name: "B", Price: 10.5, Quantity: 1},
			},
		}

		var checkoutSchema avro.Schema
		require.NotPanics(t, func() {
			checkoutSchema = CheckoutV1Avro()
		})

		data, err := avro.Marshal(checkoutSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal CheckoutV1
		err = avro.Unmarshal(checkoutSchema, data, &vUnmarshal)
		require.NoError(t, err)

		assert.Equal(t, vMarshal.OrderID, vUnmarshal.OrderID)
		assert.Equal(t, vMarshal.Email, vUnmarshal.Email)
		assert.Equal(t, vMarshal.Total, vUnmarshal.Total)
		assert.True(t, vMarshal.CreatedAt.Equal(vUnmarshal.CreatedAt))
		assert.Equal(t, vMarshal.Items, vUnmarshal.Items)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		vMarshal := CheckoutV1{
			OrderID:   "testOrderID",
			CreatedAt: time.UnixMilli(0).UTC(),
		}

		checkoutSchema := CheckoutV1Avro()

		data, err := avro.Marshal(checkoutSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal CheckoutV1
		err = avro.Unmarshal(checkoutSchema, data, &vUnmarshal)
		require.NoError(t, err)

		assert.Empty(t, vUnmarshal.Items)
		assert.Zero(t, vUnmarshal.Total)
		assert.Empty(t, vUnmarshal.Email)
	})
}

func TestFeedbackV1(t *testing.T) {
	vMarshal := FeedbackV1{ProductID: 7, Liked: true, Rating: 4}

	var fSchema avro.Schema
	require.NotPanics(t, func() {
		fSchema = FeedbackV1Avro()
	})

	data, err := avro.Marshal(fSchema, vMarshal)
	require.NoError(t, err)

	var vUnmarshal FeedbackV1
	err = avro.Unmarshal(fSchema, data, &vUnmarshal)
	require.NoError(t, err)

	assert.Equal(t, vMarshal, vUnmarshal)
}
