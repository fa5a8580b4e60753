package kafka

import (
	"errors"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGokaEmitter struct {
	mock.Mock
}

func (e *MockGokaEmitter) EmitSync(key string, msg any) error {
	return e.Called(key, msg).Error(0)
}

func (e *MockGokaEmitter) Finish() error {
	return e.Called().Error(0)
}

type MockSerde struct {
	mock.Mock
}

func (s *MockSerde) Encode(v any) ([]byte, error) {
	args := s.Called(v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (s *MockSerde) Decode(data []byte, v any) error {
	args := s.Called(data, v)
	if fb, ok := args.Get(1).(schema.FeedbackV1); ok {
		*(v.(*schema.FeedbackV1)) = fb
	}
	return args.Error(0)
}

func TestNewFeedbackEmitter(t *testing.T) {
	_, err := NewFeedbackEmitter(FeedbackEmitterConfig{Topic: "feedback"})
	require.ErrorIs(t, err, ErrTooFewOpts)
}

func TestFeedbackEmitter(t *testing.T) {
	t.Run("Emit", func(t *testing.T) {
		ge := new(MockGokaEmitter)
		ge.On("EmitSync", "7", schema.FeedbackV1{
			ProductID: 7, Liked: true, Rating: 4,
		}).Return(nil)

		e := FeedbackEmitter{ge}
		err := e.EmitFeedback(t.Context(), domain.Feedback{
			ProductID: 7, Liked: true, Rating: 4,
		})
		require.NoError(t, err)
		ge.AssertExpectations(t)
	})

	t.Run("EmitFailed", func(t *testing.T) {
		emitErr := errors.New("emit")
		ge := new(MockGokaEmitter)
		ge.On("EmitSync", mock.Anything, mock.Anything).Return(emitErr)

		e := FeedbackEmitter{ge}
		err := e.EmitFeedback(t.Context(), domain.Feedback{ProductID: 1})
		require.ErrorIs(t, err, emitErr)
	})

	t.Run("Close", func(t *testing.T) {
		ge := new(MockGokaEmitter)
		ge.On("Finish").Return(nil)

		FeedbackEmitter{ge}.Close()
		ge.AssertExpectations(t)
	})
}

func TestFeedbackCodec(t *testing.T) {
	t.Run("EncodeInvalidType", func(t *testing.T) {
		c := feedbackCodec{new(MockSerde)}
		_, err := c.Encode("not feedback")
		require.ErrorIs(t, err, ErrInvalidValueType)
	})

	t.Run("Encode", func(t *testing.T) {
		s := new(MockSerde)
		v := schema.FeedbackV1{ProductID: 2, Rating: 3}
		s.On("Encode", v).Return([]byte("encoded"), nil)

		b, err := feedbackCodec{s}.Encode(v)
		require.NoError(t, err)
		assert.Equal(t, []byte("encoded"), b)
	})

	t.Run("Decode", func(t *testing.T) {
		s := new(MockSerde)
		want := schema.FeedbackV1{ProductID: 2, Liked: true, Rating: 3}
		s.On("Decode", []byte("encoded"), mock.Anything).Return(nil, want)

		v, err := feedbackCodec{s}.Decode([]byte("encoded"))
		require.NoError(t, err)
		assert.Equal(t, want, v)
	})
}
