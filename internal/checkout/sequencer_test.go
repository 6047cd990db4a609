package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencerHappyPath(t *testing.T) {
	s := NewSequencer()
	assert.Equal(t, StateCart, s.State())

	require.NoError(t, s.Proceed(false))
	assert.Equal(t, StatePaymentMethodSelection, s.State())

	require.NoError(t, s.ViewSecurity())
	assert.Equal(t, StateSecurityInfo, s.State())
	require.NoError(t, s.Back())
	assert.Equal(t, StatePaymentMethodSelection, s.State())

	require.NoError(t, s.SelectMethod(PaymentSelection{Method: MethodYape, Reference: "999"}))
	assert.Equal(t, StatePaymentMethodSelection, s.State(), "selecting does not move")

	sel, err := s.BeginConfirm()
	require.NoError(t, err)
	assert.Equal(t, MethodYape, sel.Method)
	assert.True(t, s.Processing())

	require.NoError(t, s.CompleteConfirm())
	assert.Equal(t, StatePaymentConfirmation, s.State())
	assert.False(t, s.Processing())

	require.NoError(t, s.GoHome())
	assert.Equal(t, StateHome, s.State())
	_, ok := s.Selection()
	assert.False(t, ok)
}

func TestSequencerGuards(t *testing.T) {
	t.Run("empty cart cannot proceed", func(t *testing.T) {
		s := NewSequencer()
		assert.ErrorIs(t, s.Proceed(true), ErrEmptyCart)
		assert.Equal(t, StateCart, s.State())
	})

	t.Run("back from cart is invalid", func(t *testing.T) {
		s := NewSequencer()
		assert.ErrorIs(t, s.Back(), ErrInvalidTransition)
	})

	t.Run("back from payment selection returns to cart", func(t *testing.T) {
		s := NewSequencer()
		require.NoError(t, s.Proceed(false))
		require.NoError(t, s.SelectMethod(PaymentSelection{Method: MethodCard}))
		require.NoError(t, s.Back())
		assert.Equal(t, StateCart, s.State())
		_, ok := s.Selection()
		assert.True(t, ok, "back performs no mutation")
	})

	t.Run("confirm requires a method", func(t *testing.T) {
		s := NewSequencer()
		require.NoError(t, s.Proceed(false))
		_, err := s.BeginConfirm()
		assert.ErrorIs(t, err, ErrNoPaymentMethod)
		assert.False(t, s.Processing())
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		s := NewSequencer()
		require.NoError(t, s.Proceed(false))
		assert.ErrorIs(t, s.SelectMethod(PaymentSelection{Method: "bitcoin"}), ErrInvalidMethod)
	})

	t.Run("confirm only from payment selection", func(t *testing.T) {
		s := NewSequencer()
		_, err := s.BeginConfirm()
		assert.ErrorIs(t, err, ErrInvalidTransition)

		require.NoError(t, s.Proceed(false))
		require.NoError(t, s.ViewSecurity())
		_, err = s.BeginConfirm()
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("go home only after confirmation", func(t *testing.T) {
		s := NewSequencer()
		assert.ErrorIs(t, s.GoHome(), ErrInvalidTransition)
		require.NoError(t, s.Proceed(false))
		assert.ErrorIs(t, s.GoHome(), ErrInvalidTransition)
	})

	t.Run("complete without begin", func(t *testing.T) {
		s := NewSequencer()
		assert.ErrorIs(t, s.CompleteConfirm(), ErrInvalidTransition)
	})
}

func TestSequencerRefusesEventsWhileProcessing(t *testing.T) {
	s := NewSequencer()
	require.NoError(t, s.Proceed(false))
	require.NoError(t, s.SelectMethod(PaymentSelection{Method: MethodCash}))
	_, err := s.BeginConfirm()
	require.NoError(t, err)

	_, err = s.BeginConfirm()
	assert.ErrorIs(t, err, ErrPaymentInProgress)
	assert.ErrorIs(t, s.Back(), ErrPaymentInProgress)
	assert.ErrorIs(t, s.ViewSecurity(), ErrPaymentInProgress)
	assert.ErrorIs(t, s.SelectMethod(PaymentSelection{Method: MethodCard}), ErrPaymentInProgress)
	assert.ErrorIs(t, s.GoHome(), ErrPaymentInProgress)

	s.AbortConfirm()
	assert.False(t, s.Processing())
	assert.Equal(t, StatePaymentMethodSelection, s.State())
	_, err = s.BeginConfirm()
	assert.NoError(t, err, "confirm can be retried after a failure")
}
