package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStatusDefaultsToProcessing(t *testing.T) {
	require.Equal(t, StatusProcessing, ParseStatus("processing"))
	require.Equal(t, StatusPending, ParseStatus("pending"))
	require.Equal(t, StatusDelivered, ParseStatus("delivered"))
	require.Equal(t, StatusCancelled, ParseStatus("cancelled"))

	require.Equal(t, StatusProcessing, ParseStatus(""))
	require.Equal(t, StatusProcessing, ParseStatus("shipped"))
	require.Equal(t, StatusProcessing, ParseStatus("DELIVERED"))
}

func TestStatusStringDefaultsToProcessing(t *testing.T) {
	require.Equal(t, "pending", StatusPending.String())
	require.Equal(t, "processing", Status(0).String())
	require.Equal(t, "processing", Status(99).String())
}

func TestParsePaymentMethodDefaultsToCash(t *testing.T) {
	require.Equal(t, PaymentMomo, ParsePaymentMethod("momo"))
	require.Equal(t, PaymentCash, ParsePaymentMethod("cash"))

	require.Equal(t, PaymentCash, ParsePaymentMethod(""))
	require.Equal(t, PaymentCash, ParsePaymentMethod("paypal"))
}

func TestCanTransitionTo(t *testing.T) {
	all := []Status{StatusProcessing, StatusPending, StatusDelivered, StatusCancelled}

	for _, next := range all {
		require.Equal(t, TransitionRejectedTerminal, StatusDelivered.CanTransitionTo(next))
	}

	require.Equal(t, TransitionRejectedInTransit, StatusPending.CanTransitionTo(StatusCancelled))
	require.Equal(t, TransitionAllowed, StatusPending.CanTransitionTo(StatusDelivered))
	require.Equal(t, TransitionAllowed, StatusPending.CanTransitionTo(StatusProcessing))

	for _, next := range all {
		require.Equal(t, TransitionAllowed, StatusProcessing.CanTransitionTo(next))
		require.Equal(t, TransitionAllowed, StatusCancelled.CanTransitionTo(next))
	}
}
