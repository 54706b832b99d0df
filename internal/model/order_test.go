package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderRefunded, true},
		{OrderPending, OrderShipped, false},
		{OrderPending, OrderDelivered, false},

		{OrderProcessing, OrderShipped, true},
		{OrderProcessing, OrderCancelled, true},
		{OrderProcessing, OrderRefunded, true},
		{OrderProcessing, OrderDelivered, false},
		{OrderProcessing, OrderPending, false},

		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderRefunded, true},
		{OrderShipped, OrderCancelled, false},

		{OrderDelivered, OrderRefunded, false},
		{OrderCancelled, OrderPending, false},
		{OrderRefunded, OrderPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderPending.IsTerminal())
	assert.False(t, OrderProcessing.IsTerminal())
	assert.False(t, OrderShipped.IsTerminal())
	assert.True(t, OrderDelivered.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
	assert.True(t, OrderRefunded.IsTerminal())
}

func TestOrder_CustomerName(t *testing.T) {
	order := Order{ShippingAddress: Address{FirstName: "Ada", LastName: "Lovelace"}}
	assert.Equal(t, "Ada Lovelace", order.CustomerName())
}
