package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to RentalStatus }{
		{RentalStatusPending, RentalStatusConfirmed},
		{RentalStatusPending, RentalStatusCancelled},
		{RentalStatusConfirmed, RentalStatusOutForDelivery},
		{RentalStatusConfirmed, RentalStatusCancelled},
		{RentalStatusOutForDelivery, RentalStatusRenting},
		{RentalStatusRenting, RentalStatusOverdue},
		{RentalStatusRenting, RentalStatusReturned},
		{RentalStatusOverdue, RentalStatusReturned},
		{RentalStatusOverdue, RentalStatusCompleted},
		{RentalStatusReturned, RentalStatusCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to RentalStatus }{
		{RentalStatusPending, RentalStatusRenting},
		{RentalStatusConfirmed, RentalStatusRenting},
		{RentalStatusOutForDelivery, RentalStatusCancelled},
		{RentalStatusRenting, RentalStatusCancelled},
		{RentalStatusRenting, RentalStatusCompleted},
		{RentalStatusReturned, RentalStatusRenting},
		{RentalStatusCompleted, RentalStatusReturned},
		{RentalStatusCancelled, RentalStatusPending},
		{RentalStatusCompleted, RentalStatusCompleted},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestTransitionSources(t *testing.T) {
	assert.Equal(t,
		[]RentalStatus{RentalStatusConfirmed, RentalStatusPending},
		TransitionSources(RentalStatusCancelled))
	assert.Equal(t,
		[]RentalStatus{RentalStatusOverdue, RentalStatusRenting},
		TransitionSources(RentalStatusReturned))
	assert.Equal(t,
		[]RentalStatus{RentalStatusPending},
		TransitionSources(RentalStatusConfirmed))
	assert.Empty(t, TransitionSources(RentalStatusPending))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, RentalStatusCompleted.IsTerminal())
	assert.True(t, RentalStatusCancelled.IsTerminal())
	assert.False(t, RentalStatusPending.IsTerminal())
	assert.False(t, RentalStatusOverdue.IsTerminal())
	assert.False(t, RentalStatusReturned.IsTerminal())
}

func TestValidReturnCondition(t *testing.T) {
	assert.True(t, ValidReturnCondition(ReturnConditionGood))
	assert.True(t, ValidReturnCondition(ReturnConditionLost))
	assert.False(t, ValidReturnCondition(ReturnConditionUnset))
	assert.False(t, ValidReturnCondition(ReturnCondition("torn")))
}

func TestActorCanAccess(t *testing.T) {
	rental := &Rental{ID: "RENT1", UserID: 7}

	assert.True(t, Actor{UserID: 7, Role: RoleCustomer}.CanAccess(rental))
	assert.False(t, Actor{UserID: 8, Role: RoleCustomer}.CanAccess(rental))
	assert.True(t, Actor{UserID: 1, Role: RoleAdmin}.CanAccess(rental))
}
