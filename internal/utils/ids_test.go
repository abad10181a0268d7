package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRentalCode(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	code := NewRentalCode(now)

	assert.True(t, strings.HasPrefix(code, "RENT240115"))
	assert.Len(t, code, len("RENT")+6+6)
	assert.NotEqual(t, code, NewRentalCode(now))
}

func TestPaymentAndRefundCodes(t *testing.T) {
	now := time.Now()

	pay := NewPaymentCode(now)
	assert.True(t, strings.HasPrefix(pay, "PAY"))

	ref := NewRefundCode(now)
	assert.True(t, strings.HasPrefix(ref, "REF"))

	assert.NotEqual(t, NewPaymentCode(now), NewPaymentCode(now))
}
