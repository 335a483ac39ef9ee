package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSubscriptionStatusTransitions(t *testing.T) {
	assert.True(t, SubscriptionActive.CanTransitionTo(SubscriptionPaused))
	assert.True(t, SubscriptionActive.CanTransitionTo(SubscriptionCancelled))
	assert.True(t, SubscriptionPaused.CanTransitionTo(SubscriptionActive))
	assert.True(t, SubscriptionPaused.CanTransitionTo(SubscriptionCancelled))

	assert.False(t, SubscriptionActive.CanTransitionTo(SubscriptionActive))
	assert.False(t, SubscriptionCancelled.CanTransitionTo(SubscriptionActive))
	assert.False(t, SubscriptionCancelled.CanTransitionTo(SubscriptionPaused))
	assert.False(t, SubscriptionCancelled.CanTransitionTo(SubscriptionCancelled))
	assert.True(t, SubscriptionCancelled.Terminal())
}

func TestFrequencyLabel(t *testing.T) {
	assert.Equal(t, "Bi-weekly", FrequencyBiweekly.Label())
	assert.Equal(t, "Monthly", FrequencyMonthly.Label())
	// Unknown values pass through unchanged.
	assert.Equal(t, "weekly", Frequency("weekly").Label())
	assert.Equal(t, "", Frequency("").Label())
}

func TestNextDeliveryDateBiweekly(t *testing.T) {
	// 2024-01-10 is a Wednesday; 14 days out is Wednesday 2024-01-24, then
	// roll forward to the next Monday.
	got := NextDeliveryDate(FrequencyBiweekly, time.Monday, 0, date(2024, time.January, 10))
	assert.Equal(t, date(2024, time.January, 29), got)

	// 14 days out already lands on the preferred weekday.
	got = NextDeliveryDate(FrequencyBiweekly, time.Wednesday, 0, date(2024, time.January, 10))
	assert.Equal(t, date(2024, time.January, 24), got)
}

func TestNextDeliveryDateMonthly(t *testing.T) {
	// Second Monday of January 2024 is the 8th, already behind the
	// reference, so the schedule moves to February's second Monday.
	got := NextDeliveryDate(FrequencyMonthly, time.Monday, 2, date(2024, time.January, 10))
	assert.Equal(t, date(2024, time.February, 12), got)

	// Still ahead within the same month.
	got = NextDeliveryDate(FrequencyMonthly, time.Friday, 4, date(2024, time.January, 10))
	assert.Equal(t, date(2024, time.January, 26), got)
}

func TestNextDeliveryDateMonthlyClampsWeek(t *testing.T) {
	lo := NextDeliveryDate(FrequencyMonthly, time.Monday, 0, date(2024, time.March, 1))
	assert.Equal(t, NextDeliveryDate(FrequencyMonthly, time.Monday, 1, date(2024, time.March, 1)), lo)

	hi := NextDeliveryDate(FrequencyMonthly, time.Monday, 9, date(2024, time.March, 1))
	assert.Equal(t, NextDeliveryDate(FrequencyMonthly, time.Monday, 4, date(2024, time.March, 1)), hi)
}

func TestNextDeliveryDateDeterministic(t *testing.T) {
	ref := date(2024, time.January, 10)
	first := NextDeliveryDate(FrequencyMonthly, time.Monday, 2, ref)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, NextDeliveryDate(FrequencyMonthly, time.Monday, 2, ref))
	}
}

func TestNextDeliveryDateIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, time.January, 10, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2024, time.January, 10, 22, 15, 0, 0, time.UTC)
	assert.Equal(t,
		NextDeliveryDate(FrequencyBiweekly, time.Monday, 0, morning),
		NextDeliveryDate(FrequencyBiweekly, time.Monday, 0, evening))
}
