package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

var subscriptionSuccessors = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionActive:    {SubscriptionPaused, SubscriptionCancelled},
	SubscriptionPaused:    {SubscriptionActive, SubscriptionCancelled},
	SubscriptionCancelled: {},
}

func (s SubscriptionStatus) Valid() bool {
	_, ok := subscriptionSuccessors[s]
	return ok
}

func (s SubscriptionStatus) Terminal() bool {
	next, ok := subscriptionSuccessors[s]
	return ok && len(next) == 0
}

func (s SubscriptionStatus) CanTransitionTo(next SubscriptionStatus) bool {
	for _, n := range subscriptionSuccessors[s] {
		if n == next {
			return true
		}
	}
	return false
}

type Frequency string

const (
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// Label returns the display name for a frequency. Unknown values pass
// through unchanged so a stale record still renders something sensible.
func (f Frequency) Label() string {
	switch f {
	case FrequencyBiweekly:
		return "Bi-weekly"
	case FrequencyMonthly:
		return "Monthly"
	default:
		return string(f)
	}
}

// NextDeliveryDate computes the next scheduled delivery strictly from its
// arguments. Biweekly: the next occurrence of day at least 14 days after
// reference. Monthly: the day of the weekOfMonth-th week of the current
// month if still ahead of reference, otherwise of the next month.
func NextDeliveryDate(f Frequency, day time.Weekday, weekOfMonth int, reference time.Time) time.Time {
	ref := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, reference.Location())

	switch f {
	case FrequencyMonthly:
		if weekOfMonth < 1 {
			weekOfMonth = 1
		}
		if weekOfMonth > 4 {
			weekOfMonth = 4
		}
		if d := nthWeekdayOfMonth(ref.Year(), ref.Month(), day, weekOfMonth, ref.Location()); d.After(ref) {
			return d
		}
		next := ref.AddDate(0, 1, 0)
		return nthWeekdayOfMonth(next.Year(), next.Month(), day, weekOfMonth, ref.Location())
	default:
		// biweekly, and the fallback for anything unrecognized
		d := ref.AddDate(0, 0, 14)
		for d.Weekday() != day {
			d = d.AddDate(0, 0, 1)
		}
		return d
	}
}

func nthWeekdayOfMonth(year int, month time.Month, day time.Weekday, n int, loc *time.Location) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, (n-1)*7)
}

type Subscription struct {
	ID              string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryType    DeliveryType
	DeliveryAddress string
	Frequency       Frequency
	PreferredDay    time.Weekday
	// WeekOfMonth is only meaningful for monthly subscriptions (1..4).
	WeekOfMonth int
	Items       []LineItem
	TotalAmount decimal.Decimal
	Status      SubscriptionStatus
	// NextDelivery is nil while paused; recomputed on resume.
	NextDelivery *time.Time
	StartDate    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
