package domain

import (
	"fmt"
	"time"
)

// TripType distinguishes single-trip from annual multi-trip coverage
type TripType string

const (
	TripTypeDaily  TripType = "daily"
	TripTypeAnnual TripType = "annual"
)

func (t TripType) IsValid() bool {
	return t == TripTypeDaily || t == TripTypeAnnual
}

// MaxPassengers is the remote form's passenger limit
const MaxPassengers = 8

// Date is a calendar date without time-of-day. The core operates on Date; the
// API boundary converts the human DD/MM/YYYY and machine YYYY-MM-DD textual
// forms.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const (
	humanDateLayout   = "02/01/2006"
	machineDateLayout = "2006-01-02"
)

// ParseHumanDate parses the DD/MM/YYYY form used in external payloads
func ParseHumanDate(s string) (Date, error) {
	t, err := time.Parse(humanDateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf truncates a time.Time to its calendar date
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Time returns the date at midnight UTC
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Human formats the date as DD/MM/YYYY
func (d Date) Human() string {
	return d.Time().Format(humanDateLayout)
}

// Machine formats the date as YYYY-MM-DD for date-picker values
func (d Date) Machine() string {
	return d.Time().Format(machineDateLayout)
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// QuoteConfig is a user-supplied trip configuration. Origin and Destination
// are free text resolved against the catalog before submission.
type QuoteConfig struct {
	TripType       TripType
	Origin         string
	Destination    string
	DepartureDate  Date
	ReturnDate     Date
	PassengerCount int
	Ages           []int
	Agent          string
}

// Validate rejects malformed configurations before any remote interaction
func (q *QuoteConfig) Validate(today Date) error {
	if !q.TripType.IsValid() {
		return MalformedInputError("trip_type", fmt.Sprintf("invalid trip type %q", q.TripType))
	}
	if q.Origin == "" {
		return MalformedInputError("origin", "origin is required")
	}
	if q.Destination == "" {
		return MalformedInputError("destination", "destination is required")
	}
	if q.PassengerCount < 1 || q.PassengerCount > MaxPassengers {
		return MalformedInputError("passenger_count",
			fmt.Sprintf("passenger count must be between 1 and %d", MaxPassengers))
	}
	if len(q.Ages) != q.PassengerCount {
		return MalformedInputError("ages",
			fmt.Sprintf("expected %d ages, got %d", q.PassengerCount, len(q.Ages)))
	}
	for i, age := range q.Ages {
		if age < 0 || age > 120 {
			return MalformedInputError("ages", fmt.Sprintf("invalid age %d for passenger %d", age, i+1))
		}
	}
	if q.DepartureDate.IsZero() {
		return MalformedInputError("departure_date", "departure date is required")
	}
	if q.ReturnDate.IsZero() {
		return MalformedInputError("return_date", "return date is required")
	}
	if q.DepartureDate.Before(today) {
		return MalformedInputError("departure_date", "departure date must not be in the past")
	}
	if q.ReturnDate.Before(q.DepartureDate) {
		return MalformedInputError("return_date", "return date must not precede departure date")
	}
	return nil
}

// ResolvedQuote is a QuoteConfig with its free-text parameters replaced by the
// remote site's internal option IDs.
type ResolvedQuote struct {
	Config        QuoteConfig
	TripTypeID    string
	OriginID      string
	DestinationID string
	AgentID       string
}

// QuotePlan is one plan row extracted from a quote-result page. PlanID is
// opaque but follows the observed D-<tier> convention; Name may carry a second
// line with the coverage description.
type QuotePlan struct {
	PlanID string `json:"plan_id"`
	Name   string `json:"name"`
	Price  string `json:"price"`
}

// QuoteSession is the transient record of one quote submission, held only in
// the session store.
type QuoteSession struct {
	ID        string      `json:"id"`
	URL       string      `json:"url"`
	Plans     []QuotePlan `json:"plans"`
	CreatedAt time.Time   `json:"created_at"`
}
