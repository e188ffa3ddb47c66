package booking

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Rejection reasons, one per rule, in evaluation order.
const (
	ReasonName      = "Name must be between 2 to 64 characters"
	ReasonPhone     = "Phone number must be exactly 10 digits"
	ReasonDates     = "Check-in and check-out dates are required"
	ReasonBadDate   = "Invalid check-in or check-out date"
	ReasonPast      = "Check-in date cannot be in the past"
	ReasonDateOrder = "Check-out date must be after check-in date"
	ReasonAdults    = "At least 1 adult is required"
	ReasonChildren  = "Children must be a non-negative number"
	ReasonRooms     = "At least 1 room is required"
	ReasonLocation  = "Location is required"
)

const dateLayout = "2006-01-02"

var errDateType = errors.New("date must be a string")

// ValidationError is a client error naming the first rule a request broke.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func reject(reason string) (Stay, error) {
	return Stay{}, &ValidationError{Reason: reason}
}

// Validator checks raw booking requests. It holds no mutable state.
type Validator struct {
	loc *time.Location
	now func() time.Time
}

func NewValidator(loc *time.Location, now func() time.Time) *Validator {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Validator{loc: loc, now: now}
}

// Validate runs every rule for a new booking; the first failure wins.
func (v *Validator) Validate(r Request) (Stay, error) {
	return v.validate(r, true)
}

// ValidateAmendment runs the same rules on a merged, already stored booking
// except the check-in-not-in-the-past rule.
func (v *Validator) ValidateAmendment(r Request) (Stay, error) {
	return v.validate(r, false)
}

func (v *Validator) validate(r Request, checkPast bool) (Stay, error) {
	var s Stay

	name, ok := r.Name.(string)
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); !ok || n < 2 || n > 64 {
		return reject(ReasonName)
	}
	s.Name = name

	phone, ok := digits(r.Phone)
	if !ok || len(phone) != 10 {
		return reject(ReasonPhone)
	}
	s.Phone = phone

	if blank(r.CheckIn) || blank(r.CheckOut) {
		return reject(ReasonDates)
	}

	in, errIn := v.parseDate(r.CheckIn)
	out, errOut := v.parseDate(r.CheckOut)
	if errIn != nil || errOut != nil {
		return reject(ReasonBadDate)
	}

	if checkPast && in.Before(v.today()) {
		return reject(ReasonPast)
	}
	if !out.After(in) {
		return reject(ReasonDateOrder)
	}
	s.CheckIn, s.CheckOut = in, out

	adults, ok := count(r.Adults)
	if !ok || adults < 1 {
		return reject(ReasonAdults)
	}
	s.Adults = adults

	if r.Children != nil {
		children, ok := count(r.Children)
		if !ok || children < 0 {
			return reject(ReasonChildren)
		}
		s.Children = children
	}

	rooms, ok := count(r.Rooms)
	if !ok || rooms < 1 {
		return reject(ReasonRooms)
	}
	s.Rooms = rooms

	loc, ok := r.Location.(string)
	loc = strings.TrimSpace(loc)
	if !ok || utf8.RuneCountInString(loc) < 2 {
		return reject(ReasonLocation)
	}
	s.Location = loc

	return s, nil
}

// today is midnight of the current calendar day in the hotel's zone.
func (v *Validator) today() time.Time {
	y, m, d := v.now().In(v.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, v.loc)
}

// parseDate returns the instant in the hotel's zone whatever offset it was
// written with.
func (v *Validator) parseDate(raw any) (time.Time, error) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, errDateType
	}
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, v.loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(v.loc), nil
}

func blank(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && strings.TrimSpace(s) == ""
}

// digits strips every non-digit from a phone given as a string or a number.
func digits(raw any) (string, bool) {
	if raw == nil {
		return "", false
	}
	var b strings.Builder
	for _, r := range stringify(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String(), true
}

func stringify(raw any) string {
	switch x := raw.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	default:
		return ""
	}
}

// count reads a whole number given as a JSON number or a numeric string.
func count(raw any) (int, bool) {
	var f float64
	switch x := raw.(type) {
	case float64:
		f = x
	case int:
		return x, true
	case json.Number:
		v, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = v
	case string:
		v, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = v
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
