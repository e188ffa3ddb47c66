package booking

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// fixed clock: 19 Oct 2026, 10:30 local
var testNow = time.Date(2026, 10, 19, 10, 30, 0, 0, ist)

func day(offset int) string {
	return testNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func newTestValidator() *Validator {
	return NewValidator(ist, func() time.Time { return testNow })
}

func validRequest() Request {
	return Request{
		Name:     "Jane Doe",
		Phone:    "98-7654-3210",
		Location: "Niladri",
		CheckIn:  day(0),
		CheckOut: day(2),
		Adults:   float64(2),
		Rooms:    float64(1),
	}
}

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Reason
}

func TestValidate_Accepts(t *testing.T) {
	s, err := newTestValidator().Validate(validRequest())
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", s.Name)
	assert.Equal(t, "9876543210", s.Phone)
	assert.Equal(t, "Niladri", s.Location)
	assert.Equal(t, 2, s.Adults)
	assert.Equal(t, 0, s.Children)
	assert.Equal(t, 1, s.Rooms)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, ist), s.CheckIn)
	assert.Equal(t, time.Date(2026, 10, 21, 0, 0, 0, 0, ist), s.CheckOut)
}

func TestValidate_Normalizes(t *testing.T) {
	r := validRequest()
	r.Name = "  Jane Doe  "
	r.Location = " Patia "
	r.Phone = float64(9876543210)
	r.Adults = "3"
	r.Children = json.Number("2")
	r.Rooms = "2"

	s, err := newTestValidator().Validate(r)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", s.Name)
	assert.Equal(t, "Patia", s.Location)
	assert.Equal(t, "9876543210", s.Phone)
	assert.Equal(t, 3, s.Adults)
	assert.Equal(t, 2, s.Children)
	assert.Equal(t, 2, s.Rooms)
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		want   string
	}{
		{"name missing", func(r *Request) { r.Name = nil }, ReasonName},
		{"name too short", func(r *Request) { r.Name = "A" }, ReasonName},
		{"name only spaces", func(r *Request) { r.Name = "   " }, ReasonName},
		{"name not a string", func(r *Request) { r.Name = float64(42) }, ReasonName},
		{"name too long", func(r *Request) { r.Name = strings.Repeat("x", 65) }, ReasonName},
		{"phone missing", func(r *Request) { r.Phone = nil }, ReasonPhone},
		{"phone short", func(r *Request) { r.Phone = "12345" }, ReasonPhone},
		{"phone long", func(r *Request) { r.Phone = "+91 98765 43210" }, ReasonPhone},
		{"checkin missing", func(r *Request) { r.CheckIn = nil }, ReasonDates},
		{"checkout empty", func(r *Request) { r.CheckOut = "" }, ReasonDates},
		{"checkin garbage", func(r *Request) { r.CheckIn = "tomorrow" }, ReasonBadDate},
		{"checkout impossible", func(r *Request) { r.CheckOut = "2026-02-30" }, ReasonBadDate},
		{"checkin not a string", func(r *Request) { r.CheckIn = float64(20261019) }, ReasonBadDate},
		{"checkin yesterday", func(r *Request) { r.CheckIn = day(-1) }, ReasonPast},
		{"checkout equals checkin", func(r *Request) { r.CheckOut = day(0) }, ReasonDateOrder},
		{"checkout before checkin", func(r *Request) { r.CheckIn = day(3) }, ReasonDateOrder},
		{"adults missing", func(r *Request) { r.Adults = nil }, ReasonAdults},
		{"adults zero", func(r *Request) { r.Adults = float64(0) }, ReasonAdults},
		{"adults not numeric", func(r *Request) { r.Adults = "two" }, ReasonAdults},
		{"adults fractional", func(r *Request) { r.Adults = float64(1.5) }, ReasonAdults},
		{"children negative", func(r *Request) { r.Children = float64(-1) }, ReasonChildren},
		{"children not numeric", func(r *Request) { r.Children = true }, ReasonChildren},
		{"rooms missing", func(r *Request) { r.Rooms = nil }, ReasonRooms},
		{"rooms zero", func(r *Request) { r.Rooms = "0" }, ReasonRooms},
		{"location missing", func(r *Request) { r.Location = nil }, ReasonLocation},
		{"location too short", func(r *Request) { r.Location = " X " }, ReasonLocation},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRequest()
			tt.mutate(&r)
			_, err := v.Validate(r)
			assert.Equal(t, tt.want, reasonOf(t, err))
		})
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	v := newTestValidator()

	r := validRequest()
	r.Name = "A"
	r.Phone = "12345"
	_, err := v.Validate(r)
	assert.Equal(t, ReasonName, reasonOf(t, err))

	r = validRequest()
	r.CheckIn = day(-1)
	r.Adults = float64(0)
	r.Location = nil
	_, err = v.Validate(r)
	assert.Equal(t, ReasonPast, reasonOf(t, err))

	_, err = v.Validate(Request{})
	assert.Equal(t, ReasonName, reasonOf(t, err))
}

func TestValidate_CheckInBoundary(t *testing.T) {
	v := newTestValidator()

	// today is accepted even though the clock is past midnight
	r := validRequest()
	r.CheckIn = day(0)
	_, err := v.Validate(r)
	assert.NoError(t, err)

	// earlier today with a time of day is still today
	r.CheckIn = time.Date(2026, 10, 19, 1, 0, 0, 0, ist).Format(time.RFC3339)
	_, err = v.Validate(r)
	assert.NoError(t, err)

	r.CheckIn = time.Date(2026, 10, 18, 23, 59, 0, 0, ist).Format(time.RFC3339)
	_, err = v.Validate(r)
	assert.Equal(t, ReasonPast, reasonOf(t, err))
}

func TestValidate_Idempotent(t *testing.T) {
	v := newTestValidator()

	a, errA := v.Validate(validRequest())
	b, errB := v.Validate(validRequest())
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)

	bad := validRequest()
	bad.Phone = "12345"
	_, errA = v.Validate(bad)
	_, errB = v.Validate(bad)
	assert.Equal(t, errA, errB)
}

func TestValidateAmendment_AllowsPastCheckIn(t *testing.T) {
	v := newTestValidator()
	r := validRequest()
	r.CheckIn = day(-3)

	_, err := v.ValidateAmendment(r)
	assert.NoError(t, err)

	r.CheckOut = day(-4)
	_, err = v.ValidateAmendment(r)
	assert.Equal(t, ReasonDateOrder, reasonOf(t, err))
}

func TestValidate_DecodedJSON(t *testing.T) {
	body := `{"name":"Jane Doe","phone":"98-7654-3210","location":"Niladri",
		"checkin":"` + day(0) + `","checkout":"` + day(2) + `","adults":2,"rooms":1}`
	var r Request
	require.NoError(t, json.Unmarshal([]byte(body), &r))

	s, err := newTestValidator().Validate(r)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Adults)
	assert.Equal(t, 0, s.Children)
}
