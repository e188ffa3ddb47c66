package booking

import (
	"math"
	"strings"
	"time"
)

// Quote is the price breakdown for a stay. Total is rounded to two decimals
// and is the value that gets stored and returned.
type Quote struct {
	PricePerNight float64 `json:"pricePerNight"`
	Nights        int     `json:"nights"`
	Base          float64 `json:"base"`
	Surcharge     float64 `json:"surcharge"`
	Total         float64 `json:"totalAmount"`
}

type Pricer struct {
	table         map[string]float64
	defaultRate   float64
	surchargeRate float64
}

func NewPricer(table map[string]float64, defaultRate, surchargeRate float64) *Pricer {
	t := make(map[string]float64, len(table))
	for k, v := range table {
		t[k] = v
	}
	return &Pricer{table: t, defaultRate: defaultRate, surchargeRate: surchargeRate}
}

// RateFor returns the nightly rate for a location, or the default rate.
func (p *Pricer) RateFor(location string) float64 {
	if rate, ok := p.table[strings.TrimSpace(location)]; ok {
		return rate
	}
	return p.defaultRate
}

// Compute prices a pre-validated stay.
func (p *Pricer) Compute(location string, checkIn, checkOut time.Time, rooms int) Quote {
	rate := p.RateFor(location)
	nights := Nights(checkIn, checkOut)
	base := rate * float64(nights) * float64(rooms)
	surcharge := base * p.surchargeRate
	return Quote{
		PricePerNight: rate,
		Nights:        nights,
		Base:          round2(base),
		Surcharge:     round2(surcharge),
		Total:         round2(base + surcharge),
	}
}

func (p *Pricer) Quote(s Stay) Quote {
	return p.Compute(s.Location, s.CheckIn, s.CheckOut, s.Rooms)
}

// Nights counts calendar days between check-in and check-out, rounding a
// partial day up. Counting dates rather than hours keeps DST days whole.
func Nights(checkIn, checkOut time.Time) int {
	checkOut = checkOut.In(checkIn.Location())
	y1, m1, d1 := checkIn.Date()
	y2, m2, d2 := checkOut.Date()
	days := int(time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC).
		Sub(time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)).Hours() / 24)
	if clock(checkOut) > clock(checkIn) {
		days++
	}
	return days
}

func clock(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
