package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestPricer() *Pricer {
	return NewPricer(map[string]float64{"Patia": 1200, "Niladri": 1500}, 1200, 0.12)
}

func TestRateFor(t *testing.T) {
	p := newTestPricer()
	assert.Equal(t, float64(1200), p.RateFor("Patia"))
	assert.Equal(t, float64(1500), p.RateFor("Niladri"))
	assert.Equal(t, float64(1200), p.RateFor("Unknown City"))
	assert.Equal(t, float64(1200), p.RateFor(""))
}

func TestNewPricer_CopiesTable(t *testing.T) {
	table := map[string]float64{"Puri": 2000}
	p := NewPricer(table, 1200, 0.12)
	table["Puri"] = 1
	assert.Equal(t, float64(2000), p.RateFor("Puri"))
}

func TestNights(t *testing.T) {
	d := func(day, hour int) time.Time { return time.Date(2026, 10, day, hour, 0, 0, 0, ist) }

	tests := []struct {
		name    string
		in, out time.Time
		want    int
	}{
		{"one night", d(19, 0), d(20, 0), 1},
		{"two nights", d(19, 0), d(21, 0), 2},
		{"partial day rounds up", d(19, 10), d(20, 12), 2},
		{"hotel hours", d(19, 14), d(20, 11), 1},
		{"same day", d(19, 10), d(19, 11), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.in, tt.out))
		})
	}
}

func TestNights_AcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 1 Nov 2026 has 25 hours in New York.
	in := time.Date(2026, 10, 31, 0, 0, 0, 0, ny)
	out := time.Date(2026, 11, 2, 0, 0, 0, 0, ny)
	assert.Equal(t, 2, Nights(in, out))
}

func TestCompute(t *testing.T) {
	p := newTestPricer()
	in := time.Date(2026, 10, 19, 0, 0, 0, 0, ist)

	// Niladri, two nights, one room
	q := p.Compute("Niladri", in, in.AddDate(0, 0, 2), 1)
	assert.Equal(t, float64(1500), q.PricePerNight)
	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, float64(3000), q.Base)
	assert.Equal(t, float64(360), q.Surcharge)
	assert.Equal(t, 3360.00, q.Total)

	// unknown location, one night, three rooms
	q = p.Compute("Unknown City", in, in.AddDate(0, 0, 1), 3)
	assert.Equal(t, float64(1200), q.PricePerNight)
	assert.Equal(t, 4032.00, q.Total)
}

func TestCompute_TotalIsBaseTimesSurcharge(t *testing.T) {
	p := NewPricer(map[string]float64{"Odd": 999.99}, 1200, 0.12)
	in := time.Date(2026, 10, 19, 0, 0, 0, 0, ist)

	for nights := 1; nights <= 10; nights++ {
		for rooms := 1; rooms <= 5; rooms++ {
			q := p.Compute("Odd", in, in.AddDate(0, 0, nights), rooms)
			assert.GreaterOrEqual(t, q.Nights, 1)
			base := 999.99 * float64(nights) * float64(rooms)
			assert.Equal(t, round2(base*1.12), q.Total)
			// stored value is already rounded
			assert.Equal(t, q.Total, round2(q.Total))
		}
	}
}
