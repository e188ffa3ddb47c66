package booking

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("booking not found")
	// ErrConflict means the booking changed between read and write.
	ErrConflict = errors.New("booking was modified concurrently")
)

// Request is the raw booking payload. Fields are decoded loosely so the
// validator can tell a missing value from a mistyped one.
type Request struct {
	Name     any `json:"name"`
	Phone    any `json:"phone"`
	Location any `json:"location"`
	CheckIn  any `json:"checkin"`
	CheckOut any `json:"checkout"`
	Adults   any `json:"adults"`
	Children any `json:"children"`
	Rooms    any `json:"rooms"`
}

// Stay is a validated, normalized booking request.
type Stay struct {
	Name     string
	Phone    string
	Location string
	CheckIn  time.Time
	CheckOut time.Time
	Adults   int
	Children int
	Rooms    int
}

type Booking struct {
	ID            string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Phone         string    `json:"phone" bson:"phone"`
	Location      string    `json:"location" bson:"location"`
	CheckIn       time.Time `json:"checkin" bson:"checkin"`
	CheckOut      time.Time `json:"checkout" bson:"checkout"`
	Adults        int       `json:"adults" bson:"adults"`
	Children      int       `json:"children" bson:"children"`
	Rooms         int       `json:"rooms" bson:"rooms"`
	PricePerNight float64   `json:"pricePerNight" bson:"pricePerNight"`
	Nights        int       `json:"nights" bson:"nights"`
	TotalAmount   float64   `json:"totalAmount" bson:"totalAmount"`
	Remark        string    `json:"remark" bson:"remark"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	Revision      int       `json:"revision" bson:"revision"`
}

// NewBooking builds an unsaved booking from a stay and its quote.
// Remark is always empty on creation.
func NewBooking(s Stay, q Quote) *Booking {
	return &Booking{
		Name:          s.Name,
		Phone:         s.Phone,
		Location:      s.Location,
		CheckIn:       s.CheckIn,
		CheckOut:      s.CheckOut,
		Adults:        s.Adults,
		Children:      s.Children,
		Rooms:         s.Rooms,
		PricePerNight: q.PricePerNight,
		Nights:        q.Nights,
		TotalAmount:   q.Total,
	}
}

// Stay returns the booking's stay fields.
func (b *Booking) Stay() Stay {
	return Stay{
		Name:     b.Name,
		Phone:    b.Phone,
		Location: b.Location,
		CheckIn:  b.CheckIn,
		CheckOut: b.CheckOut,
		Adults:   b.Adults,
		Children: b.Children,
		Rooms:    b.Rooms,
	}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	CheckIn  *string `json:"checkin,omitempty"`
	CheckOut *string `json:"checkout,omitempty"`
	Adults   *int    `json:"adults,omitempty"`
	Children *int    `json:"children,omitempty"`
	Rooms    *int    `json:"rooms,omitempty"`
	Remark   *string `json:"remark,omitempty"`
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Location == nil &&
		p.CheckIn == nil && p.CheckOut == nil && p.Adults == nil &&
		p.Children == nil && p.Rooms == nil && p.Remark == nil
}

func (p Patch) touchesPrice() bool {
	return p.Location != nil || p.CheckIn != nil || p.CheckOut != nil || p.Rooms != nil
}

// Fields is the set of stored fields an update writes.
type Fields map[string]any
