package booking

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	ReasonEmptyUpdate = "No fields to update"
	ReasonRemark      = "Remark must be at most 500 characters"

	maxRemark = 500
)

// Announcer is told about every booking after it has been stored.
// Implementations must return without waiting on I/O.
type Announcer interface {
	Announce(b Booking)
}

// Service runs the validate, price, persist, announce pipeline.
type Service struct {
	validator  *Validator
	pricer     *Pricer
	store      Store
	announcers []Announcer
}

func NewService(v *Validator, p *Pricer, store Store, announcers ...Announcer) *Service {
	return &Service{validator: v, pricer: p, store: store, announcers: announcers}
}

// Quote validates and prices a request without storing it.
func (s *Service) Quote(r Request) (Stay, Quote, error) {
	stay, err := s.validator.Validate(r)
	if err != nil {
		return Stay{}, Quote{}, err
	}
	return stay, s.pricer.Quote(stay), nil
}

func (s *Service) Create(ctx context.Context, r Request) (*Booking, error) {
	stay, q, err := s.Quote(r)
	if err != nil {
		return nil, err
	}
	b := NewBooking(stay, q)
	if _, err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	for _, a := range s.announcers {
		a.Announce(*b)
	}
	return b, nil
}

func (s *Service) List(ctx context.Context) ([]Booking, error) {
	return s.store.FindAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.store.FindByID(ctx, id)
}

// Update merges the patch onto the stored booking, re-validates the result
// and writes only the patched fields. Price fields are recomputed when a
// pricing input changes. The write only lands if the booking is still at
// the revision that was validated, otherwise ErrConflict is returned.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*Booking, error) {
	if p.Empty() {
		return nil, &ValidationError{Reason: ReasonEmptyUpdate}
	}
	if p.Remark != nil && utf8.RuneCountInString(*p.Remark) > maxRemark {
		return nil, &ValidationError{Reason: ReasonRemark}
	}

	cur, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stay, err := s.validator.ValidateAmendment(merge(cur, p))
	if err != nil {
		return nil, err
	}

	set := Fields{}
	if p.Name != nil {
		set["name"] = stay.Name
	}
	if p.Phone != nil {
		set["phone"] = stay.Phone
	}
	if p.Location != nil {
		set["location"] = stay.Location
	}
	if p.CheckIn != nil {
		set["checkin"] = stay.CheckIn
	}
	if p.CheckOut != nil {
		set["checkout"] = stay.CheckOut
	}
	if p.Adults != nil {
		set["adults"] = stay.Adults
	}
	if p.Children != nil {
		set["children"] = stay.Children
	}
	if p.Rooms != nil {
		set["rooms"] = stay.Rooms
	}
	if p.Remark != nil {
		set["remark"] = strings.TrimSpace(*p.Remark)
	}
	if p.touchesPrice() {
		q := s.pricer.Quote(stay)
		set["pricePerNight"] = q.PricePerNight
		set["nights"] = q.Nights
		set["totalAmount"] = q.Total
	}

	return s.store.UpdateByID(ctx, id, cur.Revision, set)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteByID(ctx, id)
}

// merge builds the raw request the amended booking would have come from.
func merge(b *Booking, p Patch) Request {
	r := Request{
		Name:     b.Name,
		Phone:    b.Phone,
		Location: b.Location,
		CheckIn:  b.CheckIn.Format(time.RFC3339Nano),
		CheckOut: b.CheckOut.Format(time.RFC3339Nano),
		Adults:   b.Adults,
		Children: b.Children,
		Rooms:    b.Rooms,
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.Location != nil {
		r.Location = *p.Location
	}
	if p.CheckIn != nil {
		r.CheckIn = *p.CheckIn
	}
	if p.CheckOut != nil {
		r.CheckOut = *p.CheckOut
	}
	if p.Adults != nil {
		r.Adults = *p.Adults
	}
	if p.Children != nil {
		r.Children = *p.Children
	}
	if p.Rooms != nil {
		r.Rooms = *p.Rooms
	}
	return r
}
