package booking

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

const invoiceFont = "invoice"

// Invoicer renders booking invoices. Without a UTF-8 font it falls back to
// the core Arial font, which only covers cp1252.
type Invoicer struct {
	loc  *time.Location
	font []byte
}

// NewInvoicer takes the hotel zone and optional TTF bytes.
func NewInvoicer(loc *time.Location, utf8Font []byte) *Invoicer {
	if loc == nil {
		loc = time.Local
	}
	return &Invoicer{loc: loc, font: utf8Font}
}

// Render draws a one-page PDF for the booking with a QR code of its id.
func (iv *Invoicer) Render(b Booking) ([]byte, error) {
	loc := iv.loc

	qrPNG, err := qrcode.Encode("booking:"+b.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	family, tr := iv.fonts(pdf)
	setFont := func(style string, size float64) { pdf.SetFont(family, style, size) }

	pdf.AddPage()
	setFont("B", 16)
	pdf.Cell(40, 10, "Booking Invoice")
	pdf.Ln(12)

	setFont("", 12)
	line := func(format string, args ...any) {
		pdf.Cell(0, 10, tr(fmt.Sprintf(format, args...)))
		pdf.Ln(8)
	}
	line("Booking ID: %s", b.ID)
	line("Guest: %s", b.Name)
	line("Phone: %s", b.Phone)
	line("Location: %s", b.Location)
	line("Check-in: %s", b.CheckIn.In(loc).Format("02 Jan 2006"))
	line("Check-out: %s", b.CheckOut.In(loc).Format("02 Jan 2006"))
	line("Guests: %d adult(s), %d child(ren)", b.Adults, b.Children)
	line("Rooms: %d", b.Rooms)
	pdf.Ln(4)

	base := round2(b.PricePerNight * float64(b.Nights) * float64(b.Rooms))
	line("Rate per night: %.2f", b.PricePerNight)
	line("Nights: %d", b.Nights)
	line("Base: %.2f", base)
	line("Surcharge: %.2f", round2(b.TotalAmount-base))
	setFont("B", 12)
	line("Total: %.2f", b.TotalAmount)

	if b.Remark != "" {
		setFont("I", 11)
		line("Remark: %s", b.Remark)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fonts registers the invoice font on pdf and returns its family with the
// text encoder that matches it.
func (iv *Invoicer) fonts(pdf *gofpdf.Fpdf) (string, func(string) string) {
	if len(iv.font) == 0 {
		return "Arial", pdf.UnicodeTranslatorFromDescriptor("")
	}
	// one face serves every style
	for _, style := range []string{"", "B", "I"} {
		pdf.AddUTF8FontFromBytes(invoiceFont, style, iv.font)
	}
	return invoiceFont, func(s string) string { return s }
}
