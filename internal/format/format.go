// Package format renders money and dates the way the dashboard displays them:
// Indonesian Rupiah with dot grouping and Indonesian month names.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocation is Central Indonesia Time, where the shop operates.
var DefaultLocation = time.FixedZone("WITA", 8*60*60)

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Formatter formats values for one time zone.
type Formatter struct {
	loc     *time.Location
	printer *message.Printer
}

// New returns a formatter that renders times in loc. A nil loc means
// DefaultLocation.
func New(loc *time.Location) *Formatter {
	if loc == nil {
		loc = DefaultLocation
	}
	return &Formatter{
		loc:     loc,
		printer: message.NewPrinter(language.Indonesian),
	}
}

// Number renders n with Indonesian digit grouping, e.g. 1.500.000.
func (f *Formatter) Number(n int64) string {
	return f.printer.Sprintf("%d", n)
}

// Currency renders a whole Rupiah amount, e.g. "Rp 1.500.000" or "-Rp 25.000".
func (f *Formatter) Currency(amount int64) string {
	if amount < 0 {
		// Negate in uint64 so math.MinInt64 does not overflow.
		return "-Rp " + f.printer.Sprintf("%d", uint64(-(amount+1))+1)
	}
	return "Rp " + f.Number(amount)
}

// Date renders t as "18 Oktober 2026".
func (f *Formatter) Date(t time.Time) string {
	t = t.In(f.loc)
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

// DateTime renders t as "18 Oktober 2026 14:05".
func (f *Formatter) DateTime(t time.Time) string {
	return f.Date(t) + " " + t.In(f.loc).Format("15:04")
}

// ShortDate renders t as "18/10/2026".
func (f *Formatter) ShortDate(t time.Time) string {
	return t.In(f.loc).Format("02/01/2006")
}

// RentalDays counts calendar days between pickup and return in the
// formatter's zone. Same-day and inverted ranges count as one day.
func (f *Formatter) RentalDays(start, end time.Time) int {
	s := start.In(f.loc)
	e := end.In(f.loc)
	sd := time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, time.UTC)
	ed := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	days := int(ed.Sub(sd).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}
