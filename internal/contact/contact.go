// Package contact imports a date of birth from vCard data.
package contact

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-agecalc/internal/age"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// ErrNoBirthDate is returned when no card carries a BDAY with a year.
var ErrNoBirthDate = errors.New(config.ErrVCardNoBirth)

// Person is the first usable card of a vCard stream.
type Person struct {
	Name      string
	BirthDate age.CalendarDate
}

// ReadFile opens path and reads it with ReadBirthDate.
func ReadFile(path string) (Person, error) {
	f, err := os.Open(path)
	if err != nil {
		return Person{}, fmt.Errorf("%s: %w", config.ErrVCardOpen, err)
	}
	// Read-only file; a Close error is not actionable.
	defer func() { _ = f.Close() }()

	return ReadBirthDate(f)
}

// ReadBirthDate returns the first card whose BDAY includes a year.
// Malformed cards and year-less dates (--MM-DD) are skipped.
func ReadBirthDate(r io.Reader) (Person, error) {
	log := slog.With(config.LogKeyComponent, config.CompContact)
	decoder := vcard.NewDecoder(r)

	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			return Person{}, ErrNoBirthDate
		}
		if err != nil {
			// A broken card poisons the rest of the stream.
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			return Person{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birth, err := parseDate(bday.Value)
		if err != nil {
			log.Debug(config.MsgSkippedDate, config.LogKeyValue, bday.Value)
			continue
		}

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = strings.Trim(strings.ReplaceAll(n.Value, ";", " "), " ")
		}

		return Person{Name: name, BirthDate: birth}, nil
	}
}

// parseDate accepts the vCard date forms that carry a year.
func parseDate(value string) (age.CalendarDate, error) {
	layouts := []string{
		config.DateLayout,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return age.DateOf(t), nil
		}
	}
	return age.CalendarDate{}, fmt.Errorf("%s %q: %w", config.ErrDateParse, value, age.ErrInvalidDate)
}
