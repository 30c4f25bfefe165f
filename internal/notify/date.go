package notify

import (
	"fmt"
	"time"

	"github.com/goodsign/monday"
)

// longLayouts are the "long date" layouts per supported locale,
// e.g. "1 de junho de 2025" for pt_BR.
var longLayouts = map[monday.Locale]string{
	monday.LocalePtBR: "2 de January de 2006",
	monday.LocalePtPT: "2 de January de 2006",
	monday.LocaleEsES: "2 de January de 2006",
	monday.LocaleEnUS: "January 2, 2006",
	monday.LocaleEnGB: "2 January 2006",
	monday.LocaleFrFR: "2 January 2006",
	monday.LocaleDeDE: "2. January 2006",
	monday.LocaleItIT: "2 January 2006",
}

// DateFormatter renders dates in one locale's long form.
type DateFormatter struct {
	locale monday.Locale
	layout string
}

// NewDateFormatter returns a formatter for locale, or an error when the
// locale has no long layout.
func NewDateFormatter(locale string) (*DateFormatter, error) {
	l := monday.Locale(locale)
	layout, ok := longLayouts[l]
	if !ok {
		return nil, fmt.Errorf("unsupported mail locale %q", locale)
	}
	return &DateFormatter{locale: l, layout: layout}, nil
}

// Long formats t in UTC, the zone trip dates are stored in.
func (f *DateFormatter) Long(t time.Time) string {
	return monday.Format(t.UTC(), f.layout, f.locale)
}
