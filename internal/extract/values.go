package extract

import (
	"fmt"
	"time"

	"github.com/ppiankov/ubkifeat/internal/document"
	"github.com/ppiankov/ubkifeat/internal/normalize"
)

// DateLayout is the bureau's date format
const DateLayout = "2006-01-02"

// dataNode returns the top-level <ubkidata> node. Responses wrapped in the
// request envelope (<doc><ubkidata>) are accepted as well.
func dataNode(doc *document.Node) *document.Node {
	if n := doc.Child("ubkidata"); n != nil {
		return n
	}
	return doc.Path("doc", "ubkidata")
}

// requireAttr returns an attribute or an errMissing-wrapped error
func requireAttr(n *document.Node, attr string) (string, error) {
	if n == nil {
		return "", fmt.Errorf("node for %s: %w", attr, errMissing)
	}
	v, ok := n.Attr(attr)
	if !ok {
		return "", fmt.Errorf("<%s> attribute %s: %w", n.Name, attr, errMissing)
	}
	return v, nil
}

// optionalNumber reads a numeric attribute. ok is false when the attribute is
// absent or a sentinel; err is set when it is present but not numeric.
func optionalNumber(n *document.Node, attr string) (float64, bool, error) {
	raw, found := n.Attr(attr)
	if !found || !normalize.IsPresent(raw) {
		return 0, false, nil
	}
	v, err := normalize.ToNumber(raw)
	if err != nil {
		return 0, false, fmt.Errorf("<%s> attribute %s: %w", n.Name, attr, err)
	}
	return v, true, nil
}

// requiredInt reads an attribute that must exist. Sentinels yield ok=false.
func requiredInt(n *document.Node, attr string) (float64, bool, error) {
	raw, err := requireAttr(n, attr)
	if err != nil {
		return 0, false, err
	}
	if !normalize.IsPresent(raw) {
		return 0, false, nil
	}
	v, err := normalize.ToInt(raw)
	if err != nil {
		return 0, false, fmt.Errorf("<%s> attribute %s: %w", n.Name, attr, err)
	}
	return v, true, nil
}

// parseDate parses a bureau date as a calendar day in UTC
func parseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", raw, err)
	}
	return t, nil
}

// wallClock drops the zone of t, keeping its calendar fields, so that day
// arithmetic against bureau dates ignores DST shifts.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
