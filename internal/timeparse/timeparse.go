package timeparse

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the timestamp format stored in the published-at column.
const Layout = "2006/01/02 15:04"

// JST is the fixed storage offset. Labels and Last-Modified headers are
// normalized to it regardless of the host timezone.
var JST = time.FixedZone("JST", 9*60*60)

// Format renders an instant in the storage layout, in JST.
func Format(t time.Time) string {
	return t.In(JST).Format(Layout)
}

var (
	numberExpr    = regexp.MustCompile(`\d+`)
	monthDayExpr  = regexp.MustCompile(`^(\d{1,2})月(\d{1,2})日`)
	slashDateExpr = regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}`)
	clockExpr     = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)
)

// Resolve converts a relative or partial published label into an absolute
// instant, anchored to the injected reference. Pattern classes are tried in
// priority order; the first match wins. A label matching no class, or one
// whose digits do not form a valid date, reports ok=false and the caller
// stores the unresolvable sentinel.
//
// Month-day labels assume the reference year even when the resulting date
// lands after the reference instant; the year is deliberately not rolled
// back (see DESIGN.md).
func Resolve(label string, reference time.Time) (time.Time, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return time.Time{}, false
	}

	switch {
	case strings.Contains(label, "分前") || strings.Contains(label, "minute"):
		if n, ok := firstNumber(label); ok {
			return reference.Add(-time.Duration(n) * time.Minute), true
		}
	case strings.Contains(label, "時間前") || strings.Contains(label, "hour"):
		if n, ok := firstNumber(label); ok {
			return reference.Add(-time.Duration(n) * time.Hour), true
		}
	case strings.Contains(label, "日前") || strings.Contains(label, "day"):
		if n, ok := firstNumber(label); ok {
			return reference.AddDate(0, 0, -n), true
		}
	case monthDayExpr.MatchString(label):
		m := monthDayExpr.FindStringSubmatch(label)
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		return time.Date(reference.Year(), time.Month(month), day, 0, 0, 0, 0, reference.Location()), true
	case slashDateExpr.MatchString(label):
		t, err := time.ParseInLocation("2006/1/2", slashDateExpr.FindString(label), reference.Location())
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case clockExpr.MatchString(label):
		m := clockExpr.FindStringSubmatch(label)
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return time.Time{}, false
		}
		t := time.Date(reference.Year(), reference.Month(), reference.Day(), hour, minute, 0, 0, reference.Location())
		if t.After(reference) {
			// A bare time of day means "earlier today", so a future
			// combination must have been yesterday.
			t = t.AddDate(0, 0, -1)
		}
		return t, true
	}

	return time.Time{}, false
}

func firstNumber(s string) (int, bool) {
	m := numberExpr.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HeadResolver is the best-effort fallback for unresolvable labels: issue a
// HEAD request against the article URL and read its Last-Modified header.
type HeadResolver struct {
	client *http.Client
}

// NewHeadResolver wires an HTTP client; the default carries the 5s bound the
// fallback must respect so one article cannot stall a run.
func NewHeadResolver(client *http.Client) *HeadResolver {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &HeadResolver{client: client}
}

// LastModified returns the article's Last-Modified instant in JST. Any
// failure (network, status, absent or malformed header) reports ok=false;
// the fallback never raises.
func (h *HeadResolver) LastModified(ctx context.Context, url string) (time.Time, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return time.Time{}, false
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return time.Time{}, false
	}
	defer resp.Body.Close()

	value := resp.Header.Get("Last-Modified")
	if value == "" {
		return time.Time{}, false
	}

	t, err := http.ParseTime(value)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(JST), true
}
