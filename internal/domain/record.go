package domain

import "strings"

// NewsRecord is one normalized search result extracted from a source page.
// PublishedAt holds the formatted timestamp string, or TimestampUnresolvable
// when no pattern could resolve the source label.
type NewsRecord struct {
	Title       string
	URL         string
	PublishedAt string
	Source      string
}

// Row renders the record as the first four worksheet columns. Sentiment and
// category stay blank until classification fills them in.
func (r NewsRecord) Row() []string {
	return []string{r.Title, r.URL, r.PublishedAt, r.Source}
}

// TimestampUnresolvable is stored literally in the published-at column when a
// label cannot be resolved to an absolute timestamp.
const TimestampUnresolvable = "取得不可"

// SheetHeader returns the six column labels every worksheet starts with.
// Column order is the table contract: dedup reads column 2, classification
// reads column 1 and writes columns 5 and 6.
func SheetHeader() []string {
	return []string{"タイトル", "URL", "投稿日", "引用元", "ポジネガ", "カテゴリ"}
}

// Canonical sentiment labels written to column 5.
const (
	SentimentPositive = "ポジティブ"
	SentimentNegative = "ネガティブ"
	SentimentNeutral  = "ニュートラル"
)

// NormalizeSentiment coerces a classifier label onto the canonical set.
// Off-vocabulary answers are repaired by root substring, everything else
// falls back to neutral.
func NormalizeSentiment(s string) string {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return s
	}
	switch {
	case containsAny(s, "ポジ", "positive"):
		return SentimentPositive
	case containsAny(s, "ネガ", "negative"):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func containsAny(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

// ClassificationResult is one row-scoped classifier verdict, applied as a
// single two-cell range write and then discarded.
type ClassificationResult struct {
	Row       int
	Sentiment string
	Category  string
}

// ExtractionErrorKind enumerates why a single article was skipped.
type ExtractionErrorKind string

const (
	ErrMissingElement ExtractionErrorKind = "missing-element"
	ErrBadAttribute   ExtractionErrorKind = "bad-attribute"
	ErrParseFailure   ExtractionErrorKind = "parse-failure"
)

// ExtractionError records one skipped article. Extractors collect these
// instead of aborting the page; the pipeline logs them in aggregate.
type ExtractionError struct {
	Kind   ExtractionErrorKind
	Detail string
}

func (e ExtractionError) Error() string {
	return string(e.Kind) + ": " + e.Detail
}
