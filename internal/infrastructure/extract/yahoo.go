package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsRadar/internal/domain"
	"NewsRadar/internal/ports"
	"NewsRadar/internal/timeparse"
)

var (
	weekdayExpr  = regexp.MustCompile(`\([月火水木金土日]\)`)
	wordExpr     = regexp.MustCompile(`[ぁ-んァ-ン一-龥A-Za-z]`)
	digitsExpr   = regexp.MustCompile(`^\d+$`)
	yahooDateFmt = "2006/1/2 15:04"
)

// YahooExtractor reads Yahoo! News search results. The markup uses
// generated class names, so matching is by stable class prefixes and the
// publisher name is recovered heuristically.
type YahooExtractor struct{}

var _ ports.Extractor = (*YahooExtractor)(nil)

// NewYahooExtractor builds the extractor for the "Yahoo" worksheet.
func NewYahooExtractor() *YahooExtractor {
	return &YahooExtractor{}
}

// Source identifies the extractor inside the registry.
func (e *YahooExtractor) Source() string {
	return "Yahoo"
}

// Extract collects result list items, dropping entries without a title or
// link. Date text that matches no layout is stored verbatim rather than
// replaced with the sentinel.
func (e *YahooExtractor) Extract(markup string, reference time.Time) ([]domain.NewsRecord, []domain.ExtractionError, error) {
	doc, err := newDocument(markup)
	if err != nil {
		return nil, nil, fmt.Errorf("parse yahoo news page: %w", err)
	}

	var (
		records []domain.NewsRecord
		issues  []domain.ExtractionError
	)

	doc.Find(`li[class*="sc-1u4589e-0"]`).Each(func(i int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find(`div[class*="sc-3ls169-0"]`).First().Text())
		href, _ := item.Find("a[href]").First().Attr("href")
		if title == "" || href == "" {
			issues = append(issues, missing(fmt.Sprintf("item %d: title or link", i)))
			return
		}

		published := formatYahooDate(strings.TrimSpace(item.Find("time").First().Text()))
		records = append(records, domain.NewsRecord{
			Title:       title,
			URL:         href,
			PublishedAt: published,
			Source:      publisherName(item),
		})
	})

	return records, issues, nil
}

func formatYahooDate(text string) string {
	if text == "" {
		return domain.TimestampUnresolvable
	}

	cleaned := strings.TrimSpace(weekdayExpr.ReplaceAllString(text, ""))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if t, err := time.ParseInLocation(yahooDateFmt, cleaned, timeparse.JST); err == nil {
		return timeparse.Format(t)
	}
	return cleaned
}

// publisherName digs the publisher out of the item. The primary span sits in
// a known container; when that yields nothing usable, any short run of text
// with at least one letter serves.
func publisherName(item *goquery.Selection) string {
	primary := strings.TrimSpace(item.Find(`div[class*="sc-n3vj8g-0"] span`).First().Text())
	if primary != "" && !digitsExpr.MatchString(primary) {
		return primary
	}

	var fallback string
	item.Find("span, div").EachWithBreak(func(i int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if len([]rune(text)) >= 2 && len([]rune(text)) <= 20 &&
			!digitsExpr.MatchString(text) && wordExpr.MatchString(text) {
			fallback = text
			return false
		}
		return true
	})
	return fallback
}
