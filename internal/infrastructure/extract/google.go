package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsRadar/internal/domain"
	"NewsRadar/internal/ports"
	"NewsRadar/internal/timeparse"
)

const googleNewsBase = "https://news.google.com"

// GoogleExtractor reads the Google News search result feed. Each result is
// an <article> carrying an absolute UTC timestamp in its <time> element, so
// no relative-label resolution is needed here.
type GoogleExtractor struct{}

var _ ports.Extractor = (*GoogleExtractor)(nil)

// NewGoogleExtractor builds the extractor for the "Google" worksheet.
func NewGoogleExtractor() *GoogleExtractor {
	return &GoogleExtractor{}
}

// Source identifies the extractor inside the registry.
func (e *GoogleExtractor) Source() string {
	return "Google"
}

// Extract collects every article on the page, skipping cards with a missing
// link or timestamp.
func (e *GoogleExtractor) Extract(markup string, reference time.Time) ([]domain.NewsRecord, []domain.ExtractionError, error) {
	doc, err := newDocument(markup)
	if err != nil {
		return nil, nil, fmt.Errorf("parse google news page: %w", err)
	}

	var (
		records []domain.NewsRecord
		issues  []domain.ExtractionError
	)

	doc.Find("article").Each(func(i int, article *goquery.Selection) {
		link := article.Find("a.JtKRv").First()
		title := strings.TrimSpace(link.Text())
		href, hasHref := link.Attr("href")
		if title == "" || !hasHref || href == "" {
			issues = append(issues, missing(fmt.Sprintf("article %d: title link", i)))
			return
		}

		articleURL := href
		if strings.HasPrefix(href, "./") {
			articleURL = googleNewsBase + href[1:]
		}

		timeAttr, hasTime := article.Find("time.hvbAAd").First().Attr("datetime")
		if !hasTime {
			issues = append(issues, missing(fmt.Sprintf("article %d: time element", i)))
			return
		}
		published, err := time.Parse("2006-01-02T15:04:05Z", timeAttr)
		if err != nil {
			issues = append(issues, badAttribute(fmt.Sprintf("article %d: datetime %q", i, timeAttr)))
			return
		}

		sourceName := strings.TrimSpace(article.Find("div.vr1PYe").First().Text())
		if sourceName == "" {
			sourceName = "N/A"
		}

		records = append(records, domain.NewsRecord{
			Title:       title,
			URL:         articleURL,
			PublishedAt: timeparse.Format(published),
			Source:      sourceName,
		})
	})

	return records, issues, nil
}
