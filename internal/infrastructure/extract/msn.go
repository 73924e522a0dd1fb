package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsRadar/internal/domain"
	"NewsRadar/internal/ports"
	"NewsRadar/internal/timeparse"
)

// MSNExtractor reads Bing news cards. Publish labels are relative
// ("3時間前", "2 hours ago"), so records go through the time normalizer; an
// unresolvable label falls back to a Last-Modified probe of the article URL
// when a resolver is wired.
type MSNExtractor struct {
	head *timeparse.HeadResolver
}

var _ ports.Extractor = (*MSNExtractor)(nil)

// NewMSNExtractor builds the extractor for the "MSN" worksheet. The head
// resolver may be nil to disable the metadata fallback.
func NewMSNExtractor(head *timeparse.HeadResolver) *MSNExtractor {
	return &MSNExtractor{head: head}
}

// Source identifies the extractor inside the registry.
func (e *MSNExtractor) Source() string {
	return "MSN"
}

// Extract collects news cards, skipping those without the data-title and
// data-url attributes the card contract promises.
func (e *MSNExtractor) Extract(markup string, reference time.Time) ([]domain.NewsRecord, []domain.ExtractionError, error) {
	doc, err := newDocument(markup)
	if err != nil {
		return nil, nil, fmt.Errorf("parse bing news page: %w", err)
	}

	var (
		records []domain.NewsRecord
		issues  []domain.ExtractionError
	)

	doc.Find("div.news-card").Each(func(i int, card *goquery.Selection) {
		title := strings.TrimSpace(card.AttrOr("data-title", ""))
		cardURL := strings.TrimSpace(card.AttrOr("data-url", ""))
		if title == "" || cardURL == "" {
			issues = append(issues, badAttribute(fmt.Sprintf("card %d: data-title or data-url", i)))
			return
		}

		label := strings.TrimSpace(card.Find("span[aria-label]").First().AttrOr("aria-label", ""))
		published := e.resolvePublished(label, cardURL, reference)

		sourceName := strings.TrimSpace(card.AttrOr("data-author", ""))
		if sourceName == "" {
			sourceName = "MSN"
		}

		records = append(records, domain.NewsRecord{
			Title:       title,
			URL:         cardURL,
			PublishedAt: published,
			Source:      sourceName,
		})
	})

	return records, issues, nil
}

func (e *MSNExtractor) resolvePublished(label, articleURL string, reference time.Time) string {
	if t, ok := timeparse.Resolve(label, reference); ok {
		return timeparse.Format(t)
	}
	if e.head != nil && articleURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if t, ok := e.head.LastModified(ctx, articleURL); ok {
			return timeparse.Format(t)
		}
	}
	return domain.TimestampUnresolvable
}
