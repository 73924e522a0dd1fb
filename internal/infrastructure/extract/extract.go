// Package extract turns rendered search-result markup into NewsRecords.
// Selector sets are per source and brittle by nature; every per-article
// failure is recorded and skipped so one broken card never aborts a page.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NewsRadar/internal/domain"
)

func newDocument(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

func missing(detail string) domain.ExtractionError {
	return domain.ExtractionError{Kind: domain.ErrMissingElement, Detail: detail}
}

func badAttribute(detail string) domain.ExtractionError {
	return domain.ExtractionError{Kind: domain.ErrBadAttribute, Detail: detail}
}

func parseFailure(detail string) domain.ExtractionError {
	return domain.ExtractionError{Kind: domain.ErrParseFailure, Detail: detail}
}
