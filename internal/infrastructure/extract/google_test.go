package extract

import (
	"testing"
	"time"

	"NewsRadar/internal/timeparse"
)

const googleFixture = `
<main>
  <article>
    <a class="JtKRv" href="./articles/abc123">新型車を発表</a>
    <time class="hvbAAd" datetime="2024-05-01T03:00:00Z">2時間前</time>
    <div class="vr1PYe">例ニュース</div>
  </article>
  <article>
    <a class="JtKRv" href="https://example.com/full">絶対URLの記事</a>
    <time class="hvbAAd" datetime="2024-04-30T23:30:00Z">昨日</time>
  </article>
  <article>
    <time class="hvbAAd" datetime="2024-05-01T01:00:00Z">4時間前</time>
  </article>
  <article>
    <a class="JtKRv" href="./articles/bad">壊れた日付</a>
    <time class="hvbAAd" datetime="not-a-date">?</time>
  </article>
</main>`

func TestGoogleExtract(t *testing.T) {
	t.Parallel()

	reference := time.Date(2024, time.May, 1, 15, 0, 0, 0, timeparse.JST)
	records, issues, err := NewGoogleExtractor().Extract(googleFixture, reference)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}

	first := records[0]
	if first.Title != "新型車を発表" {
		t.Fatalf("unexpected title: %s", first.Title)
	}
	if first.URL != "https://news.google.com/articles/abc123" {
		t.Fatalf("unexpected url: %s", first.URL)
	}
	if first.PublishedAt != "2024/05/01 12:00" {
		t.Fatalf("unexpected published: %s", first.PublishedAt)
	}
	if first.Source != "例ニュース" {
		t.Fatalf("unexpected source: %s", first.Source)
	}

	second := records[1]
	if second.URL != "https://example.com/full" {
		t.Fatalf("unexpected url: %s", second.URL)
	}
	if second.Source != "N/A" {
		t.Fatalf("expected N/A source, got %s", second.Source)
	}
}

func TestGoogleExtractEmptyPage(t *testing.T) {
	t.Parallel()

	records, issues, err := NewGoogleExtractor().Extract("<html><body></body></html>", time.Now())
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(records) != 0 || len(issues) != 0 {
		t.Fatalf("expected empty result, got %d records %d issues", len(records), len(issues))
	}
}
