package extract

import (
	"testing"
	"time"

	"NewsRadar/internal/domain"
	"NewsRadar/internal/timeparse"
)

const yahooFixture = `
<ol>
  <li class="sc-1u4589e-0 abcd">
    <a href="https://news.yahoo.co.jp/articles/one">
      <div class="sc-3ls169-0 efgh">工場を増設へ</div>
    </a>
    <time>2024/5/1(水) 10:30</time>
    <div class="sc-n3vj8g-0 yoLqH"><div class="sc-110wjhy-8 bsEjY"><span>産業新聞</span></div></div>
  </li>
  <li class="sc-1u4589e-0 abcd">
    <a href="https://news.yahoo.co.jp/articles/two">
      <div class="sc-3ls169-0 efgh">決算を発表</div>
    </a>
    <time>昨日のどこか</time>
  </li>
  <li class="sc-1u4589e-0 abcd">
    <time>2024/5/1(水) 09:00</time>
  </li>
</ol>`

func TestYahooExtract(t *testing.T) {
	t.Parallel()

	reference := time.Date(2024, time.May, 1, 15, 0, 0, 0, timeparse.JST)
	records, issues, err := NewYahooExtractor().Extract(yahooFixture, reference)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(issues))
	}

	first := records[0]
	if first.Title != "工場を増設へ" {
		t.Fatalf("unexpected title: %s", first.Title)
	}
	if first.PublishedAt != "2024/05/01 10:30" {
		t.Fatalf("unexpected published: %s", first.PublishedAt)
	}
	if first.Source != "産業新聞" {
		t.Fatalf("unexpected source: %s", first.Source)
	}

	// Unparsable but non-empty date text is kept verbatim.
	if records[1].PublishedAt != "昨日のどこか" {
		t.Fatalf("unexpected published: %s", records[1].PublishedAt)
	}
}

func TestFormatYahooDate(t *testing.T) {
	t.Parallel()

	if got := formatYahooDate(""); got != domain.TimestampUnresolvable {
		t.Fatalf("empty date: got %s", got)
	}
	if got := formatYahooDate("2024/5/1(月) 08:05"); got != "2024/05/01 08:05" {
		t.Fatalf("weekday strip: got %s", got)
	}
}
