package domain

import (
	"reflect"
	"testing"
)

func TestNormalizeSentiment(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{SentimentPositive, SentimentPositive},
		{SentimentNegative, SentimentNegative},
		{SentimentNeutral, SentimentNeutral},
		{"ややポジティブ寄り", SentimentPositive},
		{"ネガ", SentimentNegative},
		{"Positive", SentimentPositive},
		{"somewhat negative", SentimentNegative},
		{"判定不能", SentimentNeutral},
		{"", SentimentNeutral},
	}

	for _, tc := range cases {
		if got := NormalizeSentiment(tc.in); got != tc.want {
			t.Errorf("NormalizeSentiment(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewsRecordRow(t *testing.T) {
	t.Parallel()

	rec := NewsRecord{Title: "見出し", URL: "https://example.com", PublishedAt: "2024/05/01 12:00", Source: "某紙"}
	want := []string{"見出し", "https://example.com", "2024/05/01 12:00", "某紙"}
	if got := rec.Row(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Row() = %v, want %v", got, want)
	}
}

func TestSheetHeader(t *testing.T) {
	t.Parallel()

	header := SheetHeader()
	if len(header) != 6 {
		t.Fatalf("header must have 6 columns, got %d", len(header))
	}
	if header[1] != "URL" {
		t.Fatalf("column 2 must be the URL key, got %s", header[1])
	}
}
