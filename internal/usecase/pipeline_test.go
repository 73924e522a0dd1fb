package usecase

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"NewsRadar/internal/config"
	"NewsRadar/internal/domain"
	"NewsRadar/internal/source"
)

func twoSourceDeps(store *fakeStore, classifier *fakeClassifier) PipelineDeps {
	registry := source.NewRegistry()
	registry.Register(&fakeExtractor{name: "Google", records: []domain.NewsRecord{
		record("G一", "https://g/1"),
		record("G二", "https://g/2"),
		record("G三", "https://g/3"),
	}})
	registry.Register(&fakeExtractor{name: "Yahoo", records: []domain.NewsRecord{
		record("Y一", "https://y/1"),
	}})

	deps := PipelineDeps{
		Fetcher:  &fakeFetcher{markup: "<html></html>"},
		Registry: registry,
		Store:    store,
		Logger:   slog.Default(),
		Keyword:  "トヨタ",
		Sources: []config.SourceConfig{
			{Name: "Google", Worksheet: "Google", URLTemplate: "https://g/{keyword}"},
			{Name: "Yahoo", Worksheet: "Yahoo", URLTemplate: "https://y/{keyword}"},
		},
	}
	// Assign only when non-nil so a nil *fakeClassifier arrives as a nil
	// interface, not a typed-nil wrapped in ports.Classifier.
	if classifier != nil {
		deps.Classifier = classifier
	}
	return deps
}

func TestRunEndToEnd(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	classifier := &fakeClassifier{responses: []string{
		`[
		  {"row": 2, "sentiment": "ポジティブ", "category": "会社（トヨタ）"},
		  {"row": 3, "sentiment": "ニュートラル", "category": "その他"},
		  {"row": 4, "sentiment": "ネガティブ", "category": "株式"}
		]`,
		`[{"row": 2, "sentiment": "ニュートラル", "category": "その他"}]`,
	}}

	p := NewPipeline(twoSourceDeps(store, classifier))
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	google := store.sheets["Google"]
	if len(google) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(google))
	}
	if !reflect.DeepEqual(google[0], domain.SheetHeader()) {
		t.Fatalf("missing header: %v", google[0])
	}
	for i, want := range []string{domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative} {
		if google[i+1][4] != want {
			t.Fatalf("row %d sentiment = %q, want %q", i+2, google[i+1][4], want)
		}
	}
	if google[1][0] != "G一" || google[1][1] != "https://g/1" {
		t.Fatalf("data columns disturbed: %v", google[1])
	}

	yahoo := store.sheets["Yahoo"]
	if len(yahoo) != 2 || yahoo[1][4] != domain.SentimentNeutral {
		t.Fatalf("yahoo worksheet wrong: %v", yahoo)
	}
}

func TestRunReplayAppendsNothing(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	classifier := &fakeClassifier{responses: []string{
		`[{"row": 2, "sentiment": "ポジティブ", "category": "その他"},
		  {"row": 3, "sentiment": "ポジティブ", "category": "その他"},
		  {"row": 4, "sentiment": "ポジティブ", "category": "その他"}]`,
		`[{"row": 2, "sentiment": "ポジティブ", "category": "その他"}]`,
	}}

	p := NewPipeline(twoSourceDeps(store, classifier))
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	appends := store.appendCalls

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if store.appendCalls != appends {
		t.Fatalf("replay run wrote rows: %d -> %d append calls", appends, store.appendCalls)
	}
	if len(store.sheets["Google"]) != 4 {
		t.Fatalf("row count changed on replay: %d", len(store.sheets["Google"]))
	}
}

func TestRunIsolatesStorageFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.appendErr = errors.New("quota exceeded")

	p := NewPipeline(twoSourceDeps(store, nil))
	err := p.Run(context.Background())
	if err == nil {
		t.Fatal("expected storage failure to surface")
	}
	if !strings.Contains(err.Error(), "Google") || !strings.Contains(err.Error(), "Yahoo") {
		t.Fatalf("expected both sources in joined error, got %v", err)
	}
}

func TestRunToleratesFetchFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	deps := twoSourceDeps(store, nil)
	deps.Fetcher = &fakeFetcher{err: errors.New("browser crashed")}

	p := NewPipeline(deps)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("fetch failure must not fail the run: %v", err)
	}
	if len(store.sheets) != 0 {
		t.Fatalf("worksheets created despite fetch failure: %v", store.sheets)
	}
}

func TestRunUnknownSourceIsSkipped(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	deps := twoSourceDeps(store, nil)
	deps.Sources = append(deps.Sources, config.SourceConfig{Name: "Nikkei", Worksheet: "Nikkei"})

	p := NewPipeline(deps)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("unknown source must not fail the run: %v", err)
	}
	if _, ok := store.sheets["Nikkei"]; ok {
		t.Fatal("worksheet created for unregistered source")
	}
}
