package source

import (
	"testing"
	"time"

	"NewsRadar/internal/config"
	"NewsRadar/internal/domain"
	"NewsRadar/internal/ports"
)

type stubExtractor struct{ name string }

func (s *stubExtractor) Source() string { return s.name }

func (s *stubExtractor) Extract(markup string, reference time.Time) ([]domain.NewsRecord, []domain.ExtractionError, error) {
	return nil, nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(&stubExtractor{name: "Google"})

	if _, err := registry.Resolve("Google"); err != nil {
		t.Fatalf("Resolve(Google): %v", err)
	}
	if _, err := registry.Resolve("MSN"); err == nil {
		t.Fatal("expected error for unregistered source")
	}
}

func TestBuildFetchRequest(t *testing.T) {
	t.Parallel()

	src := config.SourceConfig{
		Name:              "Google",
		URLTemplate:       "https://news.google.com/search?q={keyword}&hl=ja",
		SettleSeconds:     5,
		ScrollCount:       3,
		ScrollWaitSeconds: 2,
	}

	req := BuildFetchRequest(src, "トヨタ")
	want := ports.FetchRequest{
		URL:         "https://news.google.com/search?q=%E3%83%88%E3%83%A8%E3%82%BF&hl=ja",
		SettleDelay: 5 * time.Second,
		Scrolls:     3,
		ScrollDelay: 2 * time.Second,
	}
	if req != want {
		t.Fatalf("BuildFetchRequest = %+v, want %+v", req, want)
	}
}
