package source

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"NewsRadar/internal/config"
	"NewsRadar/internal/ports"
)

// Registry keeps a mapping from source names to their extractors.
type Registry struct {
	extractors map[string]ports.Extractor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: map[string]ports.Extractor{}}
}

// Register adds or replaces an extractor implementation.
func (r *Registry) Register(extractor ports.Extractor) {
	if r.extractors == nil {
		r.extractors = map[string]ports.Extractor{}
	}
	r.extractors[extractor.Source()] = extractor
}

// Resolve returns an extractor by source name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.Extractor, error) {
	if extractor, ok := r.extractors[name]; ok {
		return extractor, nil
	}
	return nil, fmt.Errorf("source %s has no registered extractor", name)
}

// BuildFetchRequest expands a source definition into the page load for the
// given keyword. The keyword is query-escaped into the {keyword} slot.
func BuildFetchRequest(src config.SourceConfig, keyword string) ports.FetchRequest {
	return ports.FetchRequest{
		URL:         strings.ReplaceAll(src.URLTemplate, "{keyword}", url.QueryEscape(keyword)),
		SettleDelay: time.Duration(src.SettleSeconds) * time.Second,
		Scrolls:     src.ScrollCount,
		ScrollDelay: time.Duration(src.ScrollWaitSeconds) * time.Second,
	}
}
