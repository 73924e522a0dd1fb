package usecase

import (
	"context"
	"fmt"
	"time"

	"NewsRadar/internal/domain"
	"NewsRadar/internal/ports"
)

// fakeStore is an in-memory SheetStore with the same row/range semantics as
// the real backend.
type fakeStore struct {
	sheets       map[string][][]string
	appendCalls  int
	updateCalls  int
	batchUpdates int
	appendErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{sheets: map[string][][]string{}}
}

func (s *fakeStore) ReadAll(ctx context.Context, worksheet string) ([][]string, error) {
	rows, ok := s.sheets[worksheet]
	if !ok {
		return nil, ports.ErrWorksheetNotFound
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string{}, row...)
	}
	return out, nil
}

func (s *fakeStore) CreateWorksheet(ctx context.Context, worksheet string, header []string) error {
	s.sheets[worksheet] = [][]string{append([]string{}, header...)}
	return nil
}

func (s *fakeStore) AppendRows(ctx context.Context, worksheet string, rows [][]string) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appendCalls++
	for _, row := range rows {
		s.sheets[worksheet] = append(s.sheets[worksheet], append([]string{}, row...))
	}
	return nil
}

func (s *fakeStore) UpdateRange(ctx context.Context, worksheet, rangeSpec string, values [][]string) error {
	s.updateCalls++
	if rangeSpec == "A1:F1" && len(values) == 1 {
		s.sheets[worksheet][0] = append([]string{}, values[0]...)
	}
	return nil
}

func (s *fakeStore) BatchGet(ctx context.Context, worksheet string, ranges []string) ([][][]string, error) {
	rows := s.sheets[worksheet]
	out := make([][][]string, 0, len(ranges))
	for _, r := range ranges {
		var rowIdx int
		if _, err := fmt.Sscanf(r, "A%d", &rowIdx); err != nil {
			return nil, fmt.Errorf("unsupported range %s", r)
		}
		if rowIdx < 1 || rowIdx > len(rows) || len(rows[rowIdx-1]) == 0 {
			out = append(out, [][]string{})
			continue
		}
		out = append(out, [][]string{{rows[rowIdx-1][0]}})
	}
	return out, nil
}

func (s *fakeStore) BatchUpdate(ctx context.Context, worksheet string, updates []ports.RangeUpdate) error {
	s.batchUpdates++
	for _, u := range updates {
		var rowIdx, again int
		if _, err := fmt.Sscanf(u.Range, "E%d:F%d", &rowIdx, &again); err != nil {
			return fmt.Errorf("unsupported range %s", u.Range)
		}
		if rowIdx < 1 || rowIdx > len(s.sheets[worksheet]) || len(u.Values) != 1 || len(u.Values[0]) != 2 {
			return fmt.Errorf("bad update %v", u)
		}
		row := s.sheets[worksheet][rowIdx-1]
		for len(row) < 6 {
			row = append(row, "")
		}
		row[4] = u.Values[0][0]
		row[5] = u.Values[0][1]
		s.sheets[worksheet][rowIdx-1] = row
	}
	return nil
}

// fakeClassifier replays canned responses in call order.
type fakeClassifier struct {
	responses []string
	calls     int
	prompts   []string
}

func (c *fakeClassifier) Generate(ctx context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.calls >= len(c.responses) {
		return "", fmt.Errorf("no canned response left")
	}
	resp := c.responses[c.calls]
	c.calls++
	return resp, nil
}

// fakeFetcher hands back fixed markup per URL substring.
type fakeFetcher struct {
	markup string
	err    error
}

func (f *fakeFetcher) Fetch(ctx context.Context, req ports.FetchRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.markup, nil
}

// fakeExtractor emits a fixed record list regardless of markup.
type fakeExtractor struct {
	name    string
	records []domain.NewsRecord
}

func (e *fakeExtractor) Source() string { return e.name }

func (e *fakeExtractor) Extract(markup string, reference time.Time) ([]domain.NewsRecord, []domain.ExtractionError, error) {
	return e.records, nil, nil
}
