package usecase

import (
	"context"
	"errors"
	"fmt"

	"NewsRadar/internal/domain"
	"NewsRadar/internal/ports"
)

// Dedup filters candidates whose URL already exists, preserving input order.
// Inputs are not mutated; membership checks are constant time against the
// URL set.
func Dedup(candidates []domain.NewsRecord, existing map[string]struct{}) []domain.NewsRecord {
	out := make([]domain.NewsRecord, 0, len(candidates))
	for _, c := range candidates {
		if _, seen := existing[c.URL]; seen {
			continue
		}
		out = append(out, c)
	}
	return out
}

// existingURLSet collects column-2 values of the data rows (everything below
// the header).
func existingURLSet(rows [][]string) map[string]struct{} {
	urls := make(map[string]struct{})
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		urls[row[1]] = struct{}{}
	}
	return urls
}

// appendNew ensures the worksheet and its header, filters candidates against
// the persisted URL set, appends the remainder as one four-column batch
// write, and returns the 1-based indices of the rows it created. The indices
// are contiguous and follow the pre-append row count; this is only sound
// while this process is the worksheet's sole writer.
func (p *Pipeline) appendNew(ctx context.Context, worksheet string, candidates []domain.NewsRecord) ([]int, error) {
	rows, err := p.ensureWorksheet(ctx, worksheet)
	if err != nil {
		return nil, err
	}

	newRecords := Dedup(candidates, existingURLSet(rows))
	if len(newRecords) > 0 && p.reverifyBeforeAppend {
		// Optional narrowing of the read-then-append window: take a fresh
		// snapshot right before writing.
		rows, err = p.store.ReadAll(ctx, worksheet)
		if err != nil {
			return nil, fmt.Errorf("re-read worksheet %s: %w", worksheet, err)
		}
		newRecords = Dedup(newRecords, existingURLSet(rows))
	}

	if len(newRecords) == 0 {
		return nil, nil
	}

	payload := make([][]string, 0, len(newRecords))
	for _, rec := range newRecords {
		payload = append(payload, rec.Row())
	}

	prevRows := len(rows)
	if err := p.store.AppendRows(ctx, worksheet, payload); err != nil {
		return nil, fmt.Errorf("append to worksheet %s: %w", worksheet, err)
	}

	indices := make([]int, 0, len(newRecords))
	for i := range newRecords {
		indices = append(indices, prevRows+1+i)
	}
	return indices, nil
}

// ensureWorksheet opens the worksheet, creating it with the header when
// absent, and returns its current rows. A present but short or mislabeled
// header has only its sentiment/category columns repaired; data columns are
// never touched.
func (p *Pipeline) ensureWorksheet(ctx context.Context, worksheet string) ([][]string, error) {
	header := domain.SheetHeader()

	rows, err := p.store.ReadAll(ctx, worksheet)
	if errors.Is(err, ports.ErrWorksheetNotFound) {
		if createErr := p.store.CreateWorksheet(ctx, worksheet, header); createErr != nil {
			return nil, fmt.Errorf("create worksheet %s: %w", worksheet, createErr)
		}
		return [][]string{header}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read worksheet %s: %w", worksheet, err)
	}

	if len(rows) == 0 {
		if appendErr := p.store.AppendRows(ctx, worksheet, [][]string{header}); appendErr != nil {
			return nil, fmt.Errorf("write header to %s: %w", worksheet, appendErr)
		}
		return [][]string{header}, nil
	}

	current := append([]string{}, rows[0]...)
	changed := false
	for len(current) < len(header) {
		current = append(current, "")
		changed = true
	}
	current = current[:len(header)]
	if current[4] != header[4] {
		current[4] = header[4]
		changed = true
	}
	if current[5] != header[5] {
		current[5] = header[5]
		changed = true
	}

	if changed {
		if updErr := p.store.UpdateRange(ctx, worksheet, "A1:F1", [][]string{current}); updErr != nil {
			return nil, fmt.Errorf("repair header of %s: %w", worksheet, updErr)
		}
		rows[0] = current
	}

	return rows, nil
}
