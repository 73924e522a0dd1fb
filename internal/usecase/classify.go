package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"NewsRadar/internal/domain"
	"NewsRadar/internal/ports"
)

// classificationPrompt is the fixed taxonomy instruction sent ahead of every
// batch payload. The model must answer with a bare JSON array of
// {row, sentiment, category} objects.
const classificationPrompt = `あなたは敏腕雑誌記者です。Webニュースの「タイトル」だけを見て、次を厳密に分類してください。

【1】ポジネガ判定（必ず次のいずれか一語のみ）：
- ポジティブ
- ネガティブ
- ニュートラル

【2】記事のカテゴリー判定（最も関連が高い1つだけを選ぶ。並記禁止）：
- 会社：企業の施策や生産、販売台数など。ニッサン、トヨタ、ホンダ、スバル、マツダ、スズキ、ミツビシ、ダイハツの記事の場合は () 付きで企業名を記載。それ以外は「その他」。
- 車：クルマの名称が含まれているもの（会社名だけの場合は「車」に分類しない）。新型/現行/旧型 + 名称 を () 付きで記載（例：新型リーフ、現行セレナ、旧型スカイライン）。日産以外の車の場合は「車（競合）」と記載。
- 技術（EV）：電気自動車の技術に関わるもの（ただしバッテリー工場建設や企業の施策は含まない）。
- 技術（e-POWER）：e-POWERに関わるもの。
- 技術（e-4ORCE）：4WD/2WD/AWDに関わるもの。
- 技術（AD/ADAS）：自動運転・先進運転支援に関わるもの。
- 技術：上記以外の技術。
- モータースポーツ：F1やラリー、フォーミュラEなど自動車レース。
- 株式：株式発行や株価の値動き、投資に関わるもの。
- 政治・経済：政治家や選挙、税金、経済に関わるもの。
- スポーツ：自動車以外のスポーツ。
- その他：上記に含まれないもの。

【出力要件】
- **JSON配列**のみを返してください（余計な文章や注釈を含めない）。
- 各要素は次の形式：
  {"row": 行番号, "sentiment": "ポジティブ|ネガティブ|ニュートラル", "category": "カテゴリ名"}
- 入力の「タイトル」文字列は変更しないこと（出力には含めなくて良い）。`

var jsonArrayExpr = regexp.MustCompile(`(?s)\[.*\]`)

type classifyItem struct {
	Row   int    `json:"row"`
	Title string `json:"title"`
}

type classifyVerdict struct {
	Row       json.Number `json:"row"`
	Sentiment string      `json:"sentiment"`
	Category  string      `json:"category"`
}

// classifyRows tags the given freshly appended rows with sentiment and
// category, writing both columns in one multi-range update at the end.
// Classifier and decode failures are contained per batch; only storage
// failures propagate. Returns the number of rows updated.
func (p *Pipeline) classifyRows(ctx context.Context, worksheet string, rowIndices []int) (int, error) {
	if len(rowIndices) == 0 {
		return 0, nil
	}
	if p.classifier == nil {
		p.logger.Info("classification skipped: no backend configured", "worksheet", worksheet)
		return 0, nil
	}

	// Header row never belongs here, even if a caller slips.
	targets := make([]int, 0, len(rowIndices))
	for _, r := range rowIndices {
		if r > 1 {
			targets = append(targets, r)
		}
	}
	if len(targets) == 0 {
		return 0, nil
	}

	items, err := p.titlesForRows(ctx, worksheet, targets)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		p.logger.Info("classification skipped: no titles to classify", "worksheet", worksheet)
		return 0, nil
	}

	var updates []domain.ClassificationResult
	for start := 0; start < len(items); start += p.batchSize {
		end := start + p.batchSize
		if end > len(items) {
			end = len(items)
		}

		results, batchErr := p.classifyBatch(ctx, items[start:end])
		if batchErr != nil {
			p.logger.Warn("classification batch failed", "worksheet", worksheet,
				"batch_start", items[start].Row, "error", batchErr)
			continue
		}
		updates = append(updates, results...)
	}

	if len(updates) == 0 {
		p.logger.Info("classification produced no updates", "worksheet", worksheet)
		return 0, nil
	}

	rangeUpdates := make([]ports.RangeUpdate, 0, len(updates))
	for _, u := range updates {
		rangeUpdates = append(rangeUpdates, ports.RangeUpdate{
			Range:  fmt.Sprintf("E%d:F%d", u.Row, u.Row),
			Values: [][]string{{u.Sentiment, u.Category}},
		})
	}

	if err := p.store.BatchUpdate(ctx, worksheet, rangeUpdates); err != nil {
		return 0, fmt.Errorf("write classifications to %s: %w", worksheet, err)
	}
	return len(updates), nil
}

// titlesForRows reads the column-1 cell of each target row in one call and
// drops rows whose title is empty.
func (p *Pipeline) titlesForRows(ctx context.Context, worksheet string, targets []int) ([]classifyItem, error) {
	ranges := make([]string, 0, len(targets))
	for _, r := range targets {
		ranges = append(ranges, fmt.Sprintf("A%d", r))
	}

	cells, err := p.store.BatchGet(ctx, worksheet, ranges)
	if err != nil {
		return nil, fmt.Errorf("read titles from %s: %w", worksheet, err)
	}

	items := make([]classifyItem, 0, len(targets))
	for i, r := range targets {
		if i >= len(cells) {
			break
		}
		title := ""
		if len(cells[i]) > 0 && len(cells[i][0]) > 0 {
			title = cells[i][0][0]
		}
		if title == "" {
			continue
		}
		items = append(items, classifyItem{Row: r, Title: title})
	}
	return items, nil
}

// classifyBatch sends one batch through the classifier and decodes its
// verdicts. Individual malformed entries are dropped, not fatal.
func (p *Pipeline) classifyBatch(ctx context.Context, batch []classifyItem) ([]domain.ClassificationResult, error) {
	payload, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	text, err := p.classifier.Generate(ctx, classificationPrompt+"\n\n"+string(payload))
	if err != nil {
		return nil, fmt.Errorf("classifier call: %w", err)
	}

	verdicts, err := decodeVerdicts(text)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ClassificationResult, 0, len(verdicts))
	for _, v := range verdicts {
		row, convErr := v.Row.Int64()
		if convErr != nil || row < 2 {
			continue
		}
		results = append(results, domain.ClassificationResult{
			Row:       int(row),
			Sentiment: domain.NormalizeSentiment(strings.TrimSpace(v.Sentiment)),
			Category:  strings.TrimSpace(v.Category),
		})
	}
	return results, nil
}

// decodeVerdicts is the lenient decode for the untrusted model response: a
// strict parse first, then the outermost bracketed substring, then failure.
func decodeVerdicts(text string) ([]classifyVerdict, error) {
	text = strings.TrimSpace(text)

	var verdicts []classifyVerdict
	if err := json.Unmarshal([]byte(text), &verdicts); err == nil {
		return verdicts, nil
	}

	if m := jsonArrayExpr.FindString(text); m != "" {
		if err := json.Unmarshal([]byte(m), &verdicts); err == nil {
			return verdicts, nil
		}
	}

	return nil, fmt.Errorf("no JSON array in classifier response")
}
