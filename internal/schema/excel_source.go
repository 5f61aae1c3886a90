// Package schema loads form question schemas from a tabular source. The
// production source is an xlsx workbook with one sheet per workstream
// (WS1..WS5) plus an optional Titles sheet.
package schema

import (
	"context"
	"strings"

	"project-tracker/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Expected schema columns. Missing columns default to the empty string.
var questionColumns = []string{
	"question_id", "section", "label", "input_type", "options", "help_text",
	"required", "condition_field", "condition_value",
	"min_value", "max_value", "step",
	"required_if_field", "required_if_value",
}

const titlesSheet = "Titles"

// ExcelSource reads question schemas from an xlsx workbook on disk. The
// workbook is opened per call; wrap with NewCachedSource to memoize for the
// process lifetime.
type ExcelSource struct {
	path string
}

// NewExcelSource creates a schema source backed by the workbook at path.
func NewExcelSource(path string) *ExcelSource {
	return &ExcelSource{path: path}
}

// Load returns the ordered question rows of the named sheet. The first row
// is the column header; every cell is trimmed; rows where every cell is
// blank are dropped. A missing workbook or sheet yields SCHEMA_NOT_FOUND.
func (s *ExcelSource) Load(ctx context.Context, schemaID string) ([]domain.QuestionSpec, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, domain.NewSchemaNotFoundError(schemaID, err)
	}
	defer f.Close()

	rows, err := f.GetRows(schemaID)
	if err != nil {
		return nil, domain.NewSchemaNotFoundError(schemaID, err)
	}
	if len(rows) == 0 {
		return []domain.QuestionSpec{}, nil
	}

	colIndex := headerIndex(rows[0])
	specs := make([]domain.QuestionSpec, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cell := func(col string) string {
			idx, ok := colIndex[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		q := domain.QuestionSpec{
			QuestionID:      cell("question_id"),
			Section:         cell("section"),
			Label:           cell("label"),
			HelpText:        cell("help_text"),
			InputType:       domain.InputType(strings.ToLower(cell("input_type"))),
			Options:         splitOptions(cell("options")),
			Required:        parseRequired(cell("required")),
			ConditionField:  cell("condition_field"),
			ConditionValue:  cell("condition_value"),
			RequiredIfField: cell("required_if_field"),
			RequiredIfValue: cell("required_if_value"),
			MinValue:        cell("min_value"),
			MaxValue:        cell("max_value"),
			Step:            cell("step"),
		}
		if isBlankRow(q) {
			continue
		}
		specs = append(specs, q)
	}
	return specs, nil
}

// LoadTitle returns the form header for a sheet: the matching row of the
// Titles sheet when present, otherwise the label/help_text of the sheet's
// first header-typed row. A header that cannot be resolved is not an error.
func (s *ExcelSource) LoadTitle(ctx context.Context, schemaID string) (domain.FormTitle, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return domain.FormTitle{}, domain.NewSchemaNotFoundError(schemaID, err)
	}
	defer f.Close()

	if title, ok := titleFromTitlesSheet(f, schemaID); ok {
		return title, nil
	}

	specs, err := s.Load(ctx, schemaID)
	if err != nil {
		return domain.FormTitle{}, err
	}
	for _, q := range specs {
		if q.InputType == "header" {
			return domain.FormTitle{Title: q.Label, Subtitle: q.HelpText}, nil
		}
	}
	return domain.FormTitle{}, nil
}

func titleFromTitlesSheet(f *excelize.File, schemaID string) (domain.FormTitle, bool) {
	rows, err := f.GetRows(titlesSheet)
	if err != nil || len(rows) == 0 {
		return domain.FormTitle{}, false
	}

	// Titles header columns are matched case-insensitively.
	colIndex := map[string]int{}
	for i, name := range rows[0] {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, row := range rows[1:] {
		cell := func(col string) string {
			idx, ok := colIndex[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if cell("sheet") != schemaID {
			continue
		}
		title := domain.FormTitle{Title: cell("title"), Subtitle: cell("subtitle")}
		if title.Title == "" && title.Subtitle == "" {
			return domain.FormTitle{}, false
		}
		return title, true
	}
	return domain.FormTitle{}, false
}

func headerIndex(header []string) map[string]int {
	idx := map[string]int{}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

// parseRequired implements the truthy-string convention: exactly the token
// "TRUE", case-insensitive after trimming, is true. Anything else, including
// empty, is false.
func parseRequired(cell string) bool {
	return strings.EqualFold(cell, "TRUE")
}

func splitOptions(cell string) []string {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, "|")
	options := make([]string, 0, len(parts))
	for _, p := range parts {
		options = append(options, strings.TrimSpace(p))
	}
	return options
}

func isBlankRow(q domain.QuestionSpec) bool {
	return q.QuestionID == "" && q.Section == "" && q.Label == "" &&
		q.InputType == "" && len(q.Options) == 0
}
