package schema

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"project-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeWorkbook builds a test workbook and returns its path.
func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "tracking_questions.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

var questionHeader = []interface{}{
	"question_id", "section", "label", "input_type", "options", "help_text",
	"required", "condition_field", "condition_value",
	"min_value", "max_value", "step", "required_if_field", "required_if_value",
}

func TestExcelSourceLoad(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"WS1": {
			questionHeader,
			{"q1", "General", "Project phase?", "selectbox", "Planning|Running|Done", "pick one", "TRUE", "", "", "", "", "", "", ""},
			{"q2", "General", "Why done?", "text_area", "", "", "", "q1", "Done", "", "", "", "q1", "Done"},
			{"q3", "Numbers", "Staff count", "number", "", "", "false", "", "", "0", "100", "5", "", ""},
		},
	})

	specs, err := NewExcelSource(path).Load(context.Background(), "WS1")
	require.NoError(t, err)
	require.Len(t, specs, 3)

	q1 := specs[0]
	assert.Equal(t, "q1", q1.QuestionID)
	assert.Equal(t, "General", q1.Section)
	assert.Equal(t, domain.InputSelectbox, q1.InputType)
	assert.Equal(t, []string{"Planning", "Running", "Done"}, q1.Options)
	assert.Equal(t, "pick one", q1.HelpText)
	assert.True(t, q1.Required)

	q2 := specs[1]
	assert.False(t, q2.Required, "only the TRUE token is truthy")
	assert.Equal(t, "q1", q2.ConditionField)
	assert.Equal(t, "Done", q2.ConditionValue)
	assert.Equal(t, "q1", q2.RequiredIfField)
	assert.Equal(t, "Done", q2.RequiredIfValue)

	q3 := specs[2]
	min, ok := q3.MinInt()
	assert.True(t, ok)
	assert.Equal(t, 0, min)
	max, ok := q3.MaxInt()
	assert.True(t, ok)
	assert.Equal(t, 100, max)
	assert.Equal(t, 5, q3.StepInt())
}

func TestExcelSourceLoadDefaultsMissingColumns(t *testing.T) {
	// A sheet carrying only a subset of the expected columns.
	path := writeWorkbook(t, map[string][][]interface{}{
		"WS2": {
			{"question_id", "label", "input_type"},
			{"q1", "Name?", "text_input"},
		},
	})

	specs, err := NewExcelSource(path).Load(context.Background(), "WS2")
	require.NoError(t, err)
	require.Len(t, specs, 1)

	q := specs[0]
	assert.Equal(t, "", q.Section)
	assert.Equal(t, "", q.ConditionField)
	assert.False(t, q.Required)
	_, ok := q.MinInt()
	assert.False(t, ok, "absent bounds are omitted, not zero")
}

func TestExcelSourceLoadRequiredTokenParsing(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"WS1": {
			{"question_id", "label", "required"},
			{"a", "A", "TRUE"},
			{"b", "B", "true"},
			{"c", "C", " True "},
			{"d", "D", "yes"},
			{"e", "E", "1"},
			{"f", "F", ""},
		},
	})

	specs, err := NewExcelSource(path).Load(context.Background(), "WS1")
	require.NoError(t, err)
	require.Len(t, specs, 6)

	got := map[string]bool{}
	for _, q := range specs {
		got[q.QuestionID] = q.Required
	}
	assert.Equal(t, map[string]bool{
		"a": true, "b": true, "c": true,
		"d": false, "e": false, "f": false,
	}, got)
}

func TestExcelSourceLoadMissingSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"WS1": {questionHeader},
	})

	_, err := NewExcelSource(path).Load(context.Background(), "WS9")
	require.Error(t, err)

	var derr *domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.CodeSchemaNotFound, derr.Code)
}

func TestExcelSourceLoadMissingWorkbook(t *testing.T) {
	_, err := NewExcelSource(filepath.Join(t.TempDir(), "nope.xlsx")).Load(context.Background(), "WS1")
	require.Error(t, err)

	var derr *domain.DomainError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.CodeSchemaNotFound, derr.Code)
}

func TestExcelSourceLoadTitle(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		"WS1": {questionHeader},
		"WS3": {
			questionHeader,
			{"hdr", "", "Workstream Three", "header", "", "quarterly tracking", "", "", "", "", "", "", "", ""},
		},
		"Titles": {
			{"sheet", "title", "subtitle"},
			{"WS1", "Workstream One", "monthly tracking"},
		},
	})
	src := NewExcelSource(path)

	title, err := src.LoadTitle(context.Background(), "WS1")
	require.NoError(t, err)
	assert.Equal(t, domain.FormTitle{Title: "Workstream One", Subtitle: "monthly tracking"}, title)

	// No Titles row: falls back to the header-typed question row.
	title, err = src.LoadTitle(context.Background(), "WS3")
	require.NoError(t, err)
	assert.Equal(t, domain.FormTitle{Title: "Workstream Three", Subtitle: "quarterly tracking"}, title)
}

func TestCachedSourceMemoizes(t *testing.T) {
	inner := &countingSource{specs: []domain.QuestionSpec{{QuestionID: "q1"}}}
	src := NewCachedSource(inner)

	first, err := src.Load(context.Background(), "WS1")
	require.NoError(t, err)
	second, err := src.Load(context.Background(), "WS1")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.loads, "second load served from cache")
	assert.Equal(t, first, second)

	_, err = src.Load(context.Background(), "WS2")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.loads, "distinct ids cached independently")
}

func TestCachedSourceDoesNotCacheFailures(t *testing.T) {
	inner := &countingSource{err: domain.NewSchemaNotFoundError("WS1", nil)}
	src := NewCachedSource(inner)

	_, err := src.Load(context.Background(), "WS1")
	require.Error(t, err)

	inner.err = nil
	inner.specs = []domain.QuestionSpec{{QuestionID: "q1"}}
	specs, err := src.Load(context.Background(), "WS1")
	require.NoError(t, err)
	assert.Len(t, specs, 1)
}

type countingSource struct {
	specs []domain.QuestionSpec
	title domain.FormTitle
	err   error
	loads int
}

func (c *countingSource) Load(ctx context.Context, schemaID string) ([]domain.QuestionSpec, error) {
	c.loads++
	if c.err != nil {
		return nil, c.err
	}
	return c.specs, nil
}

func (c *countingSource) LoadTitle(ctx context.Context, schemaID string) (domain.FormTitle, error) {
	return c.title, c.err
}
