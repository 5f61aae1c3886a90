package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"project-tracker/internal/dto"
	"project-tracker/internal/repository"
	"project-tracker/internal/repository/models"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
)

// ExportService builds admin downloads of stored tracking data.
type ExportService interface {
	// Counts returns the submission count per workstream (WS1..WS5).
	Counts(ctx context.Context) (*dto.WorkstreamCountsResponse, error)

	// ExportWorkstream flattens one workstream's submissions into an xlsx
	// workbook with a single sheet.
	ExportWorkstream(ctx context.Context, workstream int) ([]byte, error)

	// ExportAll fetches every workstream concurrently and writes one sheet
	// per workstream into a single workbook. Empty workstreams are skipped.
	ExportAll(ctx context.Context) ([]byte, error)
}

type exportServiceImpl struct {
	submissions repository.SubmissionRepository
}

// NewExportService creates a new instance of ExportService.
func NewExportService(submissions repository.SubmissionRepository) ExportService {
	return &exportServiceImpl{submissions: submissions}
}

// Base columns prepended before the flattened answer columns.
var exportBaseColumns = []string{"id", "project_id", "submitted_at", "user_id", "form_title", "workstream"}

func (s *exportServiceImpl) Counts(ctx context.Context) (*dto.WorkstreamCountsResponse, error) {
	counts := make(map[string]int64, repository.MaxWorkstream)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for ws := 1; ws <= repository.MaxWorkstream; ws++ {
		ws := ws
		g.Go(func() error {
			n, err := s.submissions.CountByWorkstream(gctx, ws)
			if err != nil {
				return fmt.Errorf("failed to count WS%d: %w", ws, err)
			}
			mu.Lock()
			counts[SheetName(ws)] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.WorkstreamCountsResponse{Counts: counts}, nil
}

func (s *exportServiceImpl) ExportWorkstream(ctx context.Context, workstream int) ([]byte, error) {
	subs, err := s.submissions.ListByWorkstream(ctx, workstream)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := SheetName(workstream)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := writeSubmissionSheet(f, sheet, subs); err != nil {
		return nil, err
	}
	return workbookBytes(f)
}

func (s *exportServiceImpl) ExportAll(ctx context.Context) ([]byte, error) {
	perWS := make([][]models.Submission, repository.MaxWorkstream+1)

	g, gctx := errgroup.WithContext(ctx)
	for ws := 1; ws <= repository.MaxWorkstream; ws++ {
		ws := ws
		g.Go(func() error {
			subs, err := s.submissions.ListByWorkstream(gctx, ws)
			if err != nil {
				return fmt.Errorf("failed to export WS%d: %w", ws, err)
			}
			perWS[ws] = subs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	wroteFirst := false
	for ws := 1; ws <= repository.MaxWorkstream; ws++ {
		if len(perWS[ws]) == 0 {
			continue
		}
		sheet := SheetName(ws)
		if !wroteFirst {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, err
			}
			wroteFirst = true
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, err
			}
		}
		if err := writeSubmissionSheet(f, sheet, perWS[ws]); err != nil {
			return nil, err
		}
	}
	return workbookBytes(f)
}

// writeSubmissionSheet flattens submissions into rows: the base columns
// first, then the sorted union of answer keys across the rows.
func writeSubmissionSheet(f *excelize.File, sheet string, subs []models.Submission) error {
	answerCols := answerColumns(subs)
	header := append(append([]interface{}{}, toInterfaces(exportBaseColumns)...), toInterfaces(answerCols)...)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, sub := range subs {
		row := []interface{}{
			sub.ID,
			sub.ProjectID,
			sub.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
			sub.UserID.String,
			sub.FormTitle.String,
			sub.Workstream,
		}
		for _, col := range answerCols {
			row = append(row, exportCell(sub.Answers[col]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// answerColumns returns the union of answer keys across the rows. The
// schema's question order is lost once answers round-trip through JSON, so
// the keys are sorted for a deterministic column layout.
func answerColumns(subs []models.Submission) []string {
	var cols []string
	seen := map[string]struct{}{}
	for _, sub := range subs {
		for key := range sub.Answers {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				cols = append(cols, key)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

func exportCell(val interface{}) interface{} {
	if val == nil {
		return ""
	}
	return val
}

func toInterfaces(strs []string) []interface{} {
	out := make([]interface{}, len(strs))
	for i, s := range strs {
		out[i] = s
	}
	return out
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
