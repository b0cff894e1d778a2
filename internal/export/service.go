package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// ErrNotCompleted is returned when exporting a job without a report.
var ErrNotCompleted = errors.New("job is not completed")

const (
	reportSheet = "Report"
	inputSheet  = "Input"
)

// JobSource loads a full job record; *jobs.Manager satisfies it.
type JobSource interface {
	Job(ctx context.Context, id string) (*entity.Job, error)
}

// Service produces XLSX bytes for completed research jobs.
type Service struct {
	jobs   JobSource
	logger *slog.Logger
}

func NewService(jobs JobSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobs: jobs, logger: logger}
}

// ExportJobXLSX loads the job and renders its report.
func (s *Service) ExportJobXLSX(ctx context.Context, jobID string) ([]byte, error) {
	start := time.Now()
	job, err := s.jobs.Job(ctx, jobID)
	if err != nil {
		return nil, err
	}
	b, err := RenderReportXLSX(job)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		"job_id", jobID,
		"bytes", len(b),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// RenderReportXLSX returns a workbook with a "Report" sheet of field/value
// rows (one row per step) and an "Input" sheet. Only completed jobs render.
func RenderReportXLSX(job *entity.Job) ([]byte, error) {
	if job == nil || job.Status != constants.JobStatusCompleted || job.Result == nil {
		return nil, ErrNotCompleted
	}
	r := job.Result

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(inputSheet); err != nil {
		return nil, err
	}

	rows := [][2]string{
		{"Field", "Value"},
		{"Problem", r.Problem},
		{"Target users", r.TargetUsers},
		{"Why it matters", r.WhyItMatters},
		{"Existing bad solutions", r.ExistingBadSolutions},
		{"MVP idea", r.MVPIdea},
		{"Why it can work in " + job.Input.Location, r.WhyItCanWorkInLocation},
		{"Estimated budget range", r.EstimatedBudgetRange},
		{"Revenue model", r.RevenueModel},
	}
	for i, step := range r.FirstSteps {
		rows = append(rows, [2]string{"Step " + strconv.Itoa(i+1), step})
	}
	if err := writeRows(f, reportSheet, rows); err != nil {
		return nil, err
	}

	completed := ""
	if job.CompletedAt != nil {
		completed = job.CompletedAt.UTC().Format(time.RFC3339)
	}
	if err := writeRows(f, inputSheet, [][2]string{
		{"Field", "Value"},
		{"Job ID", job.ID},
		{"Keyword", job.Input.Keyword},
		{"Location", job.Input.Location},
		{"Budget", job.Input.Budget},
		{"Completed at", completed},
	}); err != nil {
		return nil, err
	}

	// Widen the columns
	_ = f.SetColWidth(reportSheet, "A", "A", 30)
	_ = f.SetColWidth(reportSheet, "B", "B", 100)
	_ = f.SetColWidth(inputSheet, "A", "A", 16)
	_ = f.SetColWidth(inputSheet, "B", "B", 48)

	idx, _ := f.GetSheetIndex(reportSheet)
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][2]string) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
