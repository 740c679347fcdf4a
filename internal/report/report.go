// Package report exports a TestResult as an .xlsx workbook with a summary
// sheet and a per-question analysis sheet.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/domain/questionbank"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/markup"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/scoring"
	"github.com/himanshubalani/gate-2025-mock-test-platform/internal/timer"
)

const (
	SummarySheet  = "Summary"
	AnalysisSheet = "Analysis"
)

var analysisHeaders = []string{
	"#", "Question ID", "Source", "Kind", "Question", "Your Answer", "Correct Answer",
	"Result", "Marks", "Awarded", "Time Spent (s)",
}

// Workbook builds the report. The caller owns the returned file and must
// close it.
func Workbook(sessionID string, result scoring.TestResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, sessionID, result); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(AnalysisSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create analysis sheet: %w", err)
	}
	if err := writeAnalysis(f, result); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Export renders the report to bytes.
func Export(sessionID string, result scoring.TestResult) ([]byte, error) {
	f, err := Workbook(sessionID, result)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile saves the report to path.
func WriteFile(path, sessionID string, result scoring.TestResult) error {
	f, err := Workbook(sessionID, result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeSummary(f *excelize.File, sessionID string, r scoring.TestResult) error {
	mode := "Timed"
	if r.Practice {
		mode = "Practice"
	}

	rows := [][2]any{
		{"Session", sessionID},
		{"Mode", mode},
		{"Score", r.Score},
		{"Max Score", r.MaxScore()},
		{"Total Marks", r.TotalMarks},
		{"Attempted Marks", r.TotalAttemptedMarks},
		{"Questions", r.TotalQuestions},
		{"Attempted", r.Attempted},
		{"Correct", r.Correct},
		{"Incorrect", r.Incorrect},
		{"Unattempted", r.Unattempted()},
		{"Accuracy (%)", scoring.Round2(r.Accuracy)},
		{"Time Taken", timer.FormatClock(r.ElapsedSeconds)},
	}
	for i, row := range rows {
		for col, v := range row {
			if err := f.SetCellValue(SummarySheet, cell(col+1, i+1), v); err != nil {
				return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
			}
		}
	}
	return nil
}

func writeAnalysis(f *excelize.File, r scoring.TestResult) error {
	for i, header := range analysisHeaders {
		f.SetCellValue(AnalysisSheet, cell(i+1, 1), header)
	}

	for i, line := range r.Analysis {
		q := line.Question
		values := []any{
			i + 1,
			q.ID,
			q.SourceGroup,
			string(q.Kind),
			markup.ToText(q.Body),
			describeAnswer(q, line.UserAnswer),
			describeAnswer(q, q.CorrectAnswer),
			outcome(line),
			q.Marks,
			scoring.Round2(line.MarksAwarded),
			line.TimeSpentSeconds,
		}
		for col, v := range values {
			if err := f.SetCellValue(AnalysisSheet, cell(col+1, i+2), v); err != nil {
				return fmt.Errorf("failed to write analysis row %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// describeAnswer shows a multiple choice label with its option text.
func describeAnswer(q questionbank.Question, answer string) string {
	if answer == "" {
		return ""
	}
	if q.IsMultipleChoice() {
		if opt, ok := q.OptionByLabel(answer); ok && len(answer) == 1 {
			return opt.Label + ") " + markup.ToText(opt.Content)
		}
		return markup.ToText(answer)
	}
	return answer
}

func outcome(line scoring.QuestionAnalysis) string {
	switch {
	case !line.Attempted:
		return "Unattempted"
	case line.Correct:
		return "Correct"
	default:
		return "Incorrect"
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
