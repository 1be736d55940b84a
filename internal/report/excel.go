package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tasnimchaouch0/APIBEAST/internal/executor"
	"github.com/tasnimchaouch0/APIBEAST/internal/model"
)

const (
	sheetName          = "Results"
	defaultColumnWidth = 18

	patternType  = "pattern"
	patternValue = 1

	failedBgColor = "FFC7CE"
	errorBgColor  = "FFD966"
	slowBgColor   = "FFEB9C"
)

var excelHeaders = []string{
	"Test ID", "Name", "Method", "Endpoint", "Expected Status",
	"Response Status", "Status", "Duration (ms)", "Errors", "CURL",
}

type excelStyles struct {
	header, failed, errored, slow int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var s excelStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	fill := func(c string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: patternType, Pattern: patternValue, Color: []string{c}},
		})
	}
	if s.failed, err = fill(failedBgColor); err != nil {
		return s, err
	}
	if s.errored, err = fill(errorBgColor); err != nil {
		return s, err
	}
	if s.slow, err = fill(slowBgColor); err != nil {
		return s, err
	}
	return s, nil
}

// WriteExcel saves a workbook at path with one row per result and a summary
// block below. Failed rows are red, errored rows amber, and slow passing rows
// yellow.
func WriteExcel(path string, cases []model.TestCase, results []model.TestResult, sum Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	styles, err := newExcelStyles(f)
	if err != nil {
		return fmt.Errorf("creating styles: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(excelHeaders))
	if err := f.SetColWidth(sheetName, "A", lastCol, defaultColumnWidth); err != nil {
		return err
	}

	for i, header := range excelHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("writing %s: %w", cell, err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", styles.header); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, r := range results {
		row := i + 2
		if err := writeResultRow(f, row, cases, i, r); err != nil {
			return err
		}

		style := 0
		switch {
		case r.Status == model.StatusFailed:
			style = styles.failed
		case r.Status == model.StatusError:
			style = styles.errored
		case isSlow(r):
			style = styles.slow
		}
		if style != 0 {
			if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), style); err != nil {
				return fmt.Errorf("styling row %d: %w", row, err)
			}
		}
	}

	if err := writeSummary(f, len(results)+3, sum, styles.header); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report %s: %w", path, err)
	}
	return nil
}

func writeResultRow(f *excelize.File, row int, cases []model.TestCase, i int, r model.TestResult) error {
	tc, _ := caseAt(cases, i)

	var responseStatus any
	if r.ResponseStatus != nil {
		responseStatus = *r.ResponseStatus
	}
	var curl string
	if tc.Endpoint != "" {
		curl = executor.Curl(tc)
	}

	cells := []any{
		r.TestID,
		r.TestName,
		executor.NormalizeMethod(tc.Method),
		tc.Endpoint,
		tc.ExpectedStatus,
		responseStatus,
		string(r.Status),
		r.DurationMs,
		strings.Join(r.Errors, "\n"),
		curl,
	}
	for col, v := range cells {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("writing %s: %w", cell, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, startRow int, sum Summary, headerStyle int) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Total: %d", sum.Total),
		fmt.Sprintf("Passed: %d", sum.Passed),
		fmt.Sprintf("Failed: %d", sum.Failed),
		fmt.Sprintf("Errors: %d", sum.Errored),
		fmt.Sprintf("Elapsed: %.3fms", float64(sum.Elapsed.Microseconds())/1000),
	}
	for i, line := range lines {
		cell := fmt.Sprintf("A%d", startRow+i)
		if err := f.SetCellValue(sheetName, cell, line); err != nil {
			return fmt.Errorf("writing %s: %w", cell, err)
		}
	}
	first := fmt.Sprintf("A%d", startRow)
	if err := f.SetCellStyle(sheetName, first, first, headerStyle); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}
	return nil
}
