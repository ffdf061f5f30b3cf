package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/minslab/revmomo/internal/stats"
	"github.com/minslab/revmomo/pkg/logger"
)

const (
	summarySheet = "Summary"
	equitySheet  = "Equity"
)

// Writer exports a performance report as an Excel workbook with a
// metrics summary and an equity curve chart.
type Writer struct {
	baseDir string
	logger  *logger.Logger
}

// NewWriter creates an Excel report writer rooted at baseDir.
func NewWriter(baseDir string, log *logger.Logger) *Writer {
	return &Writer{baseDir: baseDir, logger: log}
}

// Write renders the report into <baseDir>/<day>/report.xlsx and
// returns the file path.
func (w *Writer) Write(day time.Time, report *stats.Report) (string, error) {
	dir := filepath.Join(w.baseDir, day.Format("2006-01-02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, report); err != nil {
		return "", err
	}
	if err := writeEquitySheet(f, report); err != nil {
		return "", err
	}

	// Drop the default sheet and land the reader on the summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(summarySheet)
	if err != nil {
		return "", err
	}
	f.SetActiveSheet(idx)

	path := filepath.Join(dir, "report.xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	w.logger.WithField("path", path).Info("Excel report written")
	return path, nil
}

func writeSummarySheet(f *excelize.File, report *stats.Report) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	metrics := []struct {
		name  string
		value interface{}
	}{
		{"Start Date", report.StartDate.Format("2006-01-02")},
		{"End Date", report.EndDate.Format("2006-01-02")},
		{"Trading Days", report.Days},
		{"Total Return", report.TotalReturn},
		{"Annualized Return", report.AnnualizedReturn},
		{"Mean Daily Return", report.MeanDailyReturn},
		{"Volatility", report.Volatility},
		{"Sharpe Ratio", report.SharpeRatio},
		{"Sortino Ratio", report.SortinoRatio},
		{"Max Drawdown", report.MaxDrawdown},
		{"Avg Turnover", report.AvgTurnover},
		{"Win Rate", report.WinRate},
		{"Instruments", report.Instruments},
	}

	f.SetCellValue(summarySheet, "A1", "Metric")
	f.SetCellValue(summarySheet, "B1", "Value")
	for i, m := range metrics {
		row := i + 2
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), m.name)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), m.value)
	}

	return f.SetColWidth(summarySheet, "A", "B", 20)
}

func writeEquitySheet(f *excelize.File, report *stats.Report) error {
	if _, err := f.NewSheet(equitySheet); err != nil {
		return fmt.Errorf("create equity sheet: %w", err)
	}

	f.SetCellValue(equitySheet, "A1", "Date")
	f.SetCellValue(equitySheet, "B1", "Equity")
	f.SetCellValue(equitySheet, "C1", "Return")

	for i, p := range report.EquityCurve {
		row := i + 2
		f.SetCellValue(equitySheet, fmt.Sprintf("A%d", row), p.Date.Format("2006-01-02"))
		f.SetCellValue(equitySheet, fmt.Sprintf("B%d", row), p.Equity)
		f.SetCellValue(equitySheet, fmt.Sprintf("C%d", row), p.Return)
	}

	if len(report.EquityCurve) == 0 {
		return nil
	}

	lastRow := len(report.EquityCurve) + 1
	chart := &excelize.Chart{
		Type:  excelize.Line,
		Title: []excelize.RichTextRun{{Text: "Equity Curve"}},
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", equitySheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", equitySheet, lastRow),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", equitySheet, lastRow),
		}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	}
	if err := f.AddChart(equitySheet, "E2", chart); err != nil {
		return fmt.Errorf("add equity chart: %w", err)
	}
	return nil
}
