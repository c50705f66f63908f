package outwriter

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// reportDisclaimer closes every rendered report.
const reportDisclaimer = "Disclaimer: This report is generated from patient-supplied CGM and food log data. " +
	"Data accuracy depends on proper device calibration and complete food logging. " +
	"This report is intended to supplement, not replace, clinical judgment."

// reportPatternNotes are the fixed observations appended to every report.
var reportPatternNotes = []string{
	"Consider evaluating for reactive hypoglycemia if crash events are frequent",
	"High-carb, low-protein meals appear to correlate with faster glucose drops",
	"Suggest mixed meals with adequate protein and fiber to slow glucose absorption",
	"Patient may benefit from smaller, more frequent meals",
}

// PrintReportResults renders the clinician report. The text output honors
// --report-format (text or markdown); --output json emits the raw report.
func PrintReportResults(report schema.DoctorReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
		if err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut, schema.ParquetOut:
		return fmt.Errorf("%s output is not supported for reports; use text, markdown via --report-format, or json", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if cfg.ReportFormat == schema.MarkdownReport {
				return writeReportMarkdown(w, report, fmtFloat)
			}
			return writeReportText(w, report, cfg, fmtFloat, duration)
		}, "Wrote report")
	}
	return nil
}

// writeReportText renders the plain-text clinician report.
func writeReportText(w io.Writer, report schema.DoctorReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, "CGM Food Response Assessment Report"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Generated: %s\n\n", report.GeneratedAt.Format(tableTimeFormat)); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Report Period:"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  %s → %s\n\n", report.PeriodStart.Format(schema.DayLayout), report.PeriodEnd.Format(schema.DayLayout)); err != nil {
		return err
	}

	if err := writeReportSummaryText(w, report, fmtFloat); err != nil {
		return err
	}
	if err := writeReportTriggersText(w, report.TopTriggers); err != nil {
		return err
	}
	if err := writeReportCrashTable(w, report.TopCrashes, fmtFloat); err != nil {
		return err
	}
	if err := writeReportMealsText(w, report.MealDigest); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Pattern Analysis:"); err != nil {
		return err
	}
	for _, note := range reportPatternNotes {
		if _, err := fmt.Fprintf(w, "  - %s\n", note); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\n%s\n\n", reportDisclaimer); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "Report generated in %v using %d workers.\n", duration, cfg.Workers)
	return err
}

// writeReportSummaryText prints the executive summary block.
func writeReportSummaryText(w io.Writer, report schema.DoctorReport, fmtFloat func(float64) string) error {
	c := report.Stats.Crashes
	o := report.Stats.Overview

	if _, err := fmt.Fprintln(w, "Executive Summary:"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  In the reporting period, the patient experienced %d reactive hypoglycemia events.\n\n", c.TotalCrashes); err != nil {
		return err
	}

	labels := []string{
		"Total Crash Events:",
		"Average Drop:",
		"Average Duration:",
		"Maximum Drop:",
		"Worst Velocity:",
		"Readings:",
		"Average Glucose:",
		"Time in Range:",
		"GMI:",
	}
	values := []any{
		c.TotalCrashes,
		fmtFloat(c.AvgDropMagnitude) + " mg/dL",
		fmtFloat(c.AvgDurationMinutes) + " min",
		fmtFloat(c.MaxDropMagnitude) + " mg/dL",
		fmtFloat(math.Abs(c.WorstVelocity)) + " mg/dL/min",
		o.TotalReadings,
		fmtFloat(o.AverageGlucose) + " mg/dL",
		fmt.Sprintf("%s%% (%.0f-%.0f mg/dL)", fmtFloat(o.TimeInRangePct), schema.RangeLowMgDl, schema.RangeHighMgDl),
		fmtFloat(o.GMI) + "%",
	}
	return writeLabeledBlock(w, labels, values)
}

// writeReportTriggersText prints the numbered trigger list.
func writeReportTriggersText(w io.Writer, triggers []schema.FoodTrigger) error {
	if len(triggers) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Primary Food Triggers:"); err != nil {
		return err
	}
	for i, trig := range triggers {
		if _, err := fmt.Fprintf(w, "  %d. %s - %d crashes, avg velocity: %.2f mg/dL/min\n",
			i+1, trig.FoodName, trig.CrashCount, math.Abs(trig.AvgVelocity)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeReportCrashTable prints the crash detail table.
func writeReportCrashTable(w io.Writer, crashes []schema.CrashEvent, fmtFloat func(float64) string) error {
	if len(crashes) == 0 {
		if _, err := fmt.Fprintf(w, "Crash Event Details:\n  No crash events in the reporting period.\n\n"); err != nil {
			return err
		}
		return nil
	}
	if _, err := fmt.Fprintln(w, "Crash Event Details:"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Time", "Dur(min)", "Drop", "Velocity", "Glucose"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, c := range crashes {
		data = append(data, reportCrashRow(c, fmtFloat))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// reportCrashRow renders one crash table row; velocities show as positive
// magnitudes the way the clinician layout expects.
func reportCrashRow(c schema.CrashEvent, fmtFloat func(float64) string) []string {
	return []string{
		c.StartTime.Format(tableTimeFormat),
		strconv.Itoa(int(math.Round(c.DurationMinutes))),
		fmtFloat(c.DropMagnitude),
		fmt.Sprintf("%.2f", math.Abs(c.MaxVelocity)),
		fmt.Sprintf("%.0f → %.0f", c.StartGlucose, c.EndGlucose),
	}
}

// writeReportMealsText prints the meal response digest block.
func writeReportMealsText(w io.Writer, digest schema.MealDigest) error {
	if _, err := fmt.Fprintln(w, "Meal Responses:"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Meals analyzed: %d\n", digest.TotalMeals); err != nil {
		return err
	}
	for _, level := range schema.ReportRiskOrder {
		count := digest.LabelCounts[level]
		if count == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s: %d\n", level, count); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeReportMarkdown renders the same report as markdown for pasting into
// notes or messaging a care team.
func writeReportMarkdown(w io.Writer, report schema.DoctorReport, fmtFloat func(float64) string) error {
	c := report.Stats.Crashes
	o := report.Stats.Overview

	fmt.Fprintln(w, "# CGM Food Response Assessment Report")
	fmt.Fprintf(w, "*Generated: %s*\n\n", report.GeneratedAt.Format(tableTimeFormat))
	fmt.Fprintf(w, "**Report Period:** %s to %s\n\n", report.PeriodStart.Format(schema.DayLayout), report.PeriodEnd.Format(schema.DayLayout))

	fmt.Fprintln(w, "## Executive Summary")
	fmt.Fprintf(w, "In the reporting period, the patient experienced %d reactive hypoglycemia events.\n\n", c.TotalCrashes)
	fmt.Fprintf(w, "- Total Crash Events: %d\n", c.TotalCrashes)
	fmt.Fprintf(w, "- Average Drop Magnitude: %s mg/dL\n", fmtFloat(c.AvgDropMagnitude))
	fmt.Fprintf(w, "- Average Event Duration: %s minutes\n", fmtFloat(c.AvgDurationMinutes))
	fmt.Fprintf(w, "- Maximum Drop: %s mg/dL\n", fmtFloat(c.MaxDropMagnitude))
	fmt.Fprintf(w, "- Worst Velocity: %s mg/dL/min\n", fmtFloat(math.Abs(c.WorstVelocity)))
	fmt.Fprintf(w, "- Readings: %d, Average Glucose: %s mg/dL, Time in Range: %s%%, GMI: %s%%\n\n",
		o.TotalReadings, fmtFloat(o.AverageGlucose), fmtFloat(o.TimeInRangePct), fmtFloat(o.GMI))

	if len(report.TopTriggers) > 0 {
		fmt.Fprintln(w, "## Primary Food Triggers")
		for i, trig := range report.TopTriggers {
			fmt.Fprintf(w, "%d. %s - %d crashes, avg velocity: %.2f mg/dL/min\n", i+1, trig.FoodName, trig.CrashCount, math.Abs(trig.AvgVelocity))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "## Crash Event Details")
	if len(report.TopCrashes) == 0 {
		fmt.Fprintln(w, "No crash events in the reporting period.")
	} else {
		fmt.Fprintln(w, "| Time | Duration (min) | Drop (mg/dL) | Velocity (mg/dL/min) | Glucose |")
		fmt.Fprintln(w, "|---|---|---|---|---|")
		for _, cr := range report.TopCrashes {
			fmt.Fprintf(w, "| %s | %.0f | %s | %.2f | %.0f → %.0f |\n",
				cr.StartTime.Format(tableTimeFormat), cr.DurationMinutes, fmtFloat(cr.DropMagnitude), math.Abs(cr.MaxVelocity), cr.StartGlucose, cr.EndGlucose)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Meal Responses")
	fmt.Fprintf(w, "Meals analyzed: %d\n\n", report.MealDigest.TotalMeals)
	for _, level := range schema.ReportRiskOrder {
		count := report.MealDigest.LabelCounts[level]
		if count == 0 {
			continue
		}
		fmt.Fprintf(w, "- %s: %d\n", level, count)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Pattern Analysis")
	for _, note := range reportPatternNotes {
		fmt.Fprintf(w, "- %s\n", note)
	}
	fmt.Fprintln(w)

	_, err := fmt.Fprintf(w, "*%s*\n", reportDisclaimer)
	return err
}
