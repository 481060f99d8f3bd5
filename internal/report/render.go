package report

import (
	"fmt"
	"strings"
	"time"
)

// hebrewMonths maps time.Month to the Hebrew month name used in the report
// header. The report text is locale-fixed, not parameterized.
var hebrewMonths = [13]string{
	"", "ינואר", "פברואר", "מרץ", "אפריל", "מאי", "יוני",
	"יולי", "אוגוסט", "ספטמבר", "אוקטובר", "נובמבר", "דצמבר",
}

// instructionalBlock is the fixed explanatory text at the top of every
// report. It is static and never derived from data.
const instructionalBlock = `הטבלה מציגה עבור כל יום אימון את הסט הטוב ביותר בכל תרגיל (משקל × חזרות, ללא סטי חימום).
את עמודת "משקל גוף" ניתן למלא ידנית. כל המשקלים בקילוגרמים.`

// Render produces the monthly report document: a right-to-left Markdown file
// with a localized month header, the fixed instructional block, the global
// summary, and the day×exercise table. Output is byte-for-byte deterministic
// for the same aggregate.
func Render(agg MonthlyAggregate) []byte {
	var b strings.Builder

	b.WriteString("<div dir=\"rtl\">\n\n")
	fmt.Fprintf(&b, "# דוח אימונים — %s %d\n\n", hebrewMonths[agg.Month.Month()], agg.Month.Year())
	b.WriteString(instructionalBlock)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "**סיכום החודש:** סטים: %d | נפח כולל: %.1f ק\"ג | תרגילים: %d\n\n",
		agg.TotalSets, agg.TotalVolumeKg, agg.DistinctExercises())

	// Header row: date and a manually fillable column, then one column per
	// exercise in sorted order.
	b.WriteString("| תאריך | משקל גוף |")
	for _, ex := range agg.Exercises {
		fmt.Fprintf(&b, " %s |", ex)
	}
	b.WriteString("\n|---|---|")
	for range agg.Exercises {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for _, day := range agg.Days {
		fmt.Fprintf(&b, "| %s |  |", day.Format("02/01"))
		for _, ex := range agg.Exercises {
			cell := agg.Cells[CellKey{Day: day.Format("2006-01-02"), Exercise: ex}]
			if cell == "" {
				b.WriteString("  |")
			} else {
				fmt.Fprintf(&b, " %s |", cell)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n</div>\n")
	return []byte(b.String())
}

// Filename returns the deterministic per-month artifact name,
// gymtracker-YYYY-MM.md.
func Filename(month time.Time) string {
	return fmt.Sprintf("gymtracker-%04d-%02d.md", month.Year(), int(month.Month()))
}
