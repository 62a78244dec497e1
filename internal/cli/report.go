package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shiftsense/shiftsense/internal/model"
)

// RenderTimeline renders the day's activity segments as an aligned table.
func RenderTimeline(segments []model.ActivitySegment) string {
	if len(segments) == 0 {
		return SubtleStyle.Render("no activity segments")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-13s %-13s %-18s %-24s %8s %6s",
		"START", "END", "ACTIVITY", "LOCATION", "MINUTES", "CONF")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, seg := range segments {
		name := seg.Activity.DisplayName()
		if seg.IsTakeout {
			name += " (takeout)"
		}
		location := seg.Location
		if location == "" {
			location = "-"
		}
		row := fmt.Sprintf("%-13s %-13s %-18s %-24s %8.1f %5d%%",
			seg.StartTime.Format("01-02 15:04"),
			seg.EndTime.Format("01-02 15:04"),
			name,
			truncate(location, 24),
			seg.DurationMinutes,
			seg.Confidence)
		b.WriteString(TableCellStyle.Render(row))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSummary renders the worker-day reconciliation box.
func RenderSummary(summary model.WorkTimeSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Employee:    %s\n", summary.EmployeeID)
	fmt.Fprintf(&b, "Date:        %s\n", summary.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Actual work: %.2f h\n", summary.ActualWorkHours)

	claimed := fmt.Sprintf("Claimed:     %.2f h", summary.ClaimedHours)
	if summary.Unverified {
		claimed += WarningStyle.Render("  (unverified, default applied)")
	}
	b.WriteString(claimed)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Efficiency:  %s\n", styleEfficiency(summary.EfficiencyRatio))
	fmt.Fprintf(&b, "Confidence:  %d%%\n", summary.ConfidenceScore)
	if summary.UnresolvedShare > 0 {
		fmt.Fprintf(&b, "Unresolved:  %s\n",
			WarningStyle.Render(fmt.Sprintf("%.0f%% of events", summary.UnresolvedShare*100)))
	}

	if len(summary.PerActivityMinutes) > 0 {
		b.WriteString("\n")
		b.WriteString(BoldStyle.Render("Minutes by category"))
		b.WriteString("\n")
		for _, category := range sortedCategories(summary.PerActivityMinutes) {
			fmt.Fprintf(&b, "  %-10s %7.1f\n", category, summary.PerActivityMinutes[category])
		}
	}

	return RenderBox(ChartIcon+" Work-Time Summary", strings.TrimRight(b.String(), "\n"))
}

func styleEfficiency(ratio float64) string {
	text := fmt.Sprintf("%.1f%%", ratio)
	switch {
	case ratio >= 90:
		return SuccessStyle.Render(text)
	case ratio >= 70:
		return WarningStyle.Render(text)
	default:
		return ErrorStyle.Render(text)
	}
}

func sortedCategories(minutes map[model.ActivityCategory]float64) []model.ActivityCategory {
	categories := make([]model.ActivityCategory, 0, len(minutes))
	for category := range minutes {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
