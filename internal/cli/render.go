package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/calebhart/enrichflow/internal/mapping"
	"github.com/calebhart/enrichflow/internal/model"
)

// RenderMappings lays out the column mapping table shown before a run.
func RenderMappings(mappings []model.ColumnMapping) string {
	var b strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		TableHeaderStyle.Width(24).Render("CSV Column"),
		TableHeaderStyle.Width(24).Render("Target Field"),
		TableHeaderStyle.Width(10).Render("Enabled"),
		TableHeaderStyle.Width(30).Render("Samples"),
	)
	b.WriteString(header)
	b.WriteByte('\n')

	for _, m := range mappings {
		target := SubtleStyle.Render("(unmapped)")
		if m.TargetField != "" {
			target = mapping.DisplayName(m.TargetField)
		}
		enabled := SubtleStyle.Render("no")
		if m.Enabled {
			enabled = SuccessStyle.Render("yes")
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			TableCellStyle.Width(24).Render(truncateCell(m.CSVColumn, 22)),
			TableCellStyle.Width(24).Render(target),
			TableCellStyle.Width(10).Render(enabled),
			TableCellStyle.Width(30).Render(truncateCell(strings.Join(m.SampleValues, ", "), 28)),
		)
		b.WriteString(row)
		b.WriteByte('\n')
	}

	return b.String()
}

// RenderPartition summarizes a validation pass.
func RenderPartition(p *model.ValidationPartition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %d of %d rows ready to submit\n",
		SuccessStyle.Render(SuccessIcon), len(p.ValidRows), p.Total)
	if len(p.DuplicateRows) > 0 {
		fmt.Fprintf(&b, "%s %d duplicate rows skipped\n",
			WarningStyle.Render(WarningIcon), len(p.DuplicateRows))
	}
	if len(p.InvalidRows) > 0 {
		fmt.Fprintf(&b, "%s %d rows without any mapped value\n",
			ErrorStyle.Render(ErrorIcon), len(p.InvalidRows))
	}

	return b.String()
}

// RenderJob formats one job line for listings.
func RenderJob(job model.EnrichmentJob) string {
	status := string(job.Status)
	switch job.Status {
	case model.JobCompleted:
		status = SuccessStyle.Render(status)
	case model.JobFailed:
		status = ErrorStyle.Render(status)
	default:
		status = WarningStyle.Render(status)
	}

	created := ""
	if !job.CreatedAt.IsZero() {
		created = job.CreatedAt.Local().Format(time.DateTime)
	}

	return fmt.Sprintf("%-14s %-36s %-12s %6d  %s",
		job.ID, truncateCell(job.Name, 34), status, job.TotalRecords, created)
}

// RenderEstimate summarizes a credit estimate.
func RenderEstimate(est model.CreditEstimate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d records × %d credits = %s credits\n",
		est.Records, est.PerRecord, BoldStyle.Render(fmt.Sprintf("%d", est.Total)))
	names := make([]string, 0, len(est.FieldBreakdown))
	for name := range est.FieldBreakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "  %s: %d\n", name, est.FieldBreakdown[name])
	}
	if est.CanAfford {
		fmt.Fprintf(&b, "%s %d credits remain after this run\n",
			SuccessStyle.Render(SuccessIcon), est.RemainingAfter)
	} else {
		fmt.Fprintf(&b, "%s short %d credits\n",
			ErrorStyle.Render(ErrorIcon), est.Shortfall)
	}

	return b.String()
}

func truncateCell(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
