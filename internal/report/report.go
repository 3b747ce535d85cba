// internal/report/report.go
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"testcase-ranker/internal/models"
)

const (
	barWidth   = 30
	titleWidth = 44
)

type styles struct {
	Header   lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Category map[models.RiskCategory]lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Category: map[models.RiskCategory]lipgloss.Style{
			models.RiskCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			models.RiskHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
			models.RiskMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			models.RiskLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		},
	}
}

// Render formats the prioritized test order and the risk distribution.
func Render(doc models.Document) string {
	var b strings.Builder
	s := defaultStyles()

	b.WriteString(s.Header.Render("◉ Prioritized Test Order"))
	b.WriteString("\n\n")

	if len(doc.TestCases) == 0 {
		b.WriteString(s.Muted.Render("  no test cases accepted"))
		b.WriteString("\n")
	} else {
		b.WriteString(s.Label.Render(fmt.Sprintf("  %-4s %-8s %6s  %-9s %-9s %-15s %s",
			"#", "ID", "SCORE", "RISK", "PRIORITY", "TYPE", "TITLE")))
		b.WriteString("\n")
		for _, tc := range doc.TestCases {
			cat := s.Category[tc.RiskCategory].Width(9).Render(string(tc.RiskCategory))
			b.WriteString(fmt.Sprintf("  %-4d %-8s %6.1f  %s %-9s %-15s %s\n",
				tc.ExecutionOrder, tc.TestID, tc.RiskScore, cat, tc.Priority, tc.TestType, truncate(tc.Title, titleWidth)))
		}
	}
	b.WriteString("\n")

	b.WriteString(s.Header.Render("◉ Risk Distribution"))
	b.WriteString("\n\n")
	total := doc.Metadata.RiskSummary.Total()
	for _, c := range models.RiskCategories {
		n := doc.Metadata.RiskSummary.Count(c)
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		filled := int(pct/100*barWidth + 0.5)
		bar := s.Category[c].Render(strings.Repeat("█", filled)) + s.Muted.Render(strings.Repeat("░", barWidth-filled))
		b.WriteString(fmt.Sprintf("  %-9s %s %3d (%5.1f%%)\n", c, bar, n, pct))
	}

	if doc.Metadata.TotalRejected > 0 {
		b.WriteString("\n")
		b.WriteString(s.Header.Render(fmt.Sprintf("◉ Rejected (%d)", doc.Metadata.TotalRejected)))
		b.WriteString("\n\n")
		for _, r := range doc.Rejections {
			label := r.Title
			if label == "" {
				label = "(untitled)"
			}
			b.WriteString(fmt.Sprintf("  #%-3d %s %s\n", r.Index, truncate(label, titleWidth), s.Muted.Render(r.Reason)))
		}
	}

	return b.String()
}

// Files formats the list of written exports.
func Files(paths []string, sizes []int64) string {
	var b strings.Builder
	s := defaultStyles()
	b.WriteString(s.Header.Render("◉ Exports"))
	b.WriteString("\n\n")
	for i, p := range paths {
		size := ""
		if i < len(sizes) {
			size = s.Muted.Render(fmt.Sprintf("(%.1f KB)", float64(sizes[i])/1024))
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", p, size))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
