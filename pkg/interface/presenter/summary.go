package presenter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/WangYihang/web-crawler/pkg/domain/entity"
	"github.com/charmbracelet/lipgloss"
)

var (
	summaryTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(1, 2)
	summaryKeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	summaryValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	summarySuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	summaryFailureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// PrintSummary prints the final crawl statistics
func PrintSummary(w io.Writer, report *entity.CrawlReport, metrics *entity.Metrics) {
	divider := strings.Repeat("─", 70)

	fmt.Fprintln(w, summaryTitleStyle.Render("📊 Crawl Summary"))
	fmt.Fprintln(w, divider)

	rows := [][2]string{
		{"Root Domains", fmt.Sprintf("%d", report.RootDomains.Cardinality())},
		{"Visited", fmt.Sprintf("%d / %d", report.Seen.Cardinality(), report.Limit)},
		{"Pending", fmt.Sprintf("%d", report.Result.Cardinality())},
		{"Fetches", fmt.Sprintf("%d", metrics.Fetches)},
		{"Successful", fmt.Sprintf("%d", metrics.Successes)},
		{"Failed", fmt.Sprintf("%d", metrics.Failures)},
		{"Retries", fmt.Sprintf("%d", metrics.Retries)},
		{"Links Discovered", fmt.Sprintf("%d", metrics.LinksDiscovered)},
		{"Duration", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond).String()},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %s %s\n",
			summaryKeyStyle.Render(fmt.Sprintf("%-18s", row[0]+":")),
			summaryValueStyle.Render(row[1]),
		)
	}

	fmt.Fprintln(w, divider)
	if report.Errors.Cardinality() == 0 {
		fmt.Fprintln(w, summarySuccessStyle.Render("✓ Crawl completed"))
		return
	}
	for _, message := range entity.SortedSlice(report.Errors) {
		fmt.Fprintln(w, summaryFailureStyle.Render("✗ "+message))
	}
}
