package presenter

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/WangYihang/web-crawler/pkg/domain/entity"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxRecentFetches = 50

// Dashboard is a TUI dashboard for crawling progress
type Dashboard struct {
	metrics   *entity.Metrics
	recent    []*entity.FetchLog
	progress  progress.Model
	width     int
	height    int
	startTime time.Time
	mu        sync.RWMutex
}

type tickMsg time.Time

// NewDashboard creates a new TUI dashboard
func NewDashboard() *Dashboard {
	return &Dashboard{
		metrics:   &entity.Metrics{Phase: entity.PhaseIdle},
		progress:  progress.New(progress.WithDefaultGradient()),
		startTime: time.Now(),
	}
}

// Init initializes the dashboard
func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

// Update handles dashboard updates
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "ctrl+c":
			return d, tea.Quit
		}

	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case tickMsg:
		return d, tickCmd()
	}

	return d, nil
}

// View renders the dashboard
func (d *Dashboard) View() string {
	if d.width == 0 {
		return "Initializing..."
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	header := d.renderHeader()
	footer := d.renderFooter()

	availableHeight := d.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if availableHeight < 0 {
		availableHeight = 0
	}
	halfHeight := availableHeight / 2
	leftWidth := d.width / 2
	rightWidth := d.width - leftWidth

	row1 := lipgloss.JoinHorizontal(
		lipgloss.Top,
		d.renderCrawlStats(leftWidth, halfHeight),
		d.renderFetchStats(rightWidth, halfHeight),
	)
	row2 := d.renderRecentFetches(d.width, availableHeight-halfHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, row1, row2, footer)
}

// OnMetricsUpdate implements application.MetricsObserver
func (d *Dashboard) OnMetricsUpdate(metrics *entity.Metrics) {
	d.mu.Lock()
	d.metrics = metrics
	d.mu.Unlock()
}

// OnFetch implements application.MetricsObserver
func (d *Dashboard) OnFetch(record *entity.FetchLog) {
	d.mu.Lock()
	d.recent = append(d.recent, record)
	if len(d.recent) > maxRecentFetches {
		d.recent = d.recent[len(d.recent)-maxRecentFetches:]
	}
	d.mu.Unlock()
}

func (d *Dashboard) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7D56F4")).
		Padding(0, 1)

	timeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#999999"))

	title := titleStyle.Render("🕸  Web Crawler")
	timeInfo := timeStyle.Render(fmt.Sprintf(" %s | Running: %s | Time: %s",
		d.metrics.Phase, formatElapsed(time.Since(d.startTime)), time.Now().Format("15:04:05")))

	return title + timeInfo
}

func (d *Dashboard) renderCrawlStats(width, height int) string {
	statStyle := boxStyle("#874BFD", width, height)

	percent := 0.0
	if d.metrics.Limit > 0 {
		percent = float64(d.metrics.Visited) / float64(d.metrics.Limit)
	}
	bar := d.progress
	bar.Width = max(width-10, 10)

	stats := []string{
		"📊 Crawl",
		"",
		fmt.Sprintf("Visited:           %d / %d", d.metrics.Visited, d.metrics.Limit),
		fmt.Sprintf("Frontier:          %d", d.metrics.QueueLength),
		fmt.Sprintf("Active Workers:    %d / %d", d.metrics.ActiveWorkers, d.metrics.TotalWorkers),
		fmt.Sprintf("Links Discovered:  %d", d.metrics.LinksDiscovered),
		fmt.Sprintf("Errors:            %d", d.metrics.Errors),
		"",
		bar.ViewAs(percent),
	}

	return statStyle.Render(strings.Join(stats, "\n"))
}

func (d *Dashboard) renderFetchStats(width, height int) string {
	statStyle := boxStyle("#FF6B6B", width, height)

	stats := []string{
		"🌐 Fetches",
		"",
		fmt.Sprintf("Total:             %d", d.metrics.Fetches),
		fmt.Sprintf("Successful:        %d", d.metrics.Successes),
		fmt.Sprintf("Failed:            %d", d.metrics.Failures),
		fmt.Sprintf("Retries:           %d", d.metrics.Retries),
	}

	elapsed := time.Since(d.startTime).Seconds()
	if elapsed > 0 {
		stats = append(stats,
			"",
			fmt.Sprintf("Fetch Rate:        %.1f req/s", float64(d.metrics.Fetches)/elapsed),
		)
	}
	if d.metrics.Fetches > 0 {
		successRate := float64(d.metrics.Successes) / float64(d.metrics.Fetches) * 100
		stats = append(stats, fmt.Sprintf("Success Rate:      %.1f%%", successRate))
	}
	for _, url := range d.metrics.ActiveURLs {
		stats = append(stats, fmt.Sprintf("  ⇢ %s", url))
	}

	return statStyle.Render(strings.Join(stats, "\n"))
}

func (d *Dashboard) renderRecentFetches(width, height int) string {
	style := boxStyle("#04B575", width, height)

	lines := []string{
		fmt.Sprintf("🔍 Recent Fetches (Total: %d)", d.metrics.Fetches),
		"",
	}

	if len(d.recent) == 0 {
		lines = append(lines, "Nothing fetched yet...")
	} else {
		// border, padding, title and blank line
		maxLines := max(height-6, 0)
		start := max(len(d.recent)-maxLines, 0)
		for _, record := range d.recent[start:] {
			lines = append(lines, formatFetch(record))
		}
	}

	return style.Render(strings.Join(lines, "\n"))
}

func (d *Dashboard) renderFooter() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")).
		Padding(1, 0)

	return footerStyle.Render("Press 'q' or 'Ctrl+C' to quit")
}

func boxStyle(color string, width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(1, 2).
		Width(max(width-2, 0)).
		Height(max(height-2, 0))
}

func formatFetch(record *entity.FetchLog) string {
	if record.Success {
		title := ""
		if record.Title != "" {
			title = " · " + record.Title
		}
		return fmt.Sprintf("  ✓ %s (%d links)%s", record.URL, record.Links, title)
	}
	return fmt.Sprintf("  ✗ %s (%d attempts)", record.URL, record.Attempts)
}

func formatElapsed(elapsed time.Duration) string {
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	seconds := int(elapsed.Seconds()) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*500, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

