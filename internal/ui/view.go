package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
)

const minTileWidth = 14

func (m *Model) renderLoading() string {
	status := "Loading now playing..."
	if m.status != "" {
		status = m.status
	}
	return fmt.Sprintf("\n  %s %s\n\n  %s", m.spinner.View(), status, m.help.ShortHelpView([]key.Binding{m.keys.quit}))
}

func (m *Model) renderFailed() string {
	title := styles.err.Render("Couldn't load movies")
	body := fmt.Sprintf("%v", m.err)
	if hint := services.Hint(m.err); hint != "" {
		body += "\n\n" + styles.muted.Render(hint)
	}

	bindings := []key.Binding{m.keys.quit}
	if services.Retryable(m.err) {
		bindings = []key.Binding{m.keys.retry, m.keys.quit}
	}
	helpView := m.help.ShortHelpView(bindings)
	return fmt.Sprintf("\n%s\n\n%s\n\n%s", title, lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(body), helpView)
}

func (m *Model) renderReady() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("MARQUEE"))
	b.WriteString("\n")

	if m.stale {
		note := fmt.Sprintf("offline copy from %s", m.fetchedAt.Local().Format("Jan 2 15:04"))
		if m.err != nil {
			note += fmt.Sprintf(" (%v)", m.err)
		}
		b.WriteString(styles.warn.Render(shared.Truncate(note, max(m.width, 20))))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderBanner())
	b.WriteString("\n\n")
	b.WriteString(m.renderSlider())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m *Model) renderBanner() string {
	banner, ok := m.page.Banner()
	if !ok {
		return styles.muted.Render("Nothing is playing right now.")
	}

	width := max(m.width-4, 20)
	lines := []string{
		styles.bannerTitle.Render(banner.Title),
		styles.muted.Render(bannerMeta(banner)),
	}
	if banner.Overview != "" {
		lines = append(lines, "", shared.Truncate(banner.Overview, width*2))
	}
	if url := m.imageURL(banner.BackdropPath, services.SizeW780); url != "" {
		lines = append(lines, "", styles.muted.Render(url))
	}

	return styles.banner.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderSlider() string {
	visible := m.visible()
	if len(visible) == 0 {
		return ""
	}

	size := m.slider.WindowSize()
	tileWidth := max(m.width/size-4, minTileWidth)

	tiles := make([]string, len(visible))
	for i, movie := range visible {
		tiles[i] = m.renderTile(movie, i, tileWidth)
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
	return lipgloss.JoinVertical(lipgloss.Left, row, m.renderPager())
}

func (m *Model) renderTile(movie models.Movie, i, width int) string {
	if m.slider.Transitioning() {
		return styles.tileMoving.Width(width).Render(shared.Truncate(movie.Title, width))
	}

	if i != m.focus {
		return styles.tile.Width(width).Render(shared.Truncate(movie.Title, width))
	}

	if !m.expanded {
		return styles.tileFocused.Width(width).Render(shared.Truncate(movie.Title, width))
	}

	// Expanded: full title plus metadata, one cell wider on each side.
	body := lipgloss.JoinVertical(lipgloss.Left, movie.Title, styles.muted.Render(bannerMeta(movie)))
	return styles.tileFocused.Width(width + 2).Render(body)
}

func (m *Model) renderPager() string {
	state := m.slider.State()
	last := m.slider.Max(m.page)

	dots := make([]string, last+1)
	for i := range dots {
		if i == state.WindowIndex {
			dots[i] = styles.err.Render("●")
		} else {
			dots[i] = styles.muted.Render("○")
		}
	}
	return " " + strings.Join(dots, " ")
}

func (m *Model) renderOverlay() string {
	movie, ok := m.detail()
	if !ok {
		return styles.overlay.Width(max(m.width-4, 20)).Render("") + "\n\n" + m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	}

	header := styles.bannerTitle.Render(movie.Title)
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.up, m.keys.down, m.keys.quit})
	box := styles.overlay.Width(max(m.width-4, 20)).Render(header + "\n\n" + m.viewport.View())
	return box + "\n\n" + helpView
}

// bannerMeta formats year, rating and language, skipping unknowns.
func bannerMeta(movie models.Movie) string {
	var parts []string
	if y := movie.Year(); y != "" {
		parts = append(parts, y)
	}
	if movie.VoteAverage > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f", movie.VoteAverage))
	}
	if movie.OriginalLanguage != "" {
		parts = append(parts, strings.ToUpper(movie.OriginalLanguage))
	}
	return strings.Join(parts, " · ")
}

// formatDetail is the scrollable body of the detail overlay.
func formatDetail(movie models.Movie, imageURL string, width int) string {
	var b strings.Builder

	if meta := bannerMeta(movie); meta != "" {
		b.WriteString(meta)
		b.WriteString("\n\n")
	}

	if movie.Overview != "" {
		b.WriteString(lipgloss.NewStyle().Width(max(width, 20)).Render(movie.Overview))
	} else {
		b.WriteString("No overview available.")
	}

	if movie.ReleaseDate != "" {
		b.WriteString(fmt.Sprintf("\n\nRelease date: %s", movie.ReleaseDate))
	}
	if imageURL != "" {
		b.WriteString(fmt.Sprintf("\nBackdrop: %s", imageURL))
	}

	return b.String()
}
