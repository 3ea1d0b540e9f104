package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/marquee/internal/app"
	"github.com/lepinkainen/marquee/internal/omdb"
	"github.com/lepinkainen/marquee/internal/render"
)

type cardItem struct {
	app.Card
}

func (i cardItem) FilterValue() string {
	return i.Title
}

type itemStyles struct {
	normal        lipgloss.Style
	selected      lipgloss.Style
	titleStyle    lipgloss.Style
	favoriteStyle lipgloss.Style
	ratingStyle   lipgloss.Style
	metadataStyle lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		favoriteStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("204")),
		ratingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
		metadataStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
	}
}

type cardDelegate struct {
	styles itemStyles
}

func newDelegate() cardDelegate {
	return cardDelegate{styles: newItemStyles()}
}

func (d cardDelegate) Height() int                         { return 5 }
func (d cardDelegate) Spacing() int                        { return 0 }
func (d cardDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d cardDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	card, ok := item.(cardItem)
	if !ok {
		return
	}

	mark := d.styles.favoriteStyle.Render(render.Mark(card.Favorite))
	titleLine := mark + " " + d.styles.titleStyle.Render(fmt.Sprintf("%s (%s)", strings.ToUpper(card.Title), card.Year))
	metadataLine := d.styles.metadataStyle.Render(truncate(cardMetadata(card.Card), m.Width()-4))

	rating := "Box Office: " + card.BoxOffice
	if omdb.IsAvailable(card.ImdbRating) {
		rating = fmt.Sprintf("%s/10 | %s", card.ImdbRating, rating)
	}
	ratingLine := d.styles.ratingStyle.Render(rating)

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, metadataLine, ratingLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

// cardMetadata joins the known type, genre and language of a card.
func cardMetadata(c app.Card) string {
	var parts []string
	for _, v := range []string{c.Type, c.Genre, c.Language} {
		if omdb.IsAvailable(v) {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "No metadata available"
	}
	return strings.Join(parts, " | ")
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("161"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || len(value) <= width {
		return value
	}
	if width <= 3 {
		return value[:width]
	}
	return value[:width-3] + "..."
}

func clamp(defaultValue, available, minimum int) int {
	size := defaultValue
	if available > 0 && available < defaultValue {
		size = available
	}
	if size < minimum {
		size = minimum
	}
	return size
}

// firstItem returns the first entry of a comma separated OMDb list.
func firstItem(value string) string {
	if !omdb.IsAvailable(value) {
		return ""
	}
	first, _, _ := strings.Cut(value, ",")
	return strings.TrimSpace(first)
}
