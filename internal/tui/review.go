package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ReviewItem is one output offered for rating.
type ReviewItem struct {
	ID     string
	Input  string
	Output string
	Fixed  string
	Stars  int // current five-star rating, 0 when unrated
}

// ReviewResult holds the ratings chosen in a review session, keyed by
// item ID. Only items whose stars changed are present.
type ReviewResult struct {
	Saved   bool
	Ratings map[string]int
}

type reviewKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Back   key.Binding
	Rate   key.Binding
	Clear  key.Binding
	Save   key.Binding
	Cancel key.Binding
}

var reviewKeys = reviewKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:   key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "details")),
	Back:   key.NewBinding(key.WithKeys("left", "h", "esc"), key.WithHelp("h/esc", "back")),
	Rate:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "rate")),
	Clear:  key.NewBinding(key.WithKeys("0", "x"), key.WithHelp("x", "undo")),
	Save:   key.NewBinding(key.WithKeys("w", "ctrl+s"), key.WithHelp("w", "save")),
	Cancel: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type reviewModel struct {
	title  string
	items  []ReviewItem
	staged map[string]int
	cursor int
	detail bool
	result *ReviewResult
	width  int
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true).
				PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	detailKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginLeft(2).
			MarginTop(1)

	stagedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)
)

func newReviewModel(title string, items []ReviewItem) reviewModel {
	return reviewModel{title: title, items: items, staged: map[string]int{}}
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, reviewKeys.Cancel):
			m.result = &ReviewResult{Saved: false, Ratings: map[string]int{}}
			return m, tea.Quit

		case key.Matches(msg, reviewKeys.Save):
			m.result = &ReviewResult{Saved: true, Ratings: m.changes()}
			return m, tea.Quit

		case key.Matches(msg, reviewKeys.Up):
			if !m.detail && m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, reviewKeys.Down):
			if !m.detail && m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case key.Matches(msg, reviewKeys.Open):
			m.detail = true

		case key.Matches(msg, reviewKeys.Back):
			m.detail = false

		case key.Matches(msg, reviewKeys.Rate):
			m.staged[m.items[m.cursor].ID] = int(msg.String()[0] - '0')

		case key.Matches(msg, reviewKeys.Clear):
			delete(m.staged, m.items[m.cursor].ID)
		}
	}
	return m, nil
}

// changes returns staged ratings that differ from the current ones.
func (m reviewModel) changes() map[string]int {
	out := map[string]int{}
	for _, it := range m.items {
		if stars, ok := m.staged[it.ID]; ok && stars != it.Stars {
			out[it.ID] = stars
		}
	}
	return out
}

func (m reviewModel) stars(it ReviewItem) string {
	if stars, ok := m.staged[it.ID]; ok {
		return stagedStyle.Render(Stars(stars))
	}
	if it.Stars == 0 {
		return detailValueStyle.Render("unrated")
	}
	return Stars(it.Stars)
}

func (m reviewModel) View() string {
	if m.result != nil {
		if m.result.Saved {
			return stagedStyle.Render(fmt.Sprintf("\n✓ %d rating(s) saved\n\n", len(m.result.Ratings)))
		}
		return "\nReview cancelled\n\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Outputs: %d  Staged: %d", len(m.items), len(m.changes()))))
	b.WriteString("\n\n")

	if !m.detail {
		for i, it := range m.items {
			style := itemStyle
			cursor := "  "
			if i == m.cursor {
				style = selectedItemStyle
				cursor = "→ "
			}
			line := fmt.Sprintf("%s[%d] %s  %s", cursor, i+1, truncate(it.Output, 48), m.stars(it))
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render(helpLine(reviewKeys.Up, reviewKeys.Down, reviewKeys.Open, reviewKeys.Rate, reviewKeys.Save, reviewKeys.Cancel)))
		return b.String()
	}

	it := m.items[m.cursor]
	b.WriteString(headerStyle.Render(fmt.Sprintf("Output %d of %d", m.cursor+1, len(m.items))))
	b.WriteString("\n\n")
	details := []struct{ key, value string }{
		{"ID", it.ID},
		{"Input", it.Input},
		{"Output", it.Output},
		{"Fixed", it.Fixed},
	}
	for _, d := range details {
		if d.value == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(detailKeyStyle.Render(fmt.Sprintf("%-8s:", d.key)))
		b.WriteString(" ")
		b.WriteString(detailValueStyle.Render(d.value))
		b.WriteString("\n")
	}
	b.WriteString("  ")
	b.WriteString(detailKeyStyle.Render(fmt.Sprintf("%-8s:", "Rating")))
	b.WriteString(" " + m.stars(it) + "\n")
	b.WriteString(helpStyle.Render(helpLine(reviewKeys.Back, reviewKeys.Rate, reviewKeys.Clear, reviewKeys.Save, reviewKeys.Cancel)))
	return b.String()
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return strings.Join(parts, " | ")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// RunReview launches an interactive TUI for rating outputs with five stars.
func RunReview(title string, items []ReviewItem) (*ReviewResult, error) {
	if len(items) == 0 {
		return &ReviewResult{Saved: true, Ratings: map[string]int{}}, nil
	}

	program := tea.NewProgram(newReviewModel(title, items))
	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("running review UI: %w", err)
	}

	m, ok := finalModel.(reviewModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type: %T", finalModel)
	}
	if m.result != nil {
		return m.result, nil
	}
	return &ReviewResult{Saved: false, Ratings: map[string]int{}}, nil
}
