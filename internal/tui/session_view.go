package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/wrkout/internal/lifecycle"
	"github.com/balkashynov/wrkout/internal/parser"
	"github.com/balkashynov/wrkout/internal/workout"
)

// ASCII art for the big clock, 5 rows per glyph
var clockGlyphs = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// View renders the session screen
func (m SessionModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	footer := m.renderFooter()
	contentHeight := m.height - lipgloss.Height(footer) - 1

	// Narrow view: clock above the exercise list
	if m.width < 90 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderClockPanel(m.width, contentHeight/2),
			m.renderExercisePanel(m.width, contentHeight-contentHeight/2),
			footer,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderClockPanel(leftWidth, contentHeight),
		"  ",
		m.renderExercisePanel(rightWidth, contentHeight),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, footer)
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
}

// renderClockPanel renders the workout name, clock, progress and rest
func (m SessionModel) renderClockPanel(width, height int) string {
	var components []string

	headerText, headerColor := "🏋  WORKING OUT  🏋", ColorAccentBright
	switch m.state {
	case lifecycle.Paused:
		headerText, headerColor = "⏸  PAUSED  ⏸", ColorWarning
	case lifecycle.ActiveBackground:
		headerText, headerColor = "⏱  RUNNING IN BACKGROUND  ⏱", ColorSecondaryText
	}
	components = append(components, centered(width).
		Foreground(lipgloss.Color(headerColor)).
		Bold(true).
		Render(headerText))

	title := m.session.Name
	if len([]rune(title)) > width-4 && width > 7 {
		title = string([]rune(title)[:width-7]) + "..."
	}
	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(title))

	clockColor := ColorAccentMain
	if m.state == lifecycle.Paused {
		clockColor = ColorWarning
	}
	components = append(components, centered(width).Render(renderBigClock(m.elapsed, clockColor)))

	components = append(components, centered(width).
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render(fmt.Sprintf("Started at %s", m.session.CreatedAt.Local().Format("15:04:05"))))

	pct := workout.CompletionPercentage(m.session)
	progressLine := fmt.Sprintf("%s  %3.0f%%", m.progress.ViewAs(pct/100), pct)
	components = append(components, centered(width).Render(progressLine))

	if rest := m.renderRest(); rest != "" {
		components = append(components, centered(width).Render(rest))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

func (m SessionModel) renderRest() string {
	if !m.rest.running {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Bold(true)
	if m.rest.done {
		return style.Foreground(lipgloss.Color(ColorSuccess)).Render("💪 Rest over, next set!")
	}
	return style.Render(fmt.Sprintf("😮‍💨 Rest %s", parser.FormatElapsed(m.rest.remaining)))
}

// renderBigClock renders elapsed time as ASCII art digits
func renderBigClock(d time.Duration, color string) string {
	timeStr := parser.FormatElapsed(d)
	if len(timeStr) == 7 { // H:MM:SS
		timeStr = "0" + timeStr
	}

	var lines [5]strings.Builder
	for _, char := range timeStr {
		glyph, ok := clockGlyphs[char]
		if !ok {
			continue
		}
		for i, row := range glyph {
			lines[i].WriteString(row)
			lines[i].WriteString(" ")
		}
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	rows := make([]string, len(lines))
	for i := range lines {
		rows[i] = style.Render(lines[i].String())
	}
	return strings.Join(rows, "\n")
}

// renderExercisePanel lists exercises with the current one expanded
func (m SessionModel) renderExercisePanel(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	current := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	open := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

	for i, ex := range m.session.Exercises {
		completed := 0
		for _, set := range ex.Sets {
			if set.Completed {
				completed++
			}
		}
		line := fmt.Sprintf("%d. %s", i+1, ex.Name)
		if ex.Equipment != "" {
			line += " · " + ex.Equipment
		}
		line += fmt.Sprintf("  %d/%d", completed, len(ex.Sets))

		if i != m.session.CurrentExerciseIndex {
			b.WriteString(muted.Render("  " + line))
			b.WriteString("\n")
			continue
		}

		b.WriteString(current.Render("▶ " + line))
		b.WriteString("\n")
		for j, set := range ex.Sets {
			cursor := "   "
			if j == m.setCursor {
				cursor = " ➜ "
			}
			values := fmt.Sprintf("Set %d  %2d × %s", j+1, set.Reps(), parser.FormatWeight(set.Weight()))
			if set.RestTimeSeconds > 0 {
				values += fmt.Sprintf("  rest %ds", set.RestTimeSeconds)
			}
			if set.Completed {
				b.WriteString(done.Render(cursor + "● " + values))
			} else {
				b.WriteString(open.Render(cursor + "○ " + values))
			}
			b.WriteString("\n")
		}
	}

	if m.editing {
		b.WriteString("\n")
		for _, in := range m.inputs {
			b.WriteString("  " + in.View() + "\n")
		}
		b.WriteString(muted.Render("  tab switch · enter save · esc cancel"))
		b.WriteString("\n")
	}

	if m.session.Notes != "" {
		b.WriteString("\n")
		b.WriteString(muted.Italic(true).Render("📝 " + m.session.Notes))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		MaxHeight(height).
		Render(b.String())
}

// renderFooter renders prompts, status and the help bar
func (m SessionModel) renderFooter() string {
	var lines []string

	switch m.confirm {
	case confirmSubmit:
		lines = append(lines, m.promptStyle(ColorAccentBright).Render("Finish and submit this workout? (y/n)"))
	case confirmDiscard:
		lines = append(lines, m.promptStyle(ColorError).Render("Discard this workout? It cannot be recovered. (y/n)"))
	case confirmRemoveExercise:
		name := ""
		if ex, ok := m.session.CurrentExercise(); ok {
			name = ex.Name
		}
		lines = append(lines, m.promptStyle(ColorWarning).Render(fmt.Sprintf("%s has a single set. Remove the exercise instead? (y/n)", name)))
	}

	if m.err != nil {
		lines = append(lines, m.promptStyle(ColorError).Render("Error: "+m.err.Error()))
	} else if m.status != "" {
		lines = append(lines, m.promptStyle(ColorSecondaryText).Render(m.status))
	}
	if m.degraded {
		lines = append(lines, m.promptStyle(ColorWarning).Render("⚠️  Saving failed, crash recovery is unavailable"))
	}

	lines = append(lines, centered(m.width).Render(m.help.View(m.keys)))
	return strings.Join(lines, "\n")
}

func (m SessionModel) promptStyle(color string) lipgloss.Style {
	return centered(m.width).Foreground(lipgloss.Color(color)).Bold(true)
}
