package tui

import (
	"fmt"
	"strings"

	"github.com/Danondso/melodia/internal/melody"
)

// panelWidth is the total outer width of the main panel. The border takes
// 2 columns and the padding 4, so Width() gets panelWidth-2 and the text
// area is panelWidth-6.
const panelWidth = 80
const panelWidthForStyle = panelWidth - 2
const panelContentWidth = panelWidth - 6

// noteNames labels melody.Scale by index.
var noteNames = [len(melody.Scale)]string{"C", "D", "E", "F", "G", "A", "B"}

// maxStripNotes caps how many notes the pitch strip shows.
const maxStripNotes = 32

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	titleText := "  MELODIA  "
	barTotal := panelContentWidth - len(titleText)
	barLeft := barTotal / 2
	barRight := barTotal - barLeft
	title := strings.Repeat("▓", barLeft) + titleText + strings.Repeat("▓", barRight)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Status:  "))
	b.WriteString(m.renderBadge())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Last melody:"))
	b.WriteString("\n")
	if m.Last != nil {
		summary := fmt.Sprintf("%d notes, %.2fs, %d samples, %d bytes",
			len(m.Last.Melody), m.Last.Duration(), m.Last.Samples, len(m.Last.WAV))
		b.WriteString(summaryStyle.Width(panelContentWidth).Render(summary))
		if strip := renderStrip(m.Last.Melody); strip != "" {
			b.WriteString("\n")
			b.WriteString(stripStyle.Render(strip))
		}
	} else {
		b.WriteString(bodyStyle.Render("(none yet)"))
	}
	b.WriteString("\n\n")

	if m.LastSaved != "" {
		b.WriteString(savedStyle.Render("✓ Saved: "))
		b.WriteString(bodyStyle.Render(m.LastSaved))
		b.WriteString("\n\n")
	}

	b.WriteString(hintStyle.Render("+/- duration  g generate  p play  s save  c copy path  t theme"))
	b.WriteString("\n")
	b.WriteString(quitStyle.Render("Press q to quit"))

	if m.DebugMode || len(m.DebugEntries) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.renderDebugPanel())
	}

	return borderStyle.Width(panelWidthForStyle).Render(b.String())
}

// renderStrip prints the scale degree of each note, e.g. "C E G A".
func renderStrip(m melody.Melody) string {
	names := make([]string, 0, min(len(m), maxStripNotes))
	for i, n := range m {
		if i == maxStripNotes {
			names = append(names, "…")
			break
		}
		names = append(names, noteName(n.Frequency))
	}
	return strings.Join(names, " ")
}

func noteName(freq float64) string {
	for i, f := range melody.Scale {
		if f == freq {
			return noteNames[i]
		}
	}
	return "?"
}

func (m Model) renderStatusBar() string {
	theme := LoadTheme(m.ThemeKey).Name
	return quitStyle.Render(fmt.Sprintf("Duration: %.2fs  Max: %gs  Tempo: %d bpm  Theme: %s",
		m.Duration, m.MaxDuration, melody.Tempo, theme))
}

func (m Model) renderBadge() string {
	switch m.State {
	case StateGenerating:
		return generatingBadge.Render("● Generating...")
	case StatePlaying:
		return playingBadge.Render("● Playing...")
	case StateError:
		errText := m.LastError
		if len(errText) > 50 {
			errText = errText[:50] + "..."
		}
		return errorBadge.Render(fmt.Sprintf("● Error: %s", errText))
	default:
		return idleBadge.Render("● Idle")
	}
}

const debugPanelMaxLines = 5

// Debug table column widths. Row content must fit within panelContentWidth.
const (
	colTimeWidth     = 15
	colCategoryWidth = 10
	colSepWidth      = 3 // " │ "
	colMsgWidth      = panelContentWidth - colTimeWidth - colCategoryWidth - colSepWidth*2
)

func (m Model) renderDebugPanel() string {
	sep := debugSepStyle.Render(" │ ")
	rule := debugRuleStyle.Render(strings.Repeat("─", panelContentWidth))

	var db strings.Builder
	db.WriteString(debugTitleStyle.Render("Debug"))
	db.WriteString("\n")
	db.WriteString(rule)
	db.WriteString("\n")
	db.WriteString(
		debugHeaderStyle.Width(colTimeWidth).Render("TIME") +
			sep +
			debugHeaderStyle.Width(colCategoryWidth).Render("TYPE") +
			sep +
			debugHeaderStyle.Width(colMsgWidth).Render("MESSAGE"))
	db.WriteString("\n")
	db.WriteString(rule)

	entries := m.DebugEntries
	if len(entries) > debugPanelMaxLines {
		entries = entries[len(entries)-debugPanelMaxLines:]
	}
	for _, entry := range entries {
		db.WriteString("\n")
		db.WriteString(
			debugTimeStyle.Width(colTimeWidth).Render(truncate(entry.Time, colTimeWidth)) +
				sep +
				debugCategoryStyle.Width(colCategoryWidth).Render(truncate(entry.Category, colCategoryWidth)) +
				sep +
				debugMsgStyle.Width(colMsgWidth).Render(ellipsize(entry.Message, colMsgWidth)))
	}

	return db.String()
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func ellipsize(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
