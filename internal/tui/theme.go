package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Danondso/melodia/internal/config"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name       string
	Primary    lipgloss.Color // title, playing badge, pitch strip
	Secondary  lipgloss.Color // labels, key hints, border
	Accent     lipgloss.Color // melody summary
	Error      lipgloss.Color // error badge
	Success    lipgloss.Color // idle badge, saved marker
	Warning    lipgloss.Color // generating badge, debug category
	Background lipgloss.Color // panel background
	Text       lipgloss.Color // body text
	Dimmed     lipgloss.Color // quit text, debug text
	Separator  lipgloss.Color // debug separator
}

var themes = map[string]Theme{
	"synthwave": {
		Name:       "Synthwave",
		Primary:    lipgloss.Color("#FF6AC1"),
		Secondary:  lipgloss.Color("#00E5FF"),
		Accent:     lipgloss.Color("#B388FF"),
		Error:      lipgloss.Color("#FF8A80"),
		Success:    lipgloss.Color("#64FFDA"),
		Warning:    lipgloss.Color("#FFAB40"),
		Background: lipgloss.Color("#1A1A2E"),
		Text:       lipgloss.Color("#E0E0E0"),
		Dimmed:     lipgloss.Color("#666666"),
		Separator:  lipgloss.Color("#444444"),
	},
	"gruvbox": {
		Name:       "Gruvbox",
		Primary:    lipgloss.Color("#FB4934"),
		Secondary:  lipgloss.Color("#83A598"),
		Accent:     lipgloss.Color("#D3869B"),
		Error:      lipgloss.Color("#FB4934"),
		Success:    lipgloss.Color("#B8BB26"),
		Warning:    lipgloss.Color("#FABD2F"),
		Background: lipgloss.Color("#282828"),
		Text:       lipgloss.Color("#EBDBB2"),
		Dimmed:     lipgloss.Color("#928374"),
		Separator:  lipgloss.Color("#504945"),
	},
	"monochrome": {
		Name:       "Monochrome",
		Primary:    lipgloss.Color("#FFFFFF"),
		Secondary:  lipgloss.Color("#CCCCCC"),
		Accent:     lipgloss.Color("#AAAAAA"),
		Error:      lipgloss.Color("#FF0000"),
		Success:    lipgloss.Color("#FFFFFF"),
		Warning:    lipgloss.Color("#CCCCCC"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#FFFFFF"),
		Dimmed:     lipgloss.Color("#888888"),
		Separator:  lipgloss.Color("#444444"),
	},
}

var builtinThemes = map[string]bool{
	"synthwave":  true,
	"gruvbox":    true,
	"monochrome": true,
}

var themeOrder = []string{"synthwave", "gruvbox", "monochrome"}

// ThemeNames returns theme keys in cycle order.
func ThemeNames() []string {
	out := make([]string, len(themeOrder))
	copy(out, themeOrder)
	return out
}

// LoadTheme returns the theme with the given name (case-insensitive),
// falling back to synthwave.
func LoadTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes["synthwave"]
}

// NextThemeKey returns the key after current in the cycle order.
func NextThemeKey(current string) string {
	current = strings.ToLower(current)
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// RegisterCustomThemes adds config themes to the cycle. Entries with empty
// names or names of built-in themes are skipped.
func RegisterCustomThemes(custom []config.CustomTheme) {
	for _, ct := range custom {
		key := strings.ToLower(ct.Name)
		if key == "" || builtinThemes[key] {
			continue
		}
		if _, exists := themes[key]; exists {
			continue
		}
		themes[key] = Theme{
			Name:       ct.Name,
			Primary:    lipgloss.Color(ct.Primary),
			Secondary:  lipgloss.Color(ct.Secondary),
			Accent:     lipgloss.Color(ct.Accent),
			Error:      lipgloss.Color(ct.Error),
			Success:    lipgloss.Color(ct.Success),
			Warning:    lipgloss.Color(ct.Warning),
			Background: lipgloss.Color(ct.Background),
			Text:       lipgloss.Color(ct.Text),
			Dimmed:     lipgloss.Color(ct.Dimmed),
			Separator:  lipgloss.Color(ct.Separator),
		}
		themeOrder = append(themeOrder, key)
	}
}

// Styles, rebuilt by applyTheme.
var (
	titleStyle         lipgloss.Style
	borderStyle        lipgloss.Style
	labelStyle         lipgloss.Style
	summaryStyle       lipgloss.Style
	hintStyle          lipgloss.Style
	quitStyle          lipgloss.Style
	idleBadge          lipgloss.Style
	playingBadge       lipgloss.Style
	generatingBadge    lipgloss.Style
	errorBadge         lipgloss.Style
	bodyStyle          lipgloss.Style
	stripStyle         lipgloss.Style
	savedStyle         lipgloss.Style
	debugTitleStyle    lipgloss.Style
	debugRuleStyle     lipgloss.Style
	debugHeaderStyle   lipgloss.Style
	debugTimeStyle     lipgloss.Style
	debugCategoryStyle lipgloss.Style
	debugMsgStyle      lipgloss.Style
	debugSepStyle      lipgloss.Style
)

func init() {
	applyTheme(themes["synthwave"])
}

func fg(c, bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Background(bg)
}

// applyTheme updates all TUI style variables to use the given theme's colors.
func applyTheme(t Theme) {
	bg := t.Background

	titleStyle = fg(t.Primary, bg).Bold(true).MarginBottom(1)
	borderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(1, 2).
		Background(bg)
	labelStyle = fg(t.Secondary, bg).Bold(true)
	summaryStyle = fg(t.Accent, bg).Italic(true)
	hintStyle = fg(t.Secondary, bg)
	quitStyle = fg(t.Dimmed, bg)

	idleBadge = fg(t.Success, bg).Bold(true)
	playingBadge = fg(t.Primary, bg).Bold(true)
	generatingBadge = fg(t.Warning, bg).Bold(true)
	errorBadge = fg(t.Error, bg).Bold(true)

	bodyStyle = fg(t.Text, bg)
	stripStyle = fg(t.Primary, bg)
	savedStyle = fg(t.Success, bg).Bold(true)

	debugTitleStyle = fg(t.Dimmed, bg).Bold(true)
	debugRuleStyle = fg(t.Dimmed, bg)
	debugHeaderStyle = fg(t.Dimmed, bg).Bold(true)
	debugTimeStyle = fg(t.Dimmed, bg)
	debugCategoryStyle = fg(t.Warning, bg)
	debugMsgStyle = fg(t.Dimmed, bg)
	debugSepStyle = fg(t.Separator, bg)
}
