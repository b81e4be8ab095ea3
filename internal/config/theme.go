package config

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

const DefaultThemeFileName = "theme.toml"

// Theme holds colours (any lipgloss colour string) and glyphs.
type Theme struct {
	Colors  ThemeColors  `toml:"colors"`
	Urgency UrgencyColor `toml:"urgency"`
	Status  StatusColor  `toml:"status"`
	Glyphs  ThemeGlyphs  `toml:"glyphs"`
}

type ThemeColors struct {
	Text          string `toml:"text"`
	Muted         string `toml:"muted"`
	SelectedBg    string `toml:"selected_bg"`
	AltRowBg      string `toml:"alt_row_bg"`
	ListBorder    string `toml:"list_border"`
	DetailBorder  string `toml:"detail_border"`
	StateBorder   string `toml:"state_border"`
	HelpBorder    string `toml:"help_border"`
	PopupBorder   string `toml:"popup_border"`
	PopupBg       string `toml:"popup_bg"`
	StatusBarBg   string `toml:"status_bar_bg"`
	Error         string `toml:"error"`
	SelectionText string `toml:"selection_text"`
	SelectionBg   string `toml:"selection_bg"`
}

type UrgencyColor struct {
	Low      string `toml:"low"`
	Medium   string `toml:"medium"`
	High     string `toml:"high"`
	Critical string `toml:"critical"`
}

type StatusColor struct {
	Open      string `toml:"open"`
	Working   string `toml:"working"`
	Paused    string `toml:"paused"`
	Completed string `toml:"completed"`
}

type ThemeGlyphs struct {
	HighlightSymbol string `toml:"highlight_symbol"`
	ScrollBegin     string `toml:"scroll_begin"`
	ScrollEnd       string `toml:"scroll_end"`
	ScrollThumb     string `toml:"scroll_thumb"`
	ScrollTrack     string `toml:"scroll_track"`
}

func DefaultTheme() Theme {
	return Theme{
		Colors: ThemeColors{
			Text:          "#E2E8F0",
			Muted:         "#64748B",
			SelectedBg:    "#1E293B",
			AltRowBg:      "#0F172A",
			ListBorder:    "#F8FAFC",
			DetailBorder:  "#F8FAFC",
			StateBorder:   "#F8FAFC",
			HelpBorder:    "#F8FAFC",
			PopupBorder:   "#EF4444",
			PopupBg:       "#1E293B",
			StatusBarBg:   "#022C22",
			Error:         "#F87171",
			SelectionText: "#0F172A",
			SelectionBg:   "#FACC15",
		},
		Urgency: UrgencyColor{
			Low:      "#22C55E",
			Medium:   "#EAB308",
			High:     "#F97316",
			Critical: "#EF4444",
		},
		Status: StatusColor{
			Open:      "#38BDF8",
			Working:   "#A78BFA",
			Paused:    "#94A3B8",
			Completed: "#22C55E",
		},
		Glyphs: ThemeGlyphs{
			HighlightSymbol: ">",
			ScrollBegin:     "↑",
			ScrollEnd:       "↓",
			ScrollThumb:     "▐",
			ScrollTrack:     "│",
		},
	}
}

// LoadTheme reads path over the default theme. A missing file yields the
// defaults unchanged.
func LoadTheme(path string) (Theme, error) {
	th := DefaultTheme()
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return th, nil
	}
	if err != nil {
		return Theme{}, fmt.Errorf("read theme: %w", err)
	}
	if err := toml.Unmarshal(content, &th); err != nil {
		return Theme{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if th.Glyphs.HighlightSymbol == "" {
		return Theme{}, fmt.Errorf("%s: glyphs.highlight_symbol must not be empty", path)
	}
	return th, nil
}

// SaveTheme writes th atomically, like Save.
func SaveTheme(path string, th Theme) error {
	data, err := toml.Marshal(th)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	return writeAtomic(path, data)
}
