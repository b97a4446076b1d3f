// Package theme holds the color palette the bubble renderer and the rest of
// the chat UI draw from, adapted from the teacher's internal/ui/styles.go
// Theme/Styles pair: trimmed to the colors a plain-text chat bubble actually
// needs (no diff or table styling — this client has neither) and extended
// with the spinner, bubble-border, user-bubble and selection colors the
// chat UI uses that the teacher's generic Theme didn't need to name.
package theme

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// Theme is the palette every rendered bubble and chrome element pulls from.
type Theme struct {
	Primary   lipgloss.Color // assistant author label, accents
	Secondary lipgloss.Color // headers, scrollbar thumb
	Success   lipgloss.Color
	Error     lipgloss.Color
	Warning   lipgloss.Color
	Muted     lipgloss.Color // dimmed text, timestamps
	Text      lipgloss.Color // primary body text

	Spinner    lipgloss.Color
	Border     lipgloss.Color // bubble border color
	UserMsgBg  lipgloss.Color // background tint for the user's own bubbles
	SelectedBg lipgloss.Color // background applied to yank-selected spans
}

// Default returns the built-in gruvbox palette.
func Default() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#b8bb26"),
		Secondary:  lipgloss.Color("#83a598"),
		Success:    lipgloss.Color("#b8bb26"),
		Error:      lipgloss.Color("#fb4934"),
		Warning:    lipgloss.Color("#fabd2f"),
		Muted:      lipgloss.Color("#928374"),
		Text:       lipgloss.Color("#ebdbb2"),
		Spinner:    lipgloss.Color("#d3869b"),
		Border:     lipgloss.Color("#83a598"),
		UserMsgBg:  lipgloss.Color("#3c3836"),
		SelectedBg: lipgloss.Color("#504945"),
	}
}

// Config is the set of color overrides a TOML theme file or a built-in
// preset carries; empty fields leave the default untouched.
type Config struct {
	Primary    string `mapstructure:"primary" toml:"primary"`
	Secondary  string `mapstructure:"secondary" toml:"secondary"`
	Success    string `mapstructure:"success" toml:"success"`
	Error      string `mapstructure:"error" toml:"error"`
	Warning    string `mapstructure:"warning" toml:"warning"`
	Muted      string `mapstructure:"muted" toml:"muted"`
	Text       string `mapstructure:"text" toml:"text"`
	Spinner    string `mapstructure:"spinner" toml:"spinner"`
	UserMsgBg  string `mapstructure:"user_message_bg" toml:"user_message_bg"`
	SelectedBg string `mapstructure:"selected_bg" toml:"selected_bg"`
}

// FromConfig applies overrides on top of Default.
func FromConfig(cfg Config) *Theme {
	t := Default()
	if cfg.Primary != "" {
		t.Primary = lipgloss.Color(cfg.Primary)
	}
	if cfg.Secondary != "" {
		t.Secondary = lipgloss.Color(cfg.Secondary)
		t.Border = lipgloss.Color(cfg.Secondary)
	}
	if cfg.Success != "" {
		t.Success = lipgloss.Color(cfg.Success)
	}
	if cfg.Error != "" {
		t.Error = lipgloss.Color(cfg.Error)
	}
	if cfg.Warning != "" {
		t.Warning = lipgloss.Color(cfg.Warning)
	}
	if cfg.Muted != "" {
		t.Muted = lipgloss.Color(cfg.Muted)
	}
	if cfg.Text != "" {
		t.Text = lipgloss.Color(cfg.Text)
	}
	if cfg.Spinner != "" {
		t.Spinner = lipgloss.Color(cfg.Spinner)
	}
	if cfg.UserMsgBg != "" {
		t.UserMsgBg = lipgloss.Color(cfg.UserMsgBg)
	}
	if cfg.SelectedBg != "" {
		t.SelectedBg = lipgloss.Color(cfg.SelectedBg)
	}
	return t
}

// Resolve looks up name among the built-in presets, falling back to Default
// for an unknown or empty name — callers decide whether that fallback
// deserves a warning.
func Resolve(name string) *Theme {
	if preset, ok := Presets[name]; ok {
		return FromConfig(preset)
	}
	return Default()
}

// LoadFile reads a TOML theme file (the Config shape above) and applies it
// on top of Default, letting
// --theme-file override individual colors without naming a full preset.
func LoadFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("theme: read %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("theme: parse %s: %w", path, err)
	}
	return FromConfig(cfg), nil
}

// Glamour renders t as a glamour ansi.StyleConfig for markdown text
// (headings, emphasis, lists, links). The bubble renderer does not call
// it: prose inside a bubble is word-wrapped plain text, and code blocks go
// through internal/highlight.
func Glamour(t *Theme) ansi.StyleConfig {
	primary := string(t.Primary)
	secondary := string(t.Secondary)
	warning := string(t.Warning)
	muted := string(t.Muted)
	text := string(t.Text)

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &text},
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &secondary, Bold: boolPtr(true)},
		},
		Emph: ansi.StylePrimitive{
			Color:  &warning,
			Italic: boolPtr(true),
		},
		Strong: ansi.StylePrimitive{
			Bold:  boolPtr(true),
			Color: &primary,
		},
		Link: ansi.StylePrimitive{
			Color:     &secondary,
			Underline: boolPtr(true),
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "- ",
		},
		List: ansi.StyleList{
			StyleBlock: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: &text}},
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: &primary},
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  &muted,
			Format: "\n───\n",
		},
	}
}

func boolPtr(b bool) *bool { return &b }
