package theme

// PresetNames lists the built-in presets `--theme NAME` accepts, in display
// order, adapted from the teacher's
// internal/ui/theme_presets.go PresetThemeNames/PresetThemes pair.
var PresetNames = []string{"gruvbox", "dracula", "nord", "solarized", "monokai", "classic"}

// Presets maps a preset name to the Config overrides it applies on top of
// Default.
var Presets = map[string]Config{
	"gruvbox": {
		Primary: "#b8bb26", Secondary: "#83a598", Success: "#b8bb26",
		Error: "#fb4934", Warning: "#fabd2f", Muted: "#928374",
		Text: "#ebdbb2", Spinner: "#d3869b",
	},
	"dracula": {
		Primary: "#bd93f9", Secondary: "#8be9fd", Success: "#50fa7b",
		Error: "#ff5555", Warning: "#f1fa8c", Muted: "#6272a4",
		Text: "#f8f8f2", Spinner: "#ff79c6",
	},
	"nord": {
		Primary: "#88c0d0", Secondary: "#81a1c1", Success: "#a3be8c",
		Error: "#bf616a", Warning: "#ebcb8b", Muted: "#4c566a",
		Text: "#eceff4", Spinner: "#b48ead",
	},
	"solarized": {
		Primary: "#268bd2", Secondary: "#2aa198", Success: "#859900",
		Error: "#dc322f", Warning: "#b58900", Muted: "#586e75",
		Text: "#839496", Spinner: "#d33682",
	},
	"monokai": {
		Primary: "#a6e22e", Secondary: "#66d9ef", Success: "#a6e22e",
		Error: "#f92672", Warning: "#e6db74", Muted: "#75715e",
		Text: "#f8f8f2", Spinner: "#ae81ff",
	},
	"classic": {
		Primary: "10", Secondary: "4", Success: "10",
		Error: "9", Warning: "11", Muted: "245", Text: "15", Spinner: "205",
	},
}
