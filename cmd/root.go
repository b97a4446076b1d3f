// Package cmd is the CLI surface: one cobra command tree exposing `chat`,
// `config-file`, and `sessions`. Grounded on the teacher's cmd/root.go
// package-level-flag/init()/RunE idiom, trimmed to the flags this client
// actually names.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfigFile string
	flagBackend    string
	flagModel      string
	flagTheme      string
	flagThemeFile  string
	flagSessionID  string
	flagDebug      bool
)

var rootCmd = &cobra.Command{
	Use:   "oatmeal",
	Short: "A terminal chat client for streaming LLM backends",
	Long: `oatmeal is a mouse-aware terminal chat client: stream a
conversation from an OpenAI-compatible, Anthropic, Gemini, or Ollama
backend, select assistant code blocks with the mouse, and send them to
an editor.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigFile, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "backend name (openai, anthropic, gemini, ollama, openai-compat)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "model name")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "built-in theme preset name")
	rootCmd.PersistentFlags().StringVar(&flagThemeFile, "theme-file", "", "path to a TOML theme override file")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write request/response traces to the debug log")
}

// Execute runs the command tree; cobra has already printed the error by
// the time it bubbles up here, so only the exit code matters.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
