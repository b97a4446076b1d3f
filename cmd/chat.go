package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/samsaffron/oatmeal/internal/chat/ui"
	"github.com/samsaffron/oatmeal/internal/config"
	"github.com/samsaffron/oatmeal/internal/debuglog"
	"github.com/samsaffron/oatmeal/internal/editor"
	"github.com/samsaffron/oatmeal/internal/llm"
	"github.com/samsaffron/oatmeal/internal/session"
	"github.com/samsaffron/oatmeal/internal/theme"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive TUI chat session with a streaming backend.

Keyboard shortcuts:
  Enter        - Send message
  Ctrl+O       - Insert newline
  Ctrl+R       - Resubmit last message
  Ctrl+C       - Quit (press twice)

Mouse:
  Drag over an assistant bubble to select, release to send the
  selection to the configured editor.

Slash commands:
  /help        - Show help
  /model NAME  - Switch model
  /modellist   - List models available on the active backend
  /append N    - Send code block N to the editor (append)
  /replace N   - Send code block N to the editor (replace)
  /copy N      - Copy code block N to the clipboard
  /quit        - Exit chat`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&flagSessionID, "session-id", "", "resume the session with this ID instead of starting fresh")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Flags{
		ConfigFile: flagConfigFile,
		Backend:    flagBackend,
		Model:      flagModel,
		Theme:      flagTheme,
		ThemeFile:  flagThemeFile,
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	th, err := resolveTheme(cfg)
	if err != nil {
		return err
	}

	ed, err := editor.New(cfg.Editor)
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	backendSettings := cfg.BackendFor(cfg.Backend)
	provider, err := llm.NewProvider(llm.BackendConfig{
		Name:  cfg.Backend,
		URL:   backendSettings.URL,
		Token: backendSettings.Token,
		Model: cfg.Model,
	})
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	sessDir, err := sessionsDir()
	if err != nil {
		return err
	}

	var sess *session.Session
	if flagSessionID != "" {
		sess, err = session.Load(sessDir, flagSessionID)
		if err != nil {
			return fmt.Errorf("sessions: %w", err)
		}
	} else {
		sess = session.New(sessDir, cfg.Backend, cfg.Model)
	}

	var log *debuglog.Logger
	if flagDebug {
		logPath := cfg.DebugLogs
		if logPath == "" {
			logPath = filepath.Join(dataDir, "debug.log")
		}
		log, err = debuglog.Open(logPath)
		if err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer log.Close()
	}

	model := ui.New(provider, cfg.Model, cfg.Username, th, ed, sess, log)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion()}
	p := tea.NewProgram(model, opts...)

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	defer func() {
		if r := recover(); r != nil {
			p.ReleaseTerminal()
			fmt.Fprintf(os.Stderr, "oatmeal: recovered panic: %v\n", r)
			os.Exit(1)
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}

// resolveTheme applies --theme-file over --theme/config theme over the
// built-in default, in that precedence.
func resolveTheme(cfg config.Config) (*theme.Theme, error) {
	if cfg.ThemeFile != "" {
		th, err := theme.LoadFile(cfg.ThemeFile)
		if err != nil {
			return nil, fmt.Errorf("theme: %w", err)
		}
		return th, nil
	}
	return theme.Resolve(cfg.Theme), nil
}
