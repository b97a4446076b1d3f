// Package editor implements the editor capability set spec's tagged-variant
// dispatch names: health_check, get_context, clear_context, and
// apply(code, AcceptType). Adapted from internal/clipboard's
// exec.LookPath-probed external-tool idiom — there is no Neovim RPC client
// anywhere in the retrieval pack, so the neovim adapter shells out to the
// nvim binary's own --remote-expr/--remote-send interface exactly the way
// clipboard.go shells out to pbcopy/wl-copy/xclip, rather than fabricate a
// msgpack-rpc dependency that isn't grounded in anything the pack uses.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/samsaffron/oatmeal/internal/chat/event"
	"github.com/samsaffron/oatmeal/internal/clipboard"
	"github.com/samsaffron/oatmeal/internal/config"
)

// Capability is the small interface every editor adapter implements,
// resolved from config.Editor by a name-keyed factory (New).
type Capability interface {
	HealthCheck(ctx context.Context) error
	GetContext(ctx context.Context) (string, error)
	ClearContext(ctx context.Context) error
	Apply(ctx context.Context, code string, accept event.AcceptType) error
}

// New builds a Capability for the configured editor.
func New(e config.Editor) (Capability, error) {
	switch e {
	case config.EditorNone, "":
		return noneEditor{}, nil
	case config.EditorClipboard:
		return clipboardEditor{}, nil
	case config.EditorNeovim:
		addr := os.Getenv("NVIM_LISTEN_ADDRESS")
		return neovimEditor{addr: addr}, nil
	default:
		return nil, fmt.Errorf("editor: unknown editor %q", e)
	}
}

// noneEditor implements Capability as a pure no-op: Accept actions have
// nowhere to go, but the chat loop keeps working.
type noneEditor struct{}

func (noneEditor) HealthCheck(ctx context.Context) error        { return nil }
func (noneEditor) GetContext(ctx context.Context) (string, error) { return "", nil }
func (noneEditor) ClearContext(ctx context.Context) error        { return nil }
func (noneEditor) Apply(ctx context.Context, code string, accept event.AcceptType) error {
	return nil
}

// clipboardEditor treats the system clipboard as the "editor": Apply
// copies the code block text regardless of AcceptType, since there is no
// addressable buffer to append to or replace within.
type clipboardEditor struct{}

func (clipboardEditor) HealthCheck(ctx context.Context) error {
	if _, err := clipboard.ReadText(); err != nil {
		return fmt.Errorf("editor(clipboard): %w", err)
	}
	return nil
}

func (clipboardEditor) GetContext(ctx context.Context) (string, error) { return "", nil }
func (clipboardEditor) ClearContext(ctx context.Context) error        { return nil }

func (clipboardEditor) Apply(ctx context.Context, code string, accept event.AcceptType) error {
	if err := clipboard.CopyText(code); err != nil {
		return fmt.Errorf("editor(clipboard): apply: %w", err)
	}
	return nil
}

// neovimEditor talks to a running Neovim instance over its own
// --remote-expr/--remote-send CLI surface, addressed by
// NVIM_LISTEN_ADDRESS (set by Neovim itself, or by :terminal sessions that
// launch this client).
type neovimEditor struct {
	addr string
}

func (e neovimEditor) remote(ctx context.Context, args ...string) (string, error) {
	if e.addr == "" {
		return "", fmt.Errorf("editor(neovim): NVIM_LISTEN_ADDRESS is not set")
	}
	full := append([]string{"--server", e.addr}, args...)
	out, err := exec.CommandContext(ctx, "nvim", full...).Output()
	return string(out), err
}

func (e neovimEditor) HealthCheck(ctx context.Context) error {
	if _, err := e.remote(ctx, "--remote-expr", "1"); err != nil {
		return fmt.Errorf("editor(neovim): health check: %w", err)
	}
	return nil
}

// GetContext returns the current buffer's file path as a small
// human-readable string ("editing <path>") rather than a structured
// payload; the cursor position is not included.
func (e neovimEditor) GetContext(ctx context.Context) (string, error) {
	path, err := e.remote(ctx, "--remote-expr", "expand('%:p')")
	if err != nil {
		return "", fmt.Errorf("editor(neovim): get context: %w", err)
	}
	return fmt.Sprintf("editing %s", path), nil
}

func (e neovimEditor) ClearContext(ctx context.Context) error { return nil }

func (e neovimEditor) Apply(ctx context.Context, code string, accept event.AcceptType) error {
	var cmd string
	switch accept {
	case event.AcceptReplace:
		cmd = fmt.Sprintf(":normal! ggVGd\ni%s<Esc>", escapeNvimKeys(code))
	default:
		cmd = fmt.Sprintf(":normal! Go%s<Esc>", escapeNvimKeys(code))
	}
	if _, err := e.remote(ctx, "--remote-send", cmd); err != nil {
		return fmt.Errorf("editor(neovim): apply: %w", err)
	}
	return nil
}

// escapeNvimKeys guards against the injected code itself containing a
// literal <Esc> sequence that would terminate the --remote-send keys
// early.
func escapeNvimKeys(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '<' {
			out = append(out, '<', 'l', 't', '>')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
