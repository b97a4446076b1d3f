package slash

import (
	"context"
	"strings"
	"testing"

	"github.com/samsaffron/oatmeal/internal/chat/event"
	"github.com/samsaffron/oatmeal/internal/chat/msg"
	"github.com/samsaffron/oatmeal/internal/llm"
)

type fakeProvider struct {
	models []llm.ModelInfo
	err    error
}

func (p *fakeProvider) Name() string { return "fake" }
func (p *fakeProvider) HealthCheck(ctx context.Context) error { return nil }
func (p *fakeProvider) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	return p.models, p.err
}
func (p *fakeProvider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	return nil, nil
}

type fakeState struct {
	provider      llm.Provider
	modelName     string
	systemLog     []string
	codeBlocks    []msg.CodeBlock
	editorContext string
}

func (s *fakeState) Provider() llm.Provider   { return s.provider }
func (s *fakeState) ModelName() string        { return s.modelName }
func (s *fakeState) SetModelName(name string) { s.modelName = name }
func (s *fakeState) AppendSystemMessage(text string) {
	s.systemLog = append(s.systemLog, text)
}
func (s *fakeState) AllCodeBlocks() []msg.CodeBlock { return s.codeBlocks }
func (s *fakeState) EditorContext() string          { return s.editorContext }

func (s *fakeState) lastMessage() string {
	if len(s.systemLog) == 0 {
		return ""
	}
	return s.systemLog[len(s.systemLog)-1]
}

func TestIsCommand(t *testing.T) {
	cases := map[string]bool{
		"/quit":     true,
		"  /help  ": true,
		"hello":     false,
		"":          false,
	}
	for input, want := range cases {
		if got := IsCommand(input); got != want {
			t.Errorf("IsCommand(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestExecuteQuit(t *testing.T) {
	st := &fakeState{}
	result := Execute(st, "/quit")
	if !result.ShouldBreak {
		t.Fatal("expected ShouldBreak")
	}
}

func TestExecuteHelp(t *testing.T) {
	st := &fakeState{}
	result := Execute(st, "/help")
	if !result.ShouldConsume {
		t.Fatal("expected ShouldConsume")
	}
	if !strings.Contains(st.lastMessage(), "/quit") {
		t.Fatalf("help text missing /quit: %q", st.lastMessage())
	}
}

func TestExecuteModel(t *testing.T) {
	st := &fakeState{modelName: "gpt-4o"}
	Execute(st, "/model gpt-4o-mini")
	if st.modelName != "gpt-4o-mini" {
		t.Fatalf("modelName = %q, want gpt-4o-mini", st.modelName)
	}

	st2 := &fakeState{modelName: "gpt-4o"}
	Execute(st2, "/model")
	if st2.modelName != "gpt-4o" {
		t.Fatal("missing argument should not change the model")
	}
	if !strings.Contains(st2.lastMessage(), "usage") {
		t.Fatalf("expected usage message, got %q", st2.lastMessage())
	}
}

func TestExecuteModelList(t *testing.T) {
	st := &fakeState{provider: &fakeProvider{models: []llm.ModelInfo{{ID: "gpt-4o"}, {ID: "gpt-4o-mini"}}}}
	Execute(st, "/modellist")
	msg := st.lastMessage()
	if !strings.Contains(msg, "gpt-4o") || !strings.Contains(msg, "gpt-4o-mini") {
		t.Fatalf("model list missing entries: %q", msg)
	}
}

func TestExecuteAppendAndReplace(t *testing.T) {
	blocks := []msg.CodeBlock{{Index: 1, Language: "go", Code: "fmt.Println(1)"}}
	st := &fakeState{codeBlocks: blocks, editorContext: "ctx"}

	result := Execute(st, "/append 1")
	if result.Action == nil {
		t.Fatal("expected an Action")
	}
	if result.Action.AcceptType != event.AcceptAppend {
		t.Fatalf("AcceptType = %v, want AcceptAppend", result.Action.AcceptType)
	}
	if result.Action.Code != blocks[0].Code {
		t.Fatalf("Code = %q, want %q", result.Action.Code, blocks[0].Code)
	}

	result = Execute(st, "/replace 1")
	if result.Action == nil || result.Action.AcceptType != event.AcceptReplace {
		t.Fatal("expected an AcceptReplace Action")
	}
}

func TestExecuteUnknownBlockNumber(t *testing.T) {
	st := &fakeState{codeBlocks: []msg.CodeBlock{{Index: 1}}}
	result := Execute(st, "/append 9")
	if result.Action != nil {
		t.Fatal("expected no Action for an unknown block number")
	}
	if !strings.Contains(st.lastMessage(), "no code block") {
		t.Fatalf("expected 'no code block' message, got %q", st.lastMessage())
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	st := &fakeState{}
	Execute(st, "/frobnicate")
	if !strings.Contains(st.lastMessage(), "unknown command") {
		t.Fatalf("expected unknown-command message, got %q", st.lastMessage())
	}
}
