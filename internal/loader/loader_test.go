package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/text-adventure/internal/action"
	"github.com/tatianab/text-adventure/internal/engine"
	"github.com/tatianab/text-adventure/internal/logging"
	"github.com/tatianab/text-adventure/internal/models"
	"github.com/tatianab/text-adventure/internal/transcript"
)

const premise = "A lighthouse keeper must relight the lamp before the storm."

type reply struct {
	text string
	err  error
}

// fakeBackend answers requests from a script, in order.
type fakeBackend struct {
	replies  []reply
	requests []engine.Request
}

func (f *fakeBackend) Generate(ctx context.Context, req engine.Request) (string, error) {
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		return "", errors.New("fake backend: script exhausted")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.text, r.err
}

func (f *fakeBackend) script(replies ...string) {
	for _, r := range replies {
		f.replies = append(f.replies, reply{text: r})
	}
}

type recordingTranscript struct {
	mu      sync.Mutex
	entries []transcript.Entry
}

func (r *recordingTranscript) Record(e transcript.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func newLoader(t *testing.T, backend Backend, tr Transcript) *GameLoader {
	t.Helper()
	l, err := New(backend, Options{
		Model:        "test-model",
		SystemPrompt: "Answer with one action.",
		Transcript:   tr,
		Logger:       logging.NewNop(),
	})
	require.NoError(t, err)
	return l
}

func information(i int) string {
	return fmt.Sprintf("type: Information\nmessage: line %d", i)
}

func TestNewRequiresSystemPrompt(t *testing.T) {
	_, err := New(&fakeBackend{}, Options{})
	assert.Error(t, err)

	_, err = New(nil, Options{SystemPrompt: "x"})
	assert.Error(t, err)
}

func TestCreateGame(t *testing.T) {
	backend := &fakeBackend{}
	backend.script("  " + premise + "\n")
	l := newLoader(t, backend, nil)

	overview, err := l.CreateGame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, premise, overview)
	assert.Equal(t, premise, l.Overview())

	require.Len(t, backend.requests, 1)
	req := backend.requests[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Contains(t, req.System, "text adventure")
	assert.NotContains(t, req.System, "asked for a game about")
}

func TestCreateGameWithTheme(t *testing.T) {
	backend := &fakeBackend{}
	backend.script(premise)
	l, err := New(backend, Options{SystemPrompt: "x", Theme: "haunted lighthouse", Logger: logging.NewNop()})
	require.NoError(t, err)

	_, err = l.CreateGame(context.Background())
	require.NoError(t, err)
	assert.Contains(t, backend.requests[0].System, "The player asked for a game about: haunted lighthouse")
	assert.Equal(t, engine.DefaultModel, backend.requests[0].Model)
}

func TestCreateGameFailures(t *testing.T) {
	boom := errors.New("connection refused")
	backend := &fakeBackend{replies: []reply{{err: boom}, {text: "   "}}}
	l := newLoader(t, backend, nil)

	_, err := l.CreateGame(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, boom)

	_, err = l.CreateGame(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
	assert.Empty(t, l.Overview())
}

func TestProcessInputBeforeCreateGame(t *testing.T) {
	backend := &fakeBackend{}
	l := newLoader(t, backend, nil)

	_, err := l.ProcessInput(context.Background(), "look", models.NewGameState())
	assert.ErrorIs(t, err, ErrNoPremise)
	assert.Empty(t, backend.requests)
}

func TestProcessInputStartGame(t *testing.T) {
	backend := &fakeBackend{}
	backend.script(premise, "Action:\n  type: NewScene\n  name: North\n  desc: A windswept gallery.")
	l := newLoader(t, backend, nil)
	_, err := l.CreateGame(context.Background())
	require.NoError(t, err)

	state := models.NewGameState()
	state.AddToInventory("matches")
	got, err := l.ProcessInput(context.Background(), "start game", state)
	require.NoError(t, err)
	assert.Equal(t, action.NewScene{Name: "North", Desc: "A windswept gallery."}, got)

	req := backend.requests[1]
	assert.Equal(t, "Answer with one action.", req.System)
	assert.Equal(t, "test-model", req.Model)

	var sent struct {
		Overview  string           `yaml:"overview"`
		Inventory []string         `yaml:"inventory"`
		History   []map[string]any `yaml:"history"`
		Input     string           `yaml:"input"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(req.Prompt), &sent))
	assert.Equal(t, premise, sent.Overview)
	assert.Equal(t, []string{"matches"}, sent.Inventory)
	assert.Empty(t, sent.History)
	assert.Equal(t, "start game", sent.Input)

	require.Len(t, l.History(), 1)
	assert.Equal(t, HistoryItem{Input: "start game", Action: got}, l.History()[0])
}

func TestContextCarriesHistoryAsActions(t *testing.T) {
	backend := &fakeBackend{}
	backend.script(premise,
		"type: AddToInventory\nitem: lamp\nmessage: You take the lamp.",
		information(2),
	)
	l := newLoader(t, backend, nil)
	_, err := l.CreateGame(context.Background())
	require.NoError(t, err)

	state := models.NewGameState()
	_, err = l.ProcessInput(context.Background(), "take lamp", state)
	require.NoError(t, err)
	state.AddToInventory("lamp")
	_, err = l.ProcessInput(context.Background(), "look", state)
	require.NoError(t, err)

	var raw struct {
		Inventory []string `yaml:"inventory"`
		History   []struct {
			Input  string    `yaml:"input"`
			Action yaml.Node `yaml:"action"`
		} `yaml:"history"`
		Input string `yaml:"input"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(backend.requests[2].Prompt), &raw))
	assert.Equal(t, []string{"lamp"}, raw.Inventory)
	require.Len(t, raw.History, 1)
	assert.Equal(t, "take lamp", raw.History[0].Input)

	actionYAML, err := yaml.Marshal(&raw.History[0].Action)
	require.NoError(t, err)
	a, err := action.Parse(string(actionYAML))
	require.NoError(t, err)
	assert.Equal(t, action.AddToInventory{Item: "lamp", Message: "You take the lamp."}, a)
	assert.Equal(t, "look", raw.Input)
}

func TestHistoryEvictsOldestFirst(t *testing.T) {
	backend := &fakeBackend{}
	backend.script(premise)
	const turns = HistoryCapacity + 1
	for i := 1; i <= turns; i++ {
		backend.script(information(i))
	}
	l := newLoader(t, backend, nil)
	_, err := l.CreateGame(context.Background())
	require.NoError(t, err)

	state := models.NewGameState()
	for i := 1; i <= turns; i++ {
		_, err := l.ProcessInput(context.Background(), fmt.Sprintf("input %d", i), state)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(l.History()), HistoryCapacity)
	}

	history := l.History()
	require.Len(t, history, HistoryCapacity)
	for i, item := range history {
		n := i + 2
		assert.Equal(t, fmt.Sprintf("input %d", n), item.Input)
		assert.Equal(t, action.Information{Message: fmt.Sprintf("line %d", n)}, item.Action)
	}
}

func TestMalformedReplyIsParseFailure(t *testing.T) {
	backend := &fakeBackend{}
	backend.script(premise, information(1), "You walk north into the fog.")
	l := newLoader(t, backend, nil)
	_, err := l.CreateGame(context.Background())
	require.NoError(t, err)

	_, err = l.ProcessInput(context.Background(), "look", models.NewGameState())
	require.NoError(t, err)

	got, err := l.ProcessInput(context.Background(), "go north", models.NewGameState())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, action.ErrParse)
	assert.NotErrorIs(t, err, ErrTransport)
	require.Len(t, l.History(), 1, "failed turns are not remembered")
}

func TestTransportFailureIsNotRetried(t *testing.T) {
	boom := errors.New("503 service unavailable")
	backend := &fakeBackend{}
	backend.script(premise)
	backend.replies = append(backend.replies, reply{err: boom})
	l := newLoader(t, backend, nil)
	_, err := l.CreateGame(context.Background())
	require.NoError(t, err)

	_, err = l.ProcessInput(context.Background(), "look", models.NewGameState())
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, action.ErrParse)
	assert.Len(t, backend.requests, 2)
	assert.Empty(t, l.History())
}

func TestCreateGameResetsHistory(t *testing.T) {
	backend := &fakeBackend{}
	backend.script(premise, information(1), "A different premise.")
	l := newLoader(t, backend, nil)
	_, err := l.CreateGame(context.Background())
	require.NoError(t, err)
	_, err = l.ProcessInput(context.Background(), "look", models.NewGameState())
	require.NoError(t, err)
	require.Len(t, l.History(), 1)

	_, err = l.CreateGame(context.Background())
	require.NoError(t, err)
	assert.Empty(t, l.History())
	assert.Equal(t, "A different premise.", l.Overview())
}

func TestTranscriptRecordsEveryExchange(t *testing.T) {
	tr := &recordingTranscript{}
	backend := &fakeBackend{}
	backend.script(premise, information(1))
	backend.replies = append(backend.replies, reply{err: errors.New("timeout")})
	l := newLoader(t, backend, tr)

	_, err := l.CreateGame(context.Background())
	require.NoError(t, err)
	_, err = l.ProcessInput(context.Background(), "look", models.NewGameState())
	require.NoError(t, err)
	_, err = l.ProcessInput(context.Background(), "wait", models.NewGameState())
	require.Error(t, err)

	var directions []transcript.Direction
	for _, e := range tr.entries {
		directions = append(directions, e.Direction)
	}
	assert.Equal(t, []transcript.Direction{
		transcript.Request, transcript.Reply,
		transcript.Request, transcript.Reply,
		transcript.Request, transcript.Failure,
	}, directions)
	assert.Equal(t, premise, tr.entries[1].Text)
	assert.Equal(t, information(1), tr.entries[3].Text)
	assert.Equal(t, 1, tr.entries[2].Turn)
}
