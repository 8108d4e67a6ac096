// Package loader turns what the player typed into a validated action by
// consulting the generative backend. It keeps the request bounded by sending
// only the premise, the current inventory and the most recent turns.
package loader

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"text/template"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/text-adventure/internal/action"
	"github.com/tatianab/text-adventure/internal/engine"
	"github.com/tatianab/text-adventure/internal/models"
	"github.com/tatianab/text-adventure/internal/telemetry"
	"github.com/tatianab/text-adventure/internal/transcript"
)

//go:embed prompts/create_game.txt
var createGamePrompt string

var createGameTmpl = template.Must(template.New("create_game").Parse(createGamePrompt))

// HistoryCapacity is how many past turns are sent with each request.
const HistoryCapacity = 12

const createGameInput = "Create the game."

var (
	// ErrTransport wraps every failure of the backend call itself.
	ErrTransport = errors.New("loader: backend request failed")
	// ErrNoPremise is returned by ProcessInput before CreateGame succeeded.
	ErrNoPremise = errors.New("loader: game has not been created")
)

// Backend is the generative text service.
type Backend interface {
	Generate(ctx context.Context, req engine.Request) (string, error)
}

// Transcript receives every request and reply. Implementations must not block.
type Transcript interface {
	Record(e transcript.Entry)
}

// HistoryItem is one past turn: what the player typed and what it caused.
type HistoryItem struct {
	Input  string        `yaml:"input"`
	Action action.Action `yaml:"action"`
}

// Context is the request body of a gameplay turn. It is built per request
// and never kept.
type Context struct {
	Overview  string        `yaml:"overview"`
	Inventory []string      `yaml:"inventory"`
	History   []HistoryItem `yaml:"history"`
	Input     string        `yaml:"input"`
}

// Options configures a GameLoader. SystemPrompt is required.
type Options struct {
	Model        string
	SystemPrompt string
	// Theme is an optional hint passed to premise creation.
	Theme string
	// Timeout bounds each backend call. Zero means no deadline.
	Timeout    time.Duration
	Transcript Transcript
	Logger     *slog.Logger
}

type nopTranscript struct{}

func (nopTranscript) Record(transcript.Entry) {}

// GameLoader is used from a single goroutine, the dispatcher's.
type GameLoader struct {
	backend Backend
	opts    Options
	tracer  trace.Tracer

	overview string
	history  []HistoryItem
	turn     int
}

func New(backend Backend, opts Options) (*GameLoader, error) {
	if backend == nil {
		return nil, errors.New("loader: backend is required")
	}
	if strings.TrimSpace(opts.SystemPrompt) == "" {
		return nil, errors.New("loader: system prompt is required")
	}
	if opts.Model == "" {
		opts.Model = engine.DefaultModel
	}
	if opts.Transcript == nil {
		opts.Transcript = nopTranscript{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &GameLoader{
		backend: backend,
		opts:    opts,
		tracer:  telemetry.Tracer("loader"),
	}, nil
}

// CreateGame asks the backend for the premise of a new game and forgets any
// previous game's history.
func (l *GameLoader) CreateGame(ctx context.Context) (string, error) {
	ctx, span := l.tracer.Start(ctx, "loader.create_game")
	defer span.End()

	var buf bytes.Buffer
	if err := createGameTmpl.Execute(&buf, struct{ Hint string }{Hint: l.opts.Theme}); err != nil {
		return "", l.fail(span, fmt.Errorf("render create game prompt: %w", err))
	}

	l.overview = ""
	l.history = nil
	l.turn = 0

	reply, err := l.call(ctx, engine.Request{
		Model:  l.opts.Model,
		System: buf.String(),
		Prompt: createGameInput,
	})
	if err != nil {
		return "", l.fail(span, err)
	}
	overview := strings.TrimSpace(reply)
	if overview == "" {
		return "", l.fail(span, fmt.Errorf("%w: empty premise", ErrTransport))
	}

	l.overview = overview
	span.SetAttributes(attribute.Int("premise.length", len(overview)))
	l.opts.Logger.Info("game created", "model", l.opts.Model, "premise_length", len(overview))
	return overview, nil
}

// ProcessInput sends one turn to the backend and returns the action it
// chose. Transport and parse failures are returned unchanged in kind and
// leave the history untouched; nothing is retried.
func (l *GameLoader) ProcessInput(ctx context.Context, input string, state *models.GameState) (action.Action, error) {
	ctx, span := l.tracer.Start(ctx, "loader.process_input",
		trace.WithAttributes(attribute.Int("history.size", len(l.history))))
	defer span.End()

	if l.overview == "" {
		return nil, l.fail(span, ErrNoPremise)
	}

	body, err := yaml.Marshal(l.context(input, state))
	if err != nil {
		return nil, l.fail(span, fmt.Errorf("marshal context: %w", err))
	}

	l.turn++
	reply, err := l.call(ctx, engine.Request{
		Model:  l.opts.Model,
		System: l.opts.SystemPrompt,
		Prompt: string(body),
	})
	if err != nil {
		return nil, l.fail(span, err)
	}

	a, err := action.ParseReply(reply)
	if err != nil {
		return nil, l.fail(span, fmt.Errorf("turn %d: %w", l.turn, err))
	}

	l.remember(input, a)
	span.SetAttributes(attribute.String("action.type", string(a.Kind())))
	l.opts.Logger.Debug("turn resolved",
		"turn", l.turn, "input", input, "action", a.Kind(), "history", len(l.history))
	return a, nil
}

// History returns a copy of the remembered turns, oldest first.
func (l *GameLoader) History() []HistoryItem {
	return slices.Clone(l.history)
}

// Overview returns the premise of the current game.
func (l *GameLoader) Overview() string {
	return l.overview
}

func (l *GameLoader) context(input string, state *models.GameState) Context {
	inventory := []string{}
	if state != nil {
		inventory = append(inventory, state.Inventory()...)
	}
	return Context{
		Overview:  l.overview,
		Inventory: inventory,
		History:   slices.Clone(l.history),
		Input:     input,
	}
}

// remember appends a turn and drops the oldest ones past HistoryCapacity.
func (l *GameLoader) remember(input string, a action.Action) {
	l.history = append(l.history, HistoryItem{Input: input, Action: a})
	if over := len(l.history) - HistoryCapacity; over > 0 {
		l.history = slices.Delete(l.history, 0, over)
	}
}

func (l *GameLoader) call(ctx context.Context, req engine.Request) (string, error) {
	if l.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
		defer cancel()
	}

	l.opts.Transcript.Record(transcript.Entry{
		Direction: transcript.Request,
		Turn:      l.turn,
		Model:     req.Model,
		System:    req.System,
		Text:      req.Prompt,
	})

	reply, err := l.backend.Generate(ctx, req)
	if err != nil {
		l.opts.Transcript.Record(transcript.Entry{
			Direction: transcript.Failure,
			Turn:      l.turn,
			Text:      err.Error(),
		})
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}

	l.opts.Transcript.Record(transcript.Entry{
		Direction: transcript.Reply,
		Turn:      l.turn,
		Text:      reply,
	})
	return reply, nil
}

func (l *GameLoader) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	l.opts.Logger.Error("backend turn failed", "turn", l.turn, "error", err)
	return err
}
