// Package dispatcher owns the game model. It reads key events, runs the
// input state machine, applies the actions chosen by the loader and publishes
// a snapshot of the model after every handled key.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tatianab/text-adventure/internal/action"
	"github.com/tatianab/text-adventure/internal/message"
	"github.com/tatianab/text-adventure/internal/models"
	"github.com/tatianab/text-adventure/internal/telemetry"
)

// StartInput is the implicit first turn of every new game.
const StartInput = "start game"

const (
	scrollLine = 1
	scrollPage = 10
)

// ErrMenuOptionUnavailable is returned when the player picks a menu option
// that has no implementation.
var ErrMenuOptionUnavailable = errors.New("dispatcher: main menu option not implemented")

// Loader produces the action for each turn.
type Loader interface {
	CreateGame(ctx context.Context) (string, error)
	ProcessInput(ctx context.Context, input string, state *models.GameState) (action.Action, error)
}

type Dispatcher struct {
	loader Loader
	ui     chan<- message.Message
	app    chan<- message.Message
	log    *slog.Logger
	tracer trace.Tracer

	model models.Model
}

// New returns a Dispatcher on the main menu. ui receives every snapshot and
// the final Terminate; app only receives Terminate. The Dispatcher is the only
// sender on both and closes them when Run returns.
func New(loader Loader, ui, app chan<- message.Message, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		loader: loader,
		ui:     ui,
		app:    app,
		log:    log,
		tracer: telemetry.Tracer("dispatcher"),
		model:  models.NewMainMenuModel(),
	}
}

// Run handles key events until the player exits, keys is closed, ctx is
// cancelled or a turn fails. Every return broadcasts Terminate to both
// channels first. Only fatal conditions return a non-nil error.
func (d *Dispatcher) Run(ctx context.Context, keys <-chan KeyEvent) error {
	defer d.terminate()

	d.publish()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case key, ok := <-keys:
			if !ok {
				d.log.Info("key source closed")
				return nil
			}
			if key.Kind != KeyPress {
				continue
			}
			exit, err := d.handleKey(ctx, key)
			if err != nil {
				return err
			}
			if exit {
				d.log.Info("player exited")
				return nil
			}
			d.publish()
		}
	}
}

func (d *Dispatcher) handleKey(ctx context.Context, key KeyEvent) (exit bool, err error) {
	if menu, ok := d.model.MainMenu(); ok {
		return d.handleMenuKey(ctx, menu, key)
	}
	if game, ok := d.model.Game(); ok {
		return d.handleGameKey(ctx, game, key)
	}
	return false, nil
}

func (d *Dispatcher) handleMenuKey(ctx context.Context, menu *models.MainMenuState, key KeyEvent) (bool, error) {
	switch {
	case key.Code == KeyDown, key.Code == KeyRune && key.Rune == 'j':
		menu.SelectNext()
	case key.Code == KeyUp, key.Code == KeyRune && key.Rune == 'k':
		menu.SelectPrev()
	case key.Code == KeyEscape:
		return true, nil
	case key.Code == KeyEnter:
		switch option := menu.Selection(); option {
		case models.OptionNewGame:
			return false, d.startGame(ctx)
		case models.OptionQuit:
			return true, nil
		default:
			return false, fmt.Errorf("%w: %q", ErrMenuOptionUnavailable, option)
		}
	}
	return false, nil
}

// startGame switches to a fresh game, creates its premise and plays the
// implicit first turn.
func (d *Dispatcher) startGame(ctx context.Context) error {
	ctx, span := d.tracer.Start(ctx, "dispatcher.start_game")
	defer span.End()

	state := models.NewGameState()
	state.DisableEntry()
	d.model = models.NewGameModel(state)
	d.log.Info("new game")
	d.publish()

	if _, err := d.loader.CreateGame(ctx); err != nil {
		return fmt.Errorf("create game: %w", err)
	}
	a, err := d.loader.ProcessInput(ctx, StartInput, state)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	span.SetAttributes(attribute.String("action.type", string(a.Kind())))
	Apply(state, a)
	return nil
}

func (d *Dispatcher) handleGameKey(ctx context.Context, game *models.GameState, key KeyEvent) (bool, error) {
	switch key.Code {
	case KeyEscape:
		return true, nil
	case KeyUp:
		game.ScrollUp(scrollLine)
		return false, nil
	case KeyDown:
		game.ScrollDown(scrollLine)
		return false, nil
	case KeyPageUp:
		game.ScrollUp(scrollPage)
		return false, nil
	case KeyPageDown:
		game.ScrollDown(scrollPage)
		return false, nil
	}

	if !game.EntryEnabled() {
		return false, nil
	}
	switch key.Code {
	case KeyRune:
		if unicode.IsPrint(key.Rune) {
			game.AppendEntry(key.Rune)
		}
	case KeyBackspace:
		game.RemoveLastEntry()
	case KeyEnter:
		if strings.TrimSpace(game.UserEntry()) == "" {
			return false, nil
		}
		return false, d.playTurn(ctx, game)
	}
	return false, nil
}

// playTurn sends the input line to the loader and applies its action. The
// snapshot published before the call shows input disabled while the backend
// is working.
func (d *Dispatcher) playTurn(ctx context.Context, game *models.GameState) error {
	input := game.UserEntry()
	ctx, span := d.tracer.Start(ctx, "dispatcher.turn", trace.WithAttributes(attribute.Int("input.length", len(input))))
	defer span.End()

	game.DisableEntry()
	d.publish()

	a, err := d.loader.ProcessInput(ctx, input, game)
	if err != nil {
		return fmt.Errorf("process input: %w", err)
	}
	game.PushInputToHistory()
	Apply(game, a)

	span.SetAttributes(attribute.String("action.type", string(a.Kind())))
	if game.Over() {
		d.log.Info("game over", "scene", game.SceneTitle())
	}
	return nil
}

// Apply performs the effect of a on state.
func Apply(state *models.GameState, a action.Action) {
	switch a := a.(type) {
	case action.NewScene:
		state.NewScene(a.Name, a.Desc)
		return
	case action.AddToInventory:
		state.AddToInventory(a.Item)
	case action.RemoveFromInventory:
		state.RemoveFromInventory(a.Item)
	case action.Information, action.EndGame:
	default:
		panic(fmt.Sprintf("dispatcher: unhandled action %T", a))
	}

	if line, ok := action.Narration(a); ok {
		state.AppendSceneHistory(line)
	}
	if _, over := a.(action.EndGame); over {
		state.End()
		return
	}
	state.EnableEntry()
}

func (d *Dispatcher) publish() {
	d.ui <- message.StateUpdate{Model: d.model.Snapshot()}
}

func (d *Dispatcher) terminate() {
	d.ui <- message.Terminate{}
	d.app <- message.Terminate{}
	close(d.ui)
	close(d.app)
}
