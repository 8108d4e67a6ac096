// Command simulate_game plays the adventure headless. A second model acts as
// the player: it picks a theme, then reads each snapshot and decides what to
// type. Keystrokes go through the real dispatcher, so a run exercises the same
// path as a person at the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tatianab/text-adventure/internal/config"
	"github.com/tatianab/text-adventure/internal/dispatcher"
	"github.com/tatianab/text-adventure/internal/engine"
	"github.com/tatianab/text-adventure/internal/loader"
	"github.com/tatianab/text-adventure/internal/logging"
	"github.com/tatianab/text-adventure/internal/message"
	"github.com/tatianab/text-adventure/internal/models"
	"github.com/tatianab/text-adventure/internal/transcript"
)

const (
	defaultMaxTurns = 10
	fallbackInput   = "look around"
)

const themePrompt = "You are a player about to start a text-based adventure game. " +
	"Provide a short, creative hint for a game theme (e.g., 'steampunk underwater city', " +
	"'noir detective in a world of cats'). Return ONLY the theme string."

func main() {
	maxTurns := flag.Int("turns", defaultMaxTurns, "maximum number of player turns")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	systemPrompt, err := cfg.LoadSystemPrompt()
	if err != nil {
		log.Fatalf("Failed to load system prompt: %v", err)
	}

	logger, logFile, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer logFile.Close()

	tw, err := transcript.Open(cfg.TranscriptPath, logger)
	if err != nil {
		log.Fatalf("Failed to open transcript: %v", err)
	}
	defer tw.Close()

	eng, err := engine.NewEngine(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	sim := simulation{
		gm:       eng,
		player:   eng,
		model:    cfg.Model,
		maxTurns: *maxTurns,
		out:      os.Stdout,
		loaderOpts: loader.Options{
			Model:        cfg.Model,
			SystemPrompt: systemPrompt,
			Timeout:      cfg.RequestTimeout,
			Transcript:   tw,
			Logger:       logger,
		},
	}
	res, err := sim.run(ctx)
	if err != nil {
		log.Fatalf("Simulation failed after %d turns: %v", res.turns, err)
	}
	fmt.Printf("Finished after %d turns (over: %v)\n", res.turns, res.over)
}

// simulation drives one game. gm answers the loader; player chooses inputs.
type simulation struct {
	gm         loader.Backend
	player     loader.Backend
	model      string
	maxTurns   int
	out        io.Writer
	loaderOpts loader.Options
}

type result struct {
	turns int
	over  bool
	final *models.GameState
}

func (s simulation) run(ctx context.Context) (result, error) {
	var res result

	theme, err := s.ask(ctx, themePrompt)
	if err != nil {
		return res, fmt.Errorf("get theme: %w", err)
	}
	fmt.Fprintf(s.out, "--- Player chose theme: %s ---\n\n", theme)

	opts := s.loaderOpts
	opts.Theme = theme
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	gl, err := loader.New(s.gm, opts)
	if err != nil {
		return res, err
	}

	keysIn, keysOut := message.Unbounded[dispatcher.KeyEvent]()
	uiIn, uiOut := message.Unbounded[message.Message]()
	appIn, appOut := message.Unbounded[message.Message]()
	go func() {
		for range appOut {
		}
	}()

	d := dispatcher.New(gl, uiIn, appIn, opts.Logger)
	done := make(chan error, 1)
	go func() {
		done <- d.Run(ctx, keysOut)
	}()

	// stop ends the dispatcher and returns its error. Draining ui keeps the
	// remaining snapshots from piling up while it shuts down.
	stop := func() error {
		keysIn <- dispatcher.Press(dispatcher.KeyEscape)
		close(keysIn)
		for range uiOut {
		}
		return <-done
	}

	// Menu starts on New Game.
	keysIn <- dispatcher.Press(dispatcher.KeyEnter)
	game, err := settle(uiOut)
	if err != nil {
		return res, errors.Join(err, stop())
	}
	s.show(game)

	for res.turns < s.maxTurns && !game.Over() {
		input, err := s.ask(ctx, playerPrompt(game))
		if err != nil {
			return res, errors.Join(fmt.Errorf("get player input: %w", err), stop())
		}
		input = firstLine(input)
		res.turns++
		fmt.Fprintf(s.out, "--- Turn %d ---\nPlayer: %s\n", res.turns, input)

		for _, r := range input {
			keysIn <- dispatcher.PressRune(r)
		}
		keysIn <- dispatcher.Press(dispatcher.KeyEnter)

		if game, err = settle(uiOut); err != nil {
			return res, errors.Join(err, stop())
		}
		s.show(game)
	}

	res.over = game.Over()
	res.final = game
	return res, stop()
}

// settle waits for the snapshot that shows entry disabled, then for the
// first one after it where the turn has finished.
func settle(updates <-chan message.Message) (*models.GameState, error) {
	pending := false
	for m := range updates {
		update, ok := m.(message.StateUpdate)
		if !ok {
			return nil, errors.New("dispatcher terminated during the turn")
		}
		game, ok := update.Model.Game()
		if !ok {
			continue
		}
		if !game.EntryEnabled() && !pending && !game.Over() {
			pending = true
			continue
		}
		if pending && (game.EntryEnabled() || game.Over()) {
			return game, nil
		}
	}
	return nil, errors.New("dispatcher closed its updates")
}

func (s simulation) ask(ctx context.Context, prompt string) (string, error) {
	reply, err := s.player.Generate(ctx, engine.Request{Model: s.model, Prompt: prompt})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (s simulation) show(game *models.GameState) {
	fmt.Fprintf(s.out, "Scene: %s\n", game.SceneTitle())
	if h := game.SceneHistory(); len(h) > 0 {
		fmt.Fprintf(s.out, "GM: %s\n", h[len(h)-1])
	}
	fmt.Fprintf(s.out, "Inventory: %v\n\n", game.Inventory())
}

func playerPrompt(game *models.GameState) string {
	return fmt.Sprintf(`You are playing a text-based adventure game.
Current Location: %s
%s
Inventory: %v

Recent events:
%s

What is your next action? Be creative but stay within the world's logic. Return ONLY the action string, no extra commentary.`,
		game.SceneTitle(),
		game.SceneDesc(),
		game.Inventory(),
		strings.Join(game.SceneHistory(), "\n"),
	)
}

// firstLine keeps the reply typeable: one line that fits the entry.
func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	line = strings.TrimSpace(line)
	if r := []rune(line); len(r) > models.MaxEntryLength {
		line = strings.TrimSpace(string(r[:models.MaxEntryLength]))
	}
	if line == "" {
		return fallbackInput
	}
	return line
}
