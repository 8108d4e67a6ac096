package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tatianab/text-adventure/internal/action"
	"github.com/tatianab/text-adventure/internal/engine"
	"github.com/tatianab/text-adventure/internal/loader"
)

type scriptedBackend struct {
	replies  []string
	requests []engine.Request
}

func (b *scriptedBackend) Generate(ctx context.Context, req engine.Request) (string, error) {
	b.requests = append(b.requests, req)
	if len(b.replies) == 0 {
		return "", errors.New("script exhausted")
	}
	r := b.replies[0]
	b.replies = b.replies[1:]
	return r, nil
}

func newSimulation(gm, player *scriptedBackend, turns int) (simulation, *bytes.Buffer) {
	var out bytes.Buffer
	return simulation{
		gm:       gm,
		player:   player,
		maxTurns: turns,
		out:      &out,
		loaderOpts: loader.Options{
			SystemPrompt: "play the game",
		},
	}, &out
}

func TestSimulationPlaysUntilEndGame(t *testing.T) {
	gm := &scriptedBackend{replies: []string{
		"A lighthouse keeper hears knocking from below.",
		"Action:\ntype: NewScene\nname: Lantern Room\ndesc: The great lamp is dark.",
		"type: AddToInventory\nitem: matches\nmessage: You pocket the matches.",
		"```yaml\ntype: EndGame\nmessage: The lamp blazes and the knocking stops.\n```",
	}}
	player := &scriptedBackend{replies: []string{
		"haunted lighthouse",
		"take the matches",
		"light the lamp\nand wait",
	}}
	sim, out := newSimulation(gm, player, 10)

	res, err := sim.run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.turns)
	assert.True(t, res.over)
	assert.Equal(t, "Lantern Room", res.final.SceneTitle())
	assert.Equal(t, []string{"matches"}, res.final.Inventory())
	assert.Equal(t, []string{
		"> take the matches",
		"You pocket the matches.",
		"> light the lamp",
		"The lamp blazes and the knocking stops.",
	}, res.final.SceneHistory())

	require.Len(t, gm.requests, 4)
	assert.Contains(t, gm.requests[0].System, "haunted lighthouse")
	var last struct {
		Input string `yaml:"input"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(gm.requests[3].Prompt), &last))
	assert.Equal(t, "light the lamp", last.Input)
	assert.Contains(t, out.String(), "Player: take the matches")
}

func TestSimulationStopsAtMaxTurns(t *testing.T) {
	gm := &scriptedBackend{replies: []string{
		"A quiet village.",
		"type: NewScene\nname: Square\ndesc: A fountain.",
		"type: Information\nmessage: Nothing happens.",
	}}
	player := &scriptedBackend{replies: []string{"village", "wait"}}
	sim, _ := newSimulation(gm, player, 1)

	res, err := sim.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.turns)
	assert.False(t, res.over)
	assert.True(t, res.final.EntryEnabled())
}

func TestSimulationReportsMalformedReply(t *testing.T) {
	gm := &scriptedBackend{replies: []string{
		"A quiet village.",
		"type: NewScene\nname: Square\ndesc: A fountain.",
		"I don't understand.",
	}}
	player := &scriptedBackend{replies: []string{"village", "dance"}}
	sim, _ := newSimulation(gm, player, 5)

	res, err := sim.run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, action.ErrParse)
	assert.Equal(t, 1, res.turns)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "go north", firstLine("  go north  \nthen east"))
	assert.Equal(t, fallbackInput, firstLine("   "))
	assert.Equal(t, 100, len([]rune(firstLine(strings.Repeat("é", 150)))))
}
