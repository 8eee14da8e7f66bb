// Package narrator asks Gemini for a one-line commentary after each battle.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/models"
	"google.golang.org/api/option"
)

//go:embed prompts/battle.txt
var battlePrompt string

var battleTemplate = template.Must(template.New("battle").Parse(battlePrompt))

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini is the Generator backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: client.GenerativeModel(model)}, nil
}

func (g *Gemini) Close() {
	g.client.Close()
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return string(text), nil
}

// Battle is what the prompt knows about a finished battle.
type Battle struct {
	Game     string
	Player   string
	Location string
	Trainer  string
	Opponent string
	Result   string
	PlayTime string
	Champion bool
	Team     []models.MonSnapshot
}

// Capture copies the battle out of data. It must run inside the event
// handler, before the game data moves on.
func Capture(game string, data *models.GameData, champion bool) Battle {
	snap := data.Snapshot()
	b := Battle{
		Game:     game,
		Player:   snap.Name,
		Location: snap.Location,
		Opponent: data.Battle.Enemy.Species.Get(),
		Result:   data.Battle.Result.Get().String(),
		PlayTime: snap.PlayTime,
		Champion: champion,
		Team:     snap.Team,
	}
	if !data.Battle.VsWild.Get() {
		b.Trainer = data.Battle.Trainer.Class.Get()
	}
	return b
}

func BuildPrompt(b Battle) (string, error) {
	var buf bytes.Buffer
	if err := battleTemplate.Execute(&buf, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// cleanLine keeps the first line of a response without markdown or quotes.
func cleanLine(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.Trim(text, "\"*_ ")
	return text
}

// Narrator requests commentary in the background and delivers the lines on
// Lines. Lines that arrive while the channel is full are dropped.
type Narrator struct {
	ctx    context.Context
	gen    Generator
	game   string
	data   *models.GameData
	logger *log.Logger
	lines  chan string
	wg     sync.WaitGroup
}

func New(ctx context.Context, gen Generator, game string, data *models.GameData, logger *log.Logger) *Narrator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Narrator{
		ctx:    ctx,
		gen:    gen,
		game:   game,
		data:   data,
		logger: logger,
		lines:  make(chan string, 8),
	}
}

func (n *Narrator) Subscribe(bus *event.Bus) {
	bus.BattleEnded.On(func() { n.comment(Capture(n.game, n.data, false)) })
	bus.ChampionVictory.On(func() { n.comment(Capture(n.game, n.data, true)) })
}

func (n *Narrator) Lines() <-chan string {
	return n.lines
}

// Close waits for pending requests and closes Lines.
func (n *Narrator) Close() {
	n.wg.Wait()
	close(n.lines)
}

func (n *Narrator) comment(b Battle) {
	prompt, err := BuildPrompt(b)
	if err != nil {
		n.logger.Printf("narrator: %v", err)
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		text, err := n.gen.Generate(n.ctx, prompt)
		if err != nil {
			n.logger.Printf("narrator: %v", err)
			return
		}
		line := cleanLine(text)
		if line == "" {
			return
		}
		select {
		case n.lines <- line:
		default:
			n.logger.Printf("narrator: dropped %q", line)
		}
	}()
}
