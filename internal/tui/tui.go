package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/pokewatcher/internal/engine"
	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/properties"
)

type sessionState int

const (
	stateWatching sessionState = iota
	stateFinished
	stateError
)

// Feed hands notifications to the dashboard, which applies them on its own
// goroutine. It satisfies replay.Handler.
type Feed chan properties.Notification

func (f Feed) Handle(n properties.Notification) error {
	f <- n
	return nil
}

// eventLog is shared by the bus subscribers and every copy of the model.
type eventLog struct {
	lines []string
}

func (l *eventLog) add(style lipgloss.Style, format string, args ...any) {
	l.lines = append(l.lines, style.Render(fmt.Sprintf(format, args...)))
}

type model struct {
	state     sessionState
	engine    *engine.Engine
	feed      <-chan properties.Notification
	narration <-chan string
	log       *eventLog
	viewport  viewport.Model
	err       error
	handled   int
	width     int
	height    int
}

var (
	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	signalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	narrationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87D787")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true)
)

// NewModel subscribes the dashboard to the engine's bus. narration may be nil.
func NewModel(eng *engine.Engine, feed <-chan properties.Notification, narration <-chan string) model {
	l := &eventLog{}
	bus := eng.Bus()

	bus.StateChanged.Watch(func(t event.Transition) {
		l.add(eventStyle, "%s -> %s (%s)", t.From, t.To, t.Var)
	})
	bus.MapChanged.Watch(func(c event.MapChange) {
		l.add(eventStyle, "moved to %s", c.Next)
	})
	signals := bus.Signals()
	names := make([]string, 0, len(signals))
	for name := range signals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		label := strings.TrimPrefix(name, "on_")
		signals[name].On(func() { l.add(signalStyle, "%s", label) })
	}

	return model{
		state:     stateWatching,
		engine:    eng,
		feed:      feed,
		narration: narration,
		log:       l,
		viewport:  viewport.New(60, 20),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.nextNotification(), m.nextNarration())
}

type notificationMsg struct {
	n properties.Notification
}

type feedClosedMsg struct{}

type narrationMsg struct {
	line string
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.65)
		m.viewport.Height = msg.Height - 4
		m.refresh()

	case notificationMsg:
		if m.state != stateWatching {
			return m, nil
		}
		m.handled++
		if err := m.engine.Handle(msg.n); err != nil {
			m.err = err
			m.state = stateError
			m.log.add(errorStyle, "session stopped: %v", err)
			m.refresh()
			// Run reports the error once the program exits.
			return m, tea.Quit
		}
		m.refresh()
		return m, m.nextNotification()

	case feedClosedMsg:
		if m.state == stateWatching {
			m.state = stateFinished
			m.log.add(helpStyle, "feed ended after %d notifications", m.handled)
			m.refresh()
		}
		return m, nil

	case narrationMsg:
		m.log.add(narrationStyle, "%s", msg.line)
		m.refresh()
		return m, m.nextNarration()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *model) refresh() {
	m.viewport.SetContent(strings.Join(m.log.lines, "\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)

	var footer string
	switch m.state {
	case stateWatching:
		footer = helpStyle.Render("Watching... Esc to quit.")
	case stateFinished:
		footer = helpStyle.Render("Feed ended. Esc to quit.")
	case stateError:
		footer = errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n" + helpStyle.Render("Press Esc to quit.")
	}

	return "\n" + lipgloss.JoinVertical(lipgloss.Left, mainView, "\n"+footer) + "\n"
}

func (m model) renderState() string {
	data := m.engine.Data()
	game := m.engine.Game()

	var b strings.Builder
	b.WriteString(titleStyle.Render("GAME") + "\n")
	fmt.Fprintf(&b, "%s (%s)\n%s\n\n", game.Name, game.Family, m.engine.State().Name())

	b.WriteString(titleStyle.Render("LOCATION") + "\n")
	location := data.Location.Get()
	if location == "" {
		location = "(unknown)"
	}
	b.WriteString(location + "\n\n")

	snap := data.Snapshot()
	b.WriteString(titleStyle.Render("PLAYER") + "\n")
	fmt.Fprintf(&b, "%s #%05d\nMoney: %d\nBadges: %d\nTime: %s\n", snap.Name, snap.ID, snap.Money, snap.Badges, snap.PlayTime)
	for _, mon := range snap.Team {
		fmt.Fprintf(&b, "- %s L%d\n", mon.Species, mon.Level)
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("BATTLE") + "\n")
	battle := data.Battle
	switch {
	case !battle.Ongoing.Get():
		fmt.Fprintf(&b, "none (last: %s)\n", battle.Result.Get())
	case battle.VsWild.Get():
		fmt.Fprintf(&b, "wild %s\n", battle.Enemy.Species.Get())
	default:
		fmt.Fprintf(&b, "%s with %s\n", battle.Trainer.Class.Get(), battle.Enemy.Species.Get())
	}

	stateWidth := int(float64(m.width) * 0.33)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(b.String())
}

func (m model) nextNotification() tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		n, ok := <-feed
		if !ok {
			return feedClosedMsg{}
		}
		return notificationMsg{n}
	}
}

func (m model) nextNarration() tea.Cmd {
	if m.narration == nil {
		return nil
	}
	narration := m.narration
	return func() tea.Msg {
		line, ok := <-narration
		if !ok {
			return nil
		}
		return narrationMsg{line}
	}
}

// Run shows the dashboard until the user quits. It returns the error that
// stopped the session, if any.
func Run(eng *engine.Engine, feed <-chan properties.Notification, narration <-chan string, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewModel(eng, feed, narration), opts...)
	final, err := p.Run()
	if err != nil {
		return err
	}
	return sessionErr(final)
}

// sessionErr is the error that stopped the final model, whether it came from
// decoding, storing or the state machine.
func sessionErr(final tea.Model) error {
	m, ok := final.(model)
	if !ok {
		return nil
	}
	if m.err != nil {
		return m.err
	}
	return m.engine.Err()
}
