package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhoward/scout/internal/debounce"
	"github.com/nhoward/scout/internal/facets"
	"github.com/nhoward/scout/internal/query"
	"github.com/nhoward/scout/internal/reactor"
)

// focusArea identifies which region receives non-global keys.
type focusArea int

const (
	focusQuery focusArea = iota
	focusChips
	focusRefine
)

// Options configures the App.
type Options struct {
	DebounceDelay  time.Duration
	MinQueryLength int
	ShowScores     bool
}

// App is the root Bubble Tea model. It owns no search state of its own;
// canonical state lives in the reactor and arrives via StateChanged
// messages. The app only tracks presentation concerns: focus, cursors and
// the two typing gates.
type App struct {
	ctx     context.Context
	reactor *reactor.Reactor
	events  <-chan reactor.Event

	queryInput  textinput.Model
	refineInput textinput.Model
	gate        *debounce.Gate // primary query gate
	optionsGate *debounce.Gate // advanced options gate (topK / minScore)

	topK     int
	minScore float64

	focus   focusArea
	catIdx  int
	chipIdx int
	cursor  int

	st         reactor.State
	chips      map[string][]facets.Chip
	link       string
	showScores bool

	width  int
	height int
	ready  bool
}

// NewApp wires the TUI to an already constructed reactor.
func NewApp(ctx context.Context, r *reactor.Reactor, opts Options) App {
	qi := textinput.New()
	qi.Placeholder = "Search candidates..."
	qi.Prompt = "> "
	qi.PromptStyle = lipgloss.NewStyle().Foreground(colorHighlight).Bold(true)
	qi.CharLimit = 120
	qi.Focus()

	ri := textinput.New()
	ri.Placeholder = "Refine loaded results..."
	ri.Prompt = "/ "
	ri.PromptStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	ri.CharLimit = 80

	return App{
		ctx:         ctx,
		reactor:     r,
		events:      r.Subscribe(),
		queryInput:  qi,
		refineInput: ri,
		gate:        debounce.New(opts.DebounceDelay, opts.MinQueryLength),
		optionsGate: debounce.New(opts.DebounceDelay, opts.MinQueryLength),
		topK:        query.DefaultTopK,
		minScore:    query.DefaultMinScore,
		chips:       make(map[string][]facets.Chip),
		showScores:  opts.ShowScores,
		st:          r.Snapshot(),
	}
}

// Init starts the cursor blink and the reactor event pump.
func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.waitForEvent())
}

// waitForEvent blocks on the reactor's event channel and re-enters the
// update loop with the next state change.
func (a App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.events
		if !ok {
			return nil
		}
		return StateChanged{Event: ev}
	}
}

// Update handles messages.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.queryInput.Width = msg.Width - 6
		a.refineInput.Width = msg.Width - 6
		a.ready = true
		return a, nil

	case QueryDebounceFired:
		d, ok := a.gate.Fire(msg.Rev)
		if !ok {
			return a, nil // superseded by a newer keystroke
		}
		switch d.Action {
		case debounce.ActionClear:
			a.reactor.Clear()
		case debounce.ActionRun:
			a.dispatch(d.Text)
		}
		return a, nil

	case OptionsDebounceFired:
		d, ok := a.optionsGate.Fire(msg.Rev)
		if !ok {
			return a, nil
		}
		// Options changes only re-search when there is a runnable query.
		if d.Action == debounce.ActionRun {
			a.dispatch(d.Text)
		}
		return a, nil

	case StateChanged:
		a.refresh()
		return a, a.waitForEvent()

	case LocationChanged:
		a.link = msg.QueryString
		return a, nil
	}

	return a, nil
}

// handleKey processes keyboard input. Global bindings first, then the
// focused region.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "tab":
		a.cycleFocus()
		return a, nil

	case "ctrl+r":
		if a.reactor.RestoreFromCache() {
			a.refresh()
		}
		return a, nil

	case "ctrl+x":
		a.queryInput.SetValue("")
		a.refineInput.SetValue("")
		a.reactor.Clear()
		return a, nil

	case "up":
		if a.focus == focusChips {
			a.prevCategory()
		} else if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "down":
		if a.focus == focusChips {
			a.nextCategory()
		} else if a.cursor < len(a.st.Results)-1 {
			a.cursor++
		}
		return a, nil

	case "ctrl+k":
		a.topK += 5
		return a, a.bumpOptions()

	case "ctrl+j":
		if a.topK > 5 {
			a.topK -= 5
		}
		return a, a.bumpOptions()

	case "ctrl+n":
		if a.minScore < 0.95 {
			a.minScore += 0.05
		}
		return a, a.bumpOptions()

	case "ctrl+p":
		if a.minScore >= 0.05 {
			a.minScore -= 0.05
		}
		return a, a.bumpOptions()
	}

	switch a.focus {
	case focusQuery:
		return a.handleQueryKey(msg)
	case focusChips:
		return a.handleChipKey(msg)
	case focusRefine:
		return a.handleRefineKey(msg)
	}
	return a, nil
}

func (a *App) cycleFocus() {
	switch a.focus {
	case focusQuery:
		a.focus = focusChips
		a.queryInput.Blur()
	case focusChips:
		a.focus = focusRefine
		a.refineInput.Focus()
	case focusRefine:
		a.focus = focusQuery
		a.refineInput.Blur()
		a.queryInput.Focus()
	}
}

func (a App) handleQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return a, nil
	}

	before := a.queryInput.Value()
	var cmd tea.Cmd
	a.queryInput, cmd = a.queryInput.Update(msg)

	if value := a.queryInput.Value(); value != before {
		rev := a.gate.Bump(value)
		tick := tea.Tick(a.gate.Delay(), func(time.Time) tea.Msg {
			return QueryDebounceFired{Rev: rev}
		})
		return a, tea.Batch(cmd, tick)
	}
	return a, cmd
}

func (a App) handleChipKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	strip := a.chips[a.category()]
	switch msg.String() {
	case "left", "h":
		if a.chipIdx > 0 {
			a.chipIdx--
		}
	case "right", "l":
		if a.chipIdx < len(strip)-1 {
			a.chipIdx++
		}
	case "enter", " ":
		if a.chipIdx < len(strip) {
			a.reactor.ToggleFacet(a.category(), strip[a.chipIdx].Value)
			a.refresh()
		}
	case "esc":
		a.focus = focusQuery
		a.queryInput.Focus()
	}
	return a, nil
}

func (a App) handleRefineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		a.refineInput.SetValue("")
		a.reactor.ClearRefinement()
		a.refresh()
		a.focus = focusQuery
		a.refineInput.Blur()
		a.queryInput.Focus()
		return a, nil
	}

	before := a.refineInput.Value()
	var cmd tea.Cmd
	a.refineInput, cmd = a.refineInput.Update(msg)

	// Refinement is purely client-side: no debounce, no network.
	if value := a.refineInput.Value(); value != before {
		a.reactor.SetFreeText(value)
		a.refresh()
	}
	return a, cmd
}

// dispatch issues a remote search with the current advanced options.
func (a *App) dispatch(text string) {
	q := query.New(text)
	q.TopK = a.topK
	q.MinScore = a.minScore
	a.reactor.Search(a.ctx, q, true)
}

// bumpOptions restarts the advanced-options gate with the current query
// text, so a burst of option tweaks settles into at most one search.
func (a *App) bumpOptions() tea.Cmd {
	rev := a.optionsGate.Bump(a.queryInput.Value())
	return tea.Tick(a.optionsGate.Delay(), func(time.Time) tea.Msg {
		return OptionsDebounceFired{Rev: rev}
	})
}

// refresh pulls a fresh snapshot and chip strips from the reactor and
// clamps the cursors.
func (a *App) refresh() {
	a.st = a.reactor.Snapshot()
	for _, cat := range facets.Categories {
		a.chips[cat] = a.reactor.Chips(cat)
	}
	if a.cursor >= len(a.st.Results) {
		a.cursor = max(0, len(a.st.Results)-1)
	}
	if strip := a.chips[a.category()]; a.chipIdx >= len(strip) {
		a.chipIdx = max(0, len(strip)-1)
	}
}

func (a *App) category() string {
	return facets.Categories[a.catIdx]
}

func (a *App) nextCategory() {
	a.catIdx = (a.catIdx + 1) % len(facets.Categories)
	a.chipIdx = 0
}

func (a *App) prevCategory() {
	a.catIdx = (a.catIdx + len(facets.Categories) - 1) % len(facets.Categories)
	a.chipIdx = 0
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var sections []string

	headerText := fmt.Sprintf("  SCOUT  ·  %d of %d candidates", a.st.DisplayedCount, a.st.RawCount)
	if a.st.TotalCount > a.st.RawCount {
		headerText += fmt.Sprintf("  ·  %d matches on server", a.st.TotalCount)
	}
	if a.showScores && a.st.DisplayedCount > 0 {
		headerText += fmt.Sprintf("  ·  avg score %.2f", a.st.AverageScore)
	}
	if a.st.CacheAvailable {
		headerText += "  ·  cached"
	}
	sections = append(sections, Header.Width(a.width).Render(headerText))

	sections = append(sections, " "+a.queryInput.View())
	sections = append(sections, a.renderChipStrips())
	sections = append(sections, " "+a.refineInput.View())

	if a.st.Err != "" {
		sections = append(sections, ErrorStyle.Width(a.width).Render(a.st.Err))
	}

	sections = append(sections, a.renderResults())
	sections = append(sections, a.renderStatusBar())

	if a.link != "" {
		sections = append(sections, LinkStyle.Render(" link: ?"+a.link))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderChipStrips draws one line per facet category.
func (a App) renderChipStrips() string {
	var lines []string
	for ci, cat := range facets.Categories {
		var b strings.Builder
		label := fmt.Sprintf("%-15s", cat)
		b.WriteString(CategoryLabel.Render(label))

		for i, chip := range a.chips[cat] {
			text := fmt.Sprintf("%s %d", chip.Value, chip.Count)
			style := Chip
			switch {
			case a.focus == focusChips && ci == a.catIdx && i == a.chipIdx:
				style = FocusedChip
			case chip.Active:
				style = ActiveChip
			}
			rendered := style.Render(text)
			if lipgloss.Width(b.String())+lipgloss.Width(rendered) > a.width-2 {
				break
			}
			b.WriteString(rendered)
		}
		lines = append(lines, " "+b.String())
	}
	return strings.Join(lines, "\n")
}

// renderResults draws the candidate list with the cursor row highlighted.
func (a App) renderResults() string {
	if len(a.st.Results) == 0 {
		if a.st.Loading {
			return HelpStyle.Render("Searching...")
		}
		return HelpStyle.Render("No candidates loaded. Type at least 3 characters to search.")
	}

	// Reserve header, inputs, chips, status and link lines.
	available := a.height - 9
	if a.st.Err != "" {
		available--
	}
	if available < 1 {
		available = 1
	}

	offset := 0
	if a.cursor >= available {
		offset = a.cursor - available + 1
	}

	var b strings.Builder
	for i := offset; i < len(a.st.Results) && i-offset < available; i++ {
		c := a.st.Results[i]
		line := fmt.Sprintf("%-24s %-32s %-18s %s", clip(c.Name, 24), clip(c.Title, 32), clip(c.Location, 18), c.Availability)
		if a.showScores {
			line += ScoreBadge.Render(fmt.Sprintf("  %.2f", c.MatchScore))
		}
		if i == a.cursor {
			b.WriteString(SelectedItem.Render(line))
		} else {
			b.WriteString(NormalItem.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) renderStatusBar() string {
	var left string
	if a.st.Loading {
		left = " Searching... "
	} else {
		left = fmt.Sprintf(" %d/%d  topK %d  minScore %.2f ", a.st.DisplayedCount, a.st.RawCount, a.topK, a.minScore)
	}

	keys := []string{
		StatusBarKey.Render("tab") + StatusBarText.Render(":focus"),
		StatusBarKey.Render("enter") + StatusBarText.Render(":chip"),
		StatusBarKey.Render("esc") + StatusBarText.Render(":clear refine"),
		StatusBarKey.Render("^r") + StatusBarText.Render(":restore"),
		StatusBarKey.Render("^k/^j") + StatusBarText.Render(":topK"),
		StatusBarKey.Render("^c") + StatusBarText.Render(":quit"),
	}
	keyHints := strings.Join(keys, " ")

	padding := a.width - lipgloss.Width(left) - lipgloss.Width(keyHints)
	if padding < 0 {
		padding = 0
	}
	return StatusBar.Width(a.width).Render(left + strings.Repeat(" ", padding) + keyHints)
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
