package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhoward/scout/internal/candidate"
	"github.com/nhoward/scout/internal/query"
	"github.com/nhoward/scout/internal/reactor"
	"github.com/nhoward/scout/internal/searchclient"
)

// stubSearcher records dispatched queries and serves a fixed result set.
type stubSearcher struct {
	mu      sync.Mutex
	queries []query.Query
}

func (s *stubSearcher) Search(ctx context.Context, q query.Query) (*searchclient.Response, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	return &searchclient.Response{
		Results: []candidate.Candidate{
			{ID: "c1", Name: "Priya Raman", Title: "Backend Engineer", Technologies: []string{"Kotlin"}, MatchScore: 0.9},
			{ID: "c2", Name: "Jonas Weber", Title: "Platform Engineer", Technologies: []string{"Go"}, MatchScore: 0.8},
		},
		TotalCount: 2,
	}, nil
}

func (s *stubSearcher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func newTestApp(stub *stubSearcher) App {
	r := reactor.New(reactor.Config{Client: stub})
	return NewApp(context.Background(), r, Options{})
}

func typeText(t *testing.T, app App, text string) App {
	t.Helper()
	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return model.(App)
}

func waitCalls(t *testing.T, stub *stubSearcher, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if stub.count() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("stub saw %d searches, want %d", stub.count(), want)
}

func TestAppInit(t *testing.T) {
	app := newTestApp(&stubSearcher{})
	if cmd := app.Init(); cmd == nil {
		t.Fatal("Init should return a command")
	}
}

func TestAppWindowSize(t *testing.T) {
	app := newTestApp(&stubSearcher{})

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	updated := model.(App)

	if updated.width != 100 || updated.height != 50 {
		t.Errorf("size = %dx%d, want 100x50", updated.width, updated.height)
	}
	if !updated.ready {
		t.Error("app should be ready after WindowSizeMsg")
	}
}

func TestAppQuitCtrlC(t *testing.T) {
	app := newTestApp(&stubSearcher{})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should return tea.Quit")
	}
}

func TestTypingArmsDebounceTick(t *testing.T) {
	app := newTestApp(&stubSearcher{})

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("kotlin")})
	if cmd == nil {
		t.Fatal("a text change should schedule a debounce tick")
	}
	updated := model.(App)
	if updated.queryInput.Value() != "kotlin" {
		t.Errorf("query input = %q, want kotlin", updated.queryInput.Value())
	}
}

func TestDebounceFiredDispatchesSearch(t *testing.T) {
	stub := &stubSearcher{}
	app := typeText(t, newTestApp(stub), "kotlin")

	model, _ := app.Update(QueryDebounceFired{Rev: 1})
	_ = model.(App)

	waitCalls(t, stub, 1)
	stub.mu.Lock()
	defer stub.mu.Unlock()
	if stub.queries[0].Text != "kotlin" {
		t.Errorf("dispatched query = %q, want kotlin", stub.queries[0].Text)
	}
}

func TestSupersededDebounceDoesNotDispatch(t *testing.T) {
	stub := &stubSearcher{}
	app := typeText(t, newTestApp(stub), "kot")
	app = typeText(t, app, "lin") // second change supersedes rev 1

	model, _ := app.Update(QueryDebounceFired{Rev: 1})
	app = model.(App)

	if stub.count() != 0 {
		t.Fatalf("stale debounce tick dispatched a search: %d calls", stub.count())
	}

	// The live revision still goes through.
	model, _ = app.Update(QueryDebounceFired{Rev: 2})
	_ = model.(App)
	waitCalls(t, stub, 1)
}

func TestStateChangedRefreshesAndRearms(t *testing.T) {
	stub := &stubSearcher{}
	r := reactor.New(reactor.Config{Client: stub})
	app := NewApp(context.Background(), r, Options{})

	r.Search(context.Background(), query.New("kotlin"), false)
	waitCalls(t, stub, 1)

	// Drain the pump once: the app must pick up the new snapshot and
	// re-arm the wait.
	cmd := app.waitForEvent()
	msg := cmd()
	if _, ok := msg.(StateChanged); !ok {
		t.Fatalf("event pump produced %T, want StateChanged", msg)
	}
	model, next := app.Update(msg)
	app = model.(App)
	if next == nil {
		t.Error("StateChanged should re-arm the event pump")
	}
	// The started event may arrive before the results event; drain until
	// the snapshot holds them.
	deadline := time.Now().Add(2 * time.Second)
	for app.st.RawCount != 2 && time.Now().Before(deadline) {
		app.refresh()
		time.Sleep(5 * time.Millisecond)
	}
	if app.st.RawCount != 2 {
		t.Errorf("snapshot raw count = %d, want 2", app.st.RawCount)
	}
	if len(app.chips["technologies"]) != 2 {
		t.Errorf("technology chips = %v, want Kotlin and Go", app.chips["technologies"])
	}
}

func TestTabCyclesFocus(t *testing.T) {
	app := newTestApp(&stubSearcher{})

	for i, want := range []focusArea{focusChips, focusRefine, focusQuery} {
		model, _ := app.Update(tea.KeyMsg{Type: tea.KeyTab})
		app = model.(App)
		if app.focus != want {
			t.Errorf("tab press %d: focus = %v, want %v", i+1, app.focus, want)
		}
	}
}

func TestCtrlXClearsEverything(t *testing.T) {
	stub := &stubSearcher{}
	r := reactor.New(reactor.Config{Client: stub})
	app := NewApp(context.Background(), r, Options{})
	app = typeText(t, app, "kotlin")

	model, _ := app.Update(QueryDebounceFired{Rev: 1})
	app = model.(App)
	waitCalls(t, stub, 1)

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	app = model.(App)

	if app.queryInput.Value() != "" || app.refineInput.Value() != "" {
		t.Error("ctrl+x should empty both inputs")
	}
	if st := r.Snapshot(); st.RawCount != 0 || st.CacheAvailable {
		t.Errorf("ctrl+x left reactor state %+v, want cleared", st)
	}
}

func TestOptionKeysAdjustWithinBounds(t *testing.T) {
	app := newTestApp(&stubSearcher{})

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	app = model.(App)
	if app.topK != 15 {
		t.Errorf("ctrl+k: topK = %d, want 15", app.topK)
	}
	if cmd == nil {
		t.Error("option changes should arm the options gate")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
	app = model.(App)
	if app.topK != 10 {
		t.Errorf("ctrl+j: topK = %d, want 10", app.topK)
	}
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
	app = model.(App)
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
	app = model.(App)
	if app.topK != 5 {
		t.Errorf("topK floor = %d, want 5", app.topK)
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	app = model.(App)
	if app.minScore != 0 {
		t.Errorf("ctrl+p at floor: minScore = %v, want 0", app.minScore)
	}
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	app = model.(App)
	if app.minScore != 0.05 {
		t.Errorf("ctrl+n: minScore = %v, want 0.05", app.minScore)
	}
}

func TestAppViewNotReady(t *testing.T) {
	app := newTestApp(&stubSearcher{})
	if view := app.View(); view != "Loading..." {
		t.Errorf("View before WindowSizeMsg = %q, want Loading...", view)
	}
}

func TestAppViewRendersResults(t *testing.T) {
	stub := &stubSearcher{}
	r := reactor.New(reactor.Config{Client: stub})
	app := NewApp(context.Background(), r, Options{ShowScores: true})
	app.ready = true
	app.width = 120
	app.height = 40

	r.Search(context.Background(), query.New("kotlin"), false)
	waitCalls(t, stub, 1)
	deadline := time.Now().Add(2 * time.Second)
	for app.st.RawCount != 2 && time.Now().Before(deadline) {
		app.refresh()
		time.Sleep(5 * time.Millisecond)
	}

	view := app.View()
	if view == "" {
		t.Fatal("View should not be empty")
	}
	for _, want := range []string{"Priya Raman", "Jonas Weber", "2 of 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
