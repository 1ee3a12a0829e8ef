// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetrack/internal/exercise"
	"github.com/verte-zerg/typetrack/internal/logging"
	"github.com/verte-zerg/typetrack/internal/model"
	statsPkg "github.com/verte-zerg/typetrack/internal/stats"
	"github.com/verte-zerg/typetrack/internal/store"
	"github.com/verte-zerg/typetrack/internal/textsource"
)

// maxTextAttempts bounds how many texts are skipped when a source yields text
// that cannot be tokenized.
const maxTextAttempts = 10

type charStat struct {
	typed     int
	incorrect int
	fixed     int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config model.Config
	store  *store.Store
	source textsource.Source
	words  *textsource.Words
	log    *slog.Logger

	width  int
	height int

	engine   *exercise.Engine
	input    textinput.Model
	bar      progress.Model
	rendered []string
	widths   []int

	started   bool
	startedAt time.Time

	correct   int
	incorrect int
	fixed     int
	charStats map[rune]*charStat

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM       float64
	allAcc       float64
	allCorrect   int
	allIncorrect int
	allDuration  int64
}

// NewModel constructs a typing TUI model. words may be nil; when set and
// cfg.FocusWeak is true its weak set is refreshed after every exercise.
func NewModel(cfg model.Config, st *store.Store, source textsource.Source, words *textsource.Words) (*Model, error) {
	input := textinput.New()
	input.Prompt = ""
	input.Focus()
	m := &Model{
		config: cfg,
		store:  st,
		source: source,
		words:  words,
		log:    logging.New("tui"),
		input:  input,
		bar:    progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage()),
	}
	if err := m.resetExercise(); err != nil {
		return nil, err
	}
	m.loadFooterStats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(m.contentWidth()/3, 10)
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter, tea.KeyTab:
			return m, nil
		case tea.KeyLeft, tea.KeyRight, tea.KeyHome, tea.KeyEnd, tea.KeyCtrlA, tea.KeyCtrlE, tea.KeyCtrlB, tea.KeyCtrlF:
			return m, nil
		}
		prev := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		// Input only grows or shrinks at the end, so the cursor stays there.
		m.input.CursorEnd()
		m.applyInput(prev, m.input.Value())
		return m, cmd
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.engine == nil || m.engine.Len() == 0 {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return strings.Join(m.rendered, "")
	}
	contentWidth := m.contentWidth()
	wrapped := wrapTokens(m.rendered, m.widths, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	return max(int(float64(m.width)*0.70), 1)
}

// applyInput feeds the engine one character at a time so pastes and word
// deletions reach it as single-character changes.
func (m *Model) applyInput(prev, next string) {
	if prev == next {
		return
	}
	prevLen := len([]rune(prev))
	for _, step := range replaySteps(prev, next) {
		stepLen := len([]rune(step))
		touched, err := m.engine.OnInputChange(step)
		if err != nil {
			m.log.Warn("input change rejected", "error", err, "typed", step)
			m.input.SetValue(m.engine.ProgressInputs().Typed)
			return
		}
		if stepLen > prevLen {
			m.recordKeystroke()
		}
		prevLen = stepLen
		for _, pos := range touched {
			m.renderToken(pos)
		}
	}
	if m.engine.Done() {
		m.finishExercise()
		if err := m.resetExercise(); err != nil {
			m.log.Error("failed to start next exercise", "error", err)
		}
	}
}

// replaySteps returns the snapshots between prev and next that differ by one
// character each: deletions back to the common prefix, then insertions.
func replaySteps(prev, next string) []string {
	p, n := []rune(prev), []rune(next)
	common := 0
	for common < len(p) && common < len(n) && p[common] == n[common] {
		common++
	}
	steps := make([]string, 0, len(p)-common+len(n)-common)
	for i := len(p) - 1; i >= common; i-- {
		steps = append(steps, string(p[:i]))
	}
	for i := common + 1; i <= len(n); i++ {
		steps = append(steps, string(n[:i]))
	}
	return steps
}

func (m *Model) recordKeystroke() {
	change, ok := m.engine.LastChange()
	if !ok {
		return
	}
	if !m.started {
		m.started = true
		m.startedAt = time.Now()
	}
	if change.Expected == ' ' {
		return
	}
	entry := m.charEntry(change.Expected)
	entry.typed++
	switch change.State {
	case exercise.Incorrect:
		m.incorrect++
		entry.incorrect++
	case exercise.Fixed:
		m.fixed++
		m.correct++
		entry.fixed++
	default:
		m.correct++
	}
}

func (m *Model) charEntry(expected rune) *charStat {
	entry, ok := m.charStats[expected]
	if !ok {
		entry = &charStat{}
		m.charStats[expected] = entry
	}
	return entry
}

func (m *Model) renderToken(pos int) {
	m.rendered[pos], m.widths[pos] = renderGroup(m.engine.RenderGroups()[pos])
}

func (m *Model) resetExercise() error {
	var engine *exercise.Engine
	var lastErr error
	for attempt := 0; attempt < maxTextAttempts; attempt++ {
		text, err := m.source.Next()
		if err != nil {
			return fmt.Errorf("failed to get text from %s: %w", m.source.Name(), err)
		}
		engine, lastErr = exercise.New(text)
		if lastErr == nil && engine.Len() > 0 {
			break
		}
		var tokErr *exercise.TokenizationError
		if lastErr != nil && !errors.As(lastErr, &tokErr) {
			return lastErr
		}
		m.log.Debug("skipping text", "source", m.source.Name(), "error", lastErr)
		engine = nil
	}
	if engine == nil {
		if lastErr == nil {
			lastErr = errors.New("source produced only empty texts")
		}
		return fmt.Errorf("no usable text from %s: %w", m.source.Name(), lastErr)
	}

	m.engine = engine
	m.input.SetValue("")
	m.input.CharLimit = engine.Len()
	groups := engine.RenderGroups()
	m.rendered = make([]string, len(groups))
	m.widths = make([]int, len(groups))
	for i := range groups {
		m.renderToken(i)
	}
	m.started = false
	m.startedAt = time.Time{}
	m.correct, m.incorrect, m.fixed = 0, 0, 0
	m.charStats = map[rune]*charStat{}
	m.log.Debug("exercise started", "chars", engine.Len(), "tokens", len(groups))
	return nil
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	results, err := m.store.ListResults(context.Background(), model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		m.log.Warn("failed to load result stats", "error", err)
		return
	}
	if len(results) == 0 {
		return
	}
	last := results[len(results)-1]
	m.lastWPM, _, m.lastAcc = statsPkg.Metrics(last.Correct, last.Incorrect, last.DurationMs)
	m.hasLast = true
	for _, r := range results {
		m.allCorrect += r.Correct
		m.allIncorrect += r.Incorrect
		m.allDuration += r.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	m.allWPM, _, m.allAcc = statsPkg.Metrics(m.allCorrect, m.allIncorrect, m.allDuration)
}

func (m *Model) progressPercent() float64 {
	in := m.engine.ProgressInputs()
	total := len([]rune(in.Original))
	if total == 0 {
		return 0
	}
	return float64(len([]rune(in.Typed))) / float64(total)
}

func (m *Model) renderFooter() string {
	if m.engine == nil || m.engine.Len() == 0 {
		return ""
	}
	pct := m.progressPercent()
	segments := []string{
		m.bar.ViewAs(pct),
		footerStyle.Render(fmt.Sprintf("Progress %d%%", int(pct*100))),
	}
	if m.hasLast {
		segments = append(segments, footerStyle.Render(fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100)))
	}
	segments = append(segments, footerStyle.Render(fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100)))
	return strings.Join(segments, "  ")
}

func (m *Model) finishExercise() {
	if !m.started {
		return
	}
	endedAt := time.Now()
	res := model.Result{
		StartedAt:  m.startedAt,
		EndedAt:    endedAt,
		Lang:       m.config.Lang,
		Source:     m.source.Name(),
		TextLen:    m.engine.Len(),
		Correct:    m.correct,
		Incorrect:  m.incorrect,
		Fixed:      m.fixed,
		Mistakes:   m.engine.Counts().Mistakes,
		DurationMs: endedAt.Sub(m.startedAt).Milliseconds(),
	}

	charStats := make([]model.CharStats, 0, len(m.charStats))
	for ch, entry := range m.charStats {
		charStats = append(charStats, model.CharStats{
			Char:      string(ch),
			Typed:     entry.typed,
			Incorrect: entry.incorrect,
			Fixed:     entry.fixed,
		})
	}

	if m.store != nil {
		if _, err := m.store.InsertResult(context.Background(), res, charStats); err != nil {
			m.log.Warn("failed to save result", "error", err)
		}
	}
	m.lastWPM, _, m.lastAcc = statsPkg.Metrics(res.Correct, res.Incorrect, res.DurationMs)
	m.hasLast = true
	m.allCorrect += res.Correct
	m.allIncorrect += res.Incorrect
	m.allDuration += res.DurationMs
	m.recomputeAllTime()
	m.log.Debug("exercise finished", "correct", res.Correct, "incorrect", res.Incorrect, "fixed", res.Fixed)

	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) refreshWeakSet() {
	if m.words == nil || m.store == nil {
		return
	}
	aggs, err := m.store.GetWeakChars(context.Background(), m.config.WeakWindow, m.config.Lang)
	if err != nil {
		m.log.Warn("failed to load weak chars", "error", err)
		return
	}
	m.words.SetWeak(statsPkg.SelectWeakChars(aggs, m.config.WeakTop), m.config.WeakFactor)
}
