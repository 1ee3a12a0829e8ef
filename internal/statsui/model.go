// Package statsui provides the Bubble Tea stats browser.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetrack/internal/logging"
	"github.com/verte-zerg/typetrack/internal/model"
	"github.com/verte-zerg/typetrack/internal/stats"
	"github.com/verte-zerg/typetrack/internal/store"
)

const (
	tabOverview = iota
	tabHistory
	tabChars
	tabCharCurves
)

const (
	plotHeight    = 10
	defaultTopN   = 5
	fallbackWidth = 80
)

const (
	fieldLang = iota
	fieldSince
	fieldLast
	fieldWindow
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig
	log   *slog.Logger

	report   stats.Report
	byResult map[int64]map[string]model.CharAggregate
	errMsg   string

	tabs      []string
	activeTab int
	viewports map[int]*viewport.Model
	tables    map[int]*table.Model

	width  int
	height int

	settingsOpen bool
	fields       []textinput.Model
	field        int
	settingsErr  string

	chars       []string
	charsCustom bool
	pickerOpen  bool
	picker      textinput.Model
}

// NewModel constructs a stats UI model and loads the first report.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	overview := viewport.New(0, 0)
	curves := viewport.New(0, 0)
	history := table.New(table.WithColumns(historyColumns()))
	charTable := table.New(table.WithColumns(charColumns()))
	history.SetStyles(tableStyles())
	charTable.SetStyles(tableStyles())

	m := &Model{
		store:     st,
		cfg:       cfg,
		log:       logging.New("statsui"),
		tabs:      []string{"Overview", "History", "Chars", "Char Curves"},
		viewports: map[int]*viewport.Model{tabOverview: &overview, tabCharCurves: &curves},
		tables:    map[int]*table.Model{tabHistory: &history, tabChars: &charTable},
		fields: []textinput.Model{
			newInput("Lang: "),
			newInput("Since (YYYY-MM-DD): "),
			newInput("Last: "),
			newInput("Curve window: "),
		},
		picker: newInput("Chars: "),
	}
	m.picker.Placeholder = "asdfjkl;"
	if chars := parseChars(cfg.Chars); len(chars) > 0 {
		m.chars = chars
		m.charsCustom = true
	}
	m.reload()
	return m
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
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
		m.resize()
		m.renderViewports()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.settingsOpen {
			return m.updateSettings(msg)
		}
		if m.pickerOpen {
			return m.updatePicker(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l", "tab":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "=":
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.reload()
		return m, nil
	case "-":
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.reload()
		return m, nil
	case "/":
		return m, m.openSettings()
	case "enter":
		if m.activeTab == tabCharCurves {
			return m, m.openPicker()
		}
		return m, nil
	case "g", "home":
		if t, ok := m.tables[m.activeTab]; ok {
			t.GotoTop()
		} else {
			m.viewports[m.activeTab].GotoTop()
		}
		return m, nil
	case "G", "end":
		if t, ok := m.tables[m.activeTab]; ok {
			t.GotoBottom()
		} else {
			m.viewports[m.activeTab].GotoBottom()
		}
		return m, nil
	}
	var cmd tea.Cmd
	if t, ok := m.tables[m.activeTab]; ok {
		*t, cmd = t.Update(msg)
		return m, cmd
	}
	vp := m.viewports[m.activeTab]
	*vp, cmd = vp.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.pickerOpen {
		return fitLines(m.renderPicker(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layout()
	return strings.Join([]string{
		fitLines(m.renderHeader(), m.width, headerHeight),
		fitLines(m.renderBody(), m.width, bodyHeight),
		fitLines(m.renderFooter(), m.width, footerHeight),
	}, "\n")
}

func (m *Model) layout() (header, body, footer int) {
	header = lipgloss.Height(activeTabStyle.Render("X")) + 1
	footer = 1
	if !m.settingsOpen && m.errMsg != "" {
		footer++
	}
	body = max(m.height-header-footer, 1)
	return header, body, footer
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, body, _ := m.layout()
	for _, vp := range m.viewports {
		vp.Width = m.width
		vp.Height = body
	}
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(body)
		// The header row and its border take lines of their own.
		if extra := lipgloss.Height(t.View()) - body; extra > 0 {
			t.SetHeight(max(body-extra, 1))
		}
	}
	for i := range m.fields {
		m.fields[i].Width = max(10, m.width-lipgloss.Width(m.fields[i].Prompt)-2)
	}
	m.picker.Width = max(10, modalWidth(m.width)-6-lipgloss.Width(m.picker.Prompt))
}

func (m *Model) moveTab(delta int) {
	n := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%n + n) % n
	for tab, t := range m.tables {
		if tab == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

// reload rebuilds the report for the current settings and refreshes every
// tab.
func (m *Model) reload() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.log.Warn("failed to build report", "error", err)
		m.errMsg = err.Error()
		m.report = stats.Report{}
	} else {
		m.errMsg = ""
		m.report = report
	}
	if !m.charsCustom {
		m.chars = stats.TopCharsByTyped(m.report.CharAggsAll, defaultTopN)
	}
	m.loadCharCurves()
	m.tables[tabHistory].SetRows(historyRows(m.report.Results))
	m.tables[tabChars].SetRows(charRows(m.report.CharAggsAll))
	m.renderViewports()
}

func (m *Model) loadCharCurves() {
	m.byResult = nil
	if len(m.report.Results) == 0 || len(m.chars) == 0 {
		return
	}
	byResult, err := m.store.ListCharStatsByResult(context.Background(), stats.ResultIDs(m.report.Results), m.chars)
	if err != nil {
		m.log.Warn("failed to load character curves", "error", err)
		m.errMsg = err.Error()
		return
	}
	m.byResult = byResult
}

func (m *Model) renderViewports() {
	width := m.width
	if width <= 0 {
		width = fallbackWidth
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report.Results, m.cfg.CurveWindow, width))
	m.viewports[tabCharCurves].SetContent(renderCharCurves(m.report.Results, m.byResult, m.chars, m.cfg.CurveWindow, width))
}

func (m *Model) renderHeader() string {
	parts := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveTabStyle
		if i == m.activeTab {
			style = activeTabStyle
		}
		parts[i] = style.Render(tab)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...) + "\n" + mutedStyle.Render(truncate(m.settingsSummary(), m.width))
}

func (m *Model) settingsSummary() string {
	lang, since, last := "any", "any", "all"
	if m.cfg.Lang != "" {
		lang = m.cfg.Lang
	}
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Settings: lang=%s  since=%s  last=%s  window=%d", lang, since, last, m.cfg.CurveWindow)
}

func (m *Model) renderBody() string {
	if m.settingsOpen {
		lines := []string{"Settings (enter to apply, esc to cancel)"}
		for _, f := range m.fields {
			lines = append(lines, f.View())
		}
		if m.settingsErr != "" {
			lines = append(lines, errorStyle.Render(m.settingsErr))
		}
		return strings.Join(lines, "\n")
	}
	if t, ok := m.tables[m.activeTab]; ok {
		switch {
		case len(m.report.Results) == 0:
			return "No exercises found."
		case m.activeTab == tabChars && len(m.report.CharAggsAll) == 0:
			return "No character stats found."
		}
		return t.View()
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderFooter() string {
	if m.settingsOpen {
		return mutedStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabCharCurves {
		help = "Nav: left/right  Edit chars: enter  Window: -/=  Settings: /  Quit: q"
	}
	help = mutedStyle.Render(help)
	if m.errMsg != "" {
		help += "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) openSettings() tea.Cmd {
	m.settingsOpen = true
	m.settingsErr = ""
	m.fields[fieldLang].SetValue(m.cfg.Lang)
	m.fields[fieldSince].SetValue("")
	if m.cfg.Since != nil {
		m.fields[fieldSince].SetValue(m.cfg.Since.Format("2006-01-02"))
	}
	m.fields[fieldLast].SetValue("")
	if m.cfg.Last > 0 {
		m.fields[fieldLast].SetValue(strconv.Itoa(m.cfg.Last))
	}
	m.fields[fieldWindow].SetValue(strconv.Itoa(m.cfg.CurveWindow))
	return m.focusField(fieldLang)
}

func (m *Model) focusField(idx int) tea.Cmd {
	n := len(m.fields)
	m.field = (idx%n + n) % n
	var cmd tea.Cmd
	for i := range m.fields {
		if i == m.field {
			cmd = m.fields[i].Focus()
		} else {
			m.fields[i].Blur()
		}
	}
	return cmd
}

func (m *Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.settingsOpen = false
		return m, nil
	case tea.KeyEnter:
		cfg, err := m.parseSettings()
		if err != nil {
			m.settingsErr = err.Error()
			return m, nil
		}
		m.cfg = cfg
		m.settingsOpen = false
		m.reload()
		m.resize()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.focusField(m.field + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.focusField(m.field - 1)
	}
	var cmd tea.Cmd
	m.fields[m.field], cmd = m.fields[m.field].Update(msg)
	return m, cmd
}

func (m *Model) parseSettings() (model.StatsConfig, error) {
	cfg := m.cfg
	cfg.Lang = strings.TrimSpace(m.fields[fieldLang].Value())
	cfg.Since = nil
	if v := strings.TrimSpace(m.fields[fieldSince].Value()); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		cfg.Since = &parsed
	}
	cfg.Last = 0
	if v := strings.TrimSpace(m.fields[fieldLast].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return cfg, fmt.Errorf("invalid last value (use 0 or a positive integer)")
		}
		cfg.Last = parsed
	}
	cfg.CurveWindow = 1
	if v := strings.TrimSpace(m.fields[fieldWindow].Value()); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return cfg, fmt.Errorf("invalid curve window (use an integer >= 1)")
		}
		cfg.CurveWindow = parsed
	}
	return cfg, nil
}

func (m *Model) openPicker() tea.Cmd {
	m.pickerOpen = true
	m.picker.SetValue(strings.Join(m.chars, ""))
	return m.picker.Focus()
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.pickerOpen = false
		m.picker.Blur()
		return m, nil
	case tea.KeyEnter:
		m.chars = parseChars(m.picker.Value())
		m.charsCustom = len(m.chars) > 0
		if !m.charsCustom {
			m.chars = stats.TopCharsByTyped(m.report.CharAggsAll, defaultTopN)
		}
		m.pickerOpen = false
		m.picker.Blur()
		m.loadCharCurves()
		m.renderViewports()
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if normalized := normalizeChars(m.picker.Value()); normalized != m.picker.Value() {
		m.picker.SetValue(normalized)
	}
	return m, cmd
}

func (m *Model) renderPicker() string {
	body := strings.Join([]string{
		cardValueStyle.Render("Select Characters"),
		m.picker.View(),
		mutedStyle.Render("Type characters (no commas). Spaces are ignored."),
		mutedStyle.Render("Enter to apply / Esc to cancel"),
	}, "\n")
	box := modalStyle.Width(modalWidth(m.width)).Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func renderOverview(results []model.ResultAggregate, window, width int) string {
	if len(results) == 0 {
		return "No exercises found."
	}
	var buf bytes.Buffer
	opts := stats.PlotOptions{Width: stats.PlotWidthFor(width), Height: plotHeight, Color: true}
	if err := stats.RenderCurves(&buf, results, window, opts); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summaryCards(results, width)+"\n\n"+buf.String(), "\n")
}

func summaryCards(results []model.ResultAggregate, width int) string {
	var totalWPM, totalAcc, bestWPM float64
	fixed, mistakes := 0, 0
	for _, r := range results {
		wpm, _, acc := stats.Metrics(r.Correct, r.Incorrect, r.DurationMs)
		totalWPM += wpm
		totalAcc += acc
		bestWPM = max(bestWPM, wpm)
		fixed += r.Fixed
		mistakes += r.Mistakes
	}
	count := float64(len(results))
	cards := []string{
		card("Exercises", strconv.Itoa(len(results))),
		card("Avg WPM", fmt.Sprintf("%.1f", totalWPM/count)),
		card("Best WPM", fmt.Sprintf("%.1f", bestWPM)),
		card("Avg Acc", fmt.Sprintf("%.1f%%", totalAcc/count*100)),
		card("Fixed", strconv.Itoa(fixed)),
		card("Mistakes", strconv.Itoa(mistakes)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...),
	)
}

func card(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderCharCurves(results []model.ResultAggregate, byResult map[int64]map[string]model.CharAggregate, chars []string, window, width int) string {
	if len(results) == 0 {
		return "No exercises found."
	}
	if len(chars) == 0 {
		return "No characters selected. Press Enter to set chars."
	}
	var buf bytes.Buffer
	opts := stats.PlotOptions{Width: stats.PlotWidthFor(width), Height: plotHeight, Color: true}
	if err := stats.RenderCharCurves(&buf, results, byResult, chars, window, opts); err != nil {
		return fmt.Sprintf("Failed to render character curves: %v", err)
	}
	header := mutedStyle.Render("Chars: " + strings.Join(chars, ", "))
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func parseChars(input string) []string {
	input = normalizeChars(input)
	if input == "" {
		return nil
	}
	out := make([]string, 0, len(input))
	seen := map[rune]bool{}
	for _, r := range input {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, string(r))
	}
	return out
}

// normalizeChars drops commas and whitespace.
func normalizeChars(input string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, input)
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return n / 5 * 5
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func fitLines(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if pad := width - lipgloss.Width(line); pad > 0 {
			lines[i] = line + strings.Repeat(" ", pad)
		}
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
