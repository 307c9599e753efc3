package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smykla-skalski/codemate/internal/chat"
	"github.com/smykla-skalski/codemate/internal/color"
	"github.com/smykla-skalski/codemate/internal/session"
	"github.com/smykla-skalski/codemate/internal/workflow"
	pkgConfig "github.com/smykla-skalski/codemate/pkg/config"
)

const (
	chatHistoryLines = 12
	minEditorHeight  = 6
)

type keyMap struct {
	Analyze   key.Binding
	View      key.Binding
	Fix       key.Binding
	Dismiss   key.Binding
	Chat      key.Binding
	Voice     key.Binding
	Focus     key.Binding
	HideInput key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Analyze:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "analyze")),
		View:      key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "view output / run")),
		Fix:       key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "corrected code")),
		Dismiss:   key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "close meter")),
		Chat:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "chat")),
		Voice:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "voice")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "focus")),
		HideInput: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "hide input")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Analyze, k.View, k.Fix, k.Dismiss, k.Chat, k.Focus, k.Quit}
}

type (
	changedMsg     struct{}
	startedMsg     struct{ conn session.Connectivity }
	analyzeDoneMsg struct{ err error }
	runDoneMsg     struct{ err error }
	chatDoneMsg    struct{ err error }
)

// Model is the interactive analysis session.
//
//nolint:containedctx // commands started from Update need the session context
type Model struct {
	ctx    context.Context
	ctrl   *workflow.Controller
	panel  *chat.Panel
	render *Renderer
	theme  color.Theme
	keys   keyMap

	editor   textarea.Model
	stdin    textinput.Model
	chatIn   textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	changes <-chan struct{}
	styled  bool
	focus   workflow.Focus
	snap    session.Snapshot
	status  string
	width   int
	height  int
}

// NewModel creates the session screen. The returned stop function detaches
// it from the store.
func NewModel(
	ctx context.Context,
	ctrl *workflow.Controller,
	panel *chat.Panel,
	theme color.Theme,
	styled bool,
) (Model, func()) {
	changes := make(chan struct{}, 1)

	stop := ctrl.Store().Subscribe(func(session.Snapshot) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	editor := textarea.New()
	editor.Placeholder = "Paste or type your C code here..."
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.SetValue(ctrl.Store().Snapshot().Source)

	stdin := textinput.New()
	stdin.Placeholder = "Program input (e.g. 10 20)"
	stdin.Prompt = "stdin> "

	chatIn := textinput.New()
	chatIn.Placeholder = "Ask about C..."
	chatIn.Prompt = "you> "

	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = theme.Info

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		panel:    panel,
		render:   NewRenderer(theme, defaultWrap, styled),
		theme:    theme,
		keys:     newKeyMap(),
		editor:   editor,
		stdin:    stdin,
		chatIn:   chatIn,
		viewport: viewport.New(defaultWrap, minEditorHeight),
		spinner:  s,
		changes:  changes,
		styled:   styled,
		snap:     ctrl.Store().Snapshot(),
	}

	m = m.setFocus(workflow.FocusEditor)
	m.refresh()

	return m, stop
}

// RunSession runs the session screen until the user quits.
func RunSession(ctx context.Context, ctrl *workflow.Controller, panel *chat.Panel, theme color.Theme) error {
	model, stop := NewModel(ctx, ctrl, panel, theme, true)
	defer stop()

	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	return err
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch

		return changedMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		waitForChange(m.changes),
		m.startCmd(),
	)
}

func (m Model) startCmd() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{conn: m.ctrl.Start(m.ctx)}
	}
}

func (m Model) analyzeCmd() tea.Cmd {
	return func() tea.Msg {
		return analyzeDoneMsg{err: m.ctrl.Analyze(m.ctx)}
	}
}

func (m Model) viewOutputCmd() tea.Cmd {
	return func() tea.Msg {
		return runDoneMsg{err: m.ctrl.ViewOutput(m.ctx)}
	}
}

func (m Model) runCmd() tea.Cmd {
	return func() tea.Msg {
		return runDoneMsg{err: m.ctrl.Run(m.ctx)}
	}
}

func (m Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.panel.Send(m.ctx, text)

		return chatDoneMsg{err: err}
	}
}

func (m Model) voiceCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.panel.VoiceInput(m.ctx)

		return chatDoneMsg{err: err}
	}
}

//nolint:ireturn // tea.Model is required by the bubbletea framework
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

		return m, nil

	case changedMsg:
		m.refresh()

		return m, waitForChange(m.changes)

	case startedMsg:
		if !msg.conn.Reachable {
			m.status = msg.conn.Message
		}

		return m, nil

	case analyzeDoneMsg:
		m.status = userMessage(msg.err)

		return m, nil

	case runDoneMsg:
		m.status = userMessage(msg.err)

		return m, nil

	case chatDoneMsg:
		m.status = userMessage(msg.err)
		m.refresh()

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

//nolint:ireturn // tea.Model is required by the bubbletea framework
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste && m.focus == workflow.FocusEditor {
		text := string(msg.Runes)
		if m.ctrl.Paste(text, m.focus) {
			m.editor.SetValue(text)
		}

		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Analyze):
		if m.snap.Analyzing {
			return m, nil
		}

		m.status = ""

		return m, m.analyzeCmd()

	case key.Matches(msg, m.keys.View):
		return m, m.viewOutputCmd()

	case key.Matches(msg, m.keys.Fix):
		if m.snap.Visibility.CorrectedCode {
			m.ctrl.HideCorrectedCode()
		} else {
			m.status = userMessage(m.ctrl.ShowCorrectedCode())
		}

		m.refresh()

		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.DismissSeverityMeter()
		m.refresh()

		return m, nil

	case key.Matches(msg, m.keys.Chat):
		if m.ctrl.ToggleChat() {
			m = m.setFocus(workflow.FocusChat)
		}

		m.refresh()

		return m, nil

	case key.Matches(msg, m.keys.Voice):
		if !m.snap.Visibility.Chat || m.panel.Mode() == pkgConfig.ChatModeUnset {
			return m, nil
		}

		return m, m.voiceCmd()

	case key.Matches(msg, m.keys.Focus):
		return m.setFocus(m.nextFocus()), nil

	case key.Matches(msg, m.keys.HideInput) && m.focus == workflow.FocusInput:
		m.ctrl.HideInputArea()
		m.refresh()

		return m, nil

	case msg.Type == tea.KeyPgUp, msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd

		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	switch m.focus {
	case workflow.FocusInput:
		return m.updateInput(msg)
	case workflow.FocusChat:
		return m.updateChat(msg)
	default:
		return m.updateEditor(msg)
	}
}

//nolint:ireturn // tea.Model is required by the bubbletea framework
func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	before := m.editor.Value()
	m.editor, cmd = m.editor.Update(msg)

	if after := m.editor.Value(); after != before {
		m.ctrl.SetSource(after)
	}

	return m, cmd
}

//nolint:ireturn // tea.Model is required by the bubbletea framework
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		return m, m.runCmd()
	}

	var cmd tea.Cmd

	m.stdin, cmd = m.stdin.Update(msg)
	m.ctrl.SetProgramInput(m.stdin.Value())

	return m, cmd
}

//nolint:ireturn // tea.Model is required by the bubbletea framework
func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.panel.Mode() == pkgConfig.ChatModeUnset {
		switch msg.String() {
		case "1":
			m.panel.SelectMode(pkgConfig.ChatModeStudent)
		case "2":
			m.panel.SelectMode(pkgConfig.ChatModePro)
		}

		m.refresh()

		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		text := m.chatIn.Value()
		if strings.TrimSpace(text) == "" || m.panel.Sending() {
			return m, nil
		}

		m.chatIn.SetValue("")

		return m, m.sendCmd(text)
	}

	var cmd tea.Cmd

	m.chatIn, cmd = m.chatIn.Update(msg)

	return m, cmd
}

func (m Model) nextFocus() workflow.Focus {
	order := []workflow.Focus{workflow.FocusEditor}

	if m.snap.Visibility.InputArea {
		order = append(order, workflow.FocusInput)
	}

	if m.snap.Visibility.Chat {
		order = append(order, workflow.FocusChat)
	}

	for i, f := range order {
		if f == m.focus {
			return order[(i+1)%len(order)]
		}
	}

	return workflow.FocusEditor
}

func (m Model) setFocus(f workflow.Focus) Model {
	m.focus = f

	m.editor.Blur()
	m.stdin.Blur()
	m.chatIn.Blur()

	switch f {
	case workflow.FocusInput:
		m.stdin.Focus()
	case workflow.FocusChat:
		m.chatIn.Focus()
	default:
		m.editor.Focus()
	}

	return m
}

// Focus returns the region receiving keys.
func (m Model) Focus() workflow.Focus {
	return m.focus
}

// Status returns the transient message shown under the report.
func (m Model) Status() string {
	return m.status
}

func (m *Model) refresh() {
	m.snap = m.ctrl.Store().Snapshot()

	if m.snap.Stdin != m.stdin.Value() {
		m.stdin.SetValue(m.snap.Stdin)
	}

	if m.focus == workflow.FocusInput && !m.snap.Visibility.InputArea {
		*m = m.setFocus(workflow.FocusEditor)
	}

	if m.focus == workflow.FocusChat && !m.snap.Visibility.Chat {
		*m = m.setFocus(workflow.FocusEditor)
	}

	m.viewport.SetContent(m.render.Report(m.snap))
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	inner := max(width-4, minWrapWidth)
	editorHeight := max(height/3, minEditorHeight)

	m.editor.SetWidth(inner)
	m.editor.SetHeight(editorHeight)
	m.stdin.Width = inner - len(m.stdin.Prompt)
	m.chatIn.Width = inner - len(m.chatIn.Prompt)

	m.viewport.Width = inner
	m.viewport.Height = max(height-editorHeight-10, minEditorHeight)

	m.render = NewRenderer(m.theme, inner, m.styled)
	m.viewport.SetContent(m.render.Report(m.snap))
}

func (m Model) View() string {
	sections := []string{
		m.header(),
		m.frame(workflow.FocusEditor).Render(m.editor.View()),
		m.theme.Panel.Render(m.viewport.View()),
	}

	if m.snap.Visibility.InputArea {
		sections = append(sections, m.frame(workflow.FocusInput).Render(m.stdin.View()))
	}

	if m.snap.Visibility.Chat {
		sections = append(sections, m.frame(workflow.FocusChat).Render(m.chatView()))
	}

	if m.status != "" {
		sections = append(sections, m.theme.Warning.Render(m.status))
	}

	sections = append(sections, m.helpView())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) header() string {
	title := m.theme.Header.Render("CodeMate")
	phase := m.theme.Muted.Render(m.snap.Phase.String())

	busy := ""
	if m.snap.Analyzing || m.snap.Running {
		busy = " " + m.spinner.View()
	}

	conn := m.theme.Muted.Render("backend: checking")
	if m.snap.Connectivity.Checked {
		if m.snap.Connectivity.Reachable {
			conn = m.theme.Pass.Render("backend: online")
		} else {
			conn = m.theme.Fail.Render("backend: offline")
		}
	}

	return fmt.Sprintf("%s  %s%s  %s", title, phase, busy, conn)
}

func (m Model) chatView() string {
	mode := m.panel.Mode()
	if mode == pkgConfig.ChatModeUnset {
		return "Select Your Mode\n  1  Student Mode\n  2  Pro Mode"
	}

	var lines []string

	for _, msg := range m.panel.Messages() {
		if msg.Role == chat.RoleUser {
			lines = append(lines, m.theme.CheckName.Render("you: ")+msg.Text)
		} else {
			lines = append(lines, m.theme.Info.Render("bot: ")+m.render.Markdown(msg.Text))
		}
	}

	history := strings.Split(strings.Join(lines, "\n"), "\n")
	if len(history) > chatHistoryLines {
		history = history[len(history)-chatHistoryLines:]
	}

	title := m.theme.Header.Render(fmt.Sprintf("CodeMate Bot - %s mode", mode))
	input := m.chatIn.View()

	if m.panel.Sending() {
		input = m.spinner.View() + " thinking..."
	}

	return title + "\n" + strings.Join(history, "\n") + "\n" + input
}

func (m Model) frame(f workflow.Focus) lipgloss.Style {
	if m.focus == f {
		return m.theme.Focused
	}

	return m.theme.Panel
}

func (m Model) helpView() string {
	parts := make([]string, 0, len(m.keys.help()))

	for _, b := range m.keys.help() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}

	return m.theme.Muted.Render(strings.Join(parts, " · "))
}

func userMessage(err error) string {
	if err == nil {
		return ""
	}

	return workflow.UserMessage(err)
}
