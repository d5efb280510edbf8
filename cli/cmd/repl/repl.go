package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/permute/log"
)

// editDoneMsg is sent when editing completes successfully.
type editDoneMsg struct{ result Result }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after an error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters an error other than
// a script error.
type editErrorMsg struct{ err error }

const prompt = "➜ "

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nameStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatEcho formats the echo of submitted input with prompt and input
// styled.
func formatEcho(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	session      *Session
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
}

// Run starts the REPL on session. History is persisted in cacheDir, or kept
// in memory if cacheDir is empty.
func Run(
	ctx context.Context,
	session *Session,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("bindings", session.Len()),
	)

	var history *History

	if cacheDir == "" {
		history = NewHistory("")
	} else {
		history = NewHistory(filepath.Join(cacheDir, baseHistory))
	}

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("error", err.Error()))
	}

	logger.TraceContext(ctx, "repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(
		newModel(ctx, session, history, logger),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stdout),
	)
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	session *Session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    session,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		suggIdx:    -1,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil

	case editDoneMsg:
		m.logger.TraceContext(m.ctxFunc(), "repl edit complete",
			slog.Int("bindings", m.session.Len()),
		)

		return m, tea.Sequence(
			tea.Println(resultStyle.Render(
				fmt.Sprintf("✔ session updated (%d bindings)", m.session.Len()))),
			printResult(msg.result),
		)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render(
			"Type script items, or " + commandPrefix + "help for commands"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.setInput("")

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1)

	case tea.KeyShiftTab:
		return m.cycle(-1)

	case tea.KeyUp:
		return m.historyMove(-1, false)

	case tea.KeyDown:
		return m.historyMove(1, false)

	case tea.KeyShiftUp:
		return m.historyMove(-1, true)

	case tea.KeyShiftDown:
		return m.historyMove(1, true)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.setInput("")

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		// Space accepts the candidate selected while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.), update input and
	// recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// setInput replaces the input line and leaves history and completion state.
func (m *model) setInput(s string) {
	m.input.SetValue(s)
	m.input.SetCursor(len(s))
	m.tabActive = false
	m.historyIdx = m.history.Len()
	refreshMatches(m, false)
}

// cycle selects the next (dir > 0) or previous candidate. A sole candidate
// is completed immediately.
func (m model) cycle(dir int) (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	n := len(m.matches)

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n

	case dir > 0:
		m.suggIdx = 0

	default:
		m.suggIdx = n - 1
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word in the input with
// replacement and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly one
// candidate remains and the typed word already equals it. autoConfirm is
// false for deletions and cursor movement so that editing never completes
// unexpectedly.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	if m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.input.SetValue("")
	m.matches = nil

	if err := m.history.Add(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.String("error", err.Error()))
	}

	m.historyIdx = m.history.Len()

	echo := tea.Println(formatEcho(input))

	if isCommand(input) {
		m.logger.TraceContext(m.ctxFunc(), "repl command",
			slog.String("input", input))

		return m.executeCommand(input, echo)
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval",
		slog.String("input", input))

	res, err := m.session.Eval(m.ctxFunc(), input)
	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl eval result",
			slog.String("error", err.Error()))

		return m, tea.Sequence(echo, printError(err))
	}

	m.logger.TraceContext(m.ctxFunc(), "repl eval result",
		slog.Int("chunks", len(res.Chunks)),
		slog.Int("bound", len(res.Bound)),
	)

	return m, tea.Sequence(echo, m.printBound(res), printResult(res))
}

func (m model) executeCommand(input string, echo tea.Cmd) (model, tea.Cmd) {
	cmd, args, ok := parseCommand(input)

	m.logger.TraceContext(m.ctxFunc(), "repl exec command",
		slog.String("command", cmd.name),
		slog.Any("args", args),
		slog.Bool("known", ok),
	)

	if !ok {
		err := fmt.Errorf("%w: %s%s (try %shelp)",
			ErrUnknownCommand, commandPrefix, cmd.name, commandPrefix)

		return m, tea.Sequence(echo, printError(err))
	}

	if len(args) > 0 {
		err := fmt.Errorf("%w: %s%s %s",
			ErrUnexpectedInput, commandPrefix, cmd.name, strings.Join(args, " "))

		return m, tea.Sequence(echo, printError(err))
	}

	switch cmd.name {
	case "quit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "list":
		return m, tea.Sequence(echo, tea.Println(m.listBindings()))

	case "reset":
		n := m.session.Len()
		m.session.Reset()

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render(
			fmt.Sprintf("removed %d bindings", n))))

	case "clear":
		return m, tea.ClearScreen

	case "edit":
		return m, tea.Sequence(echo, m.edit())
	}

	return m, echo
}

func (m model) edit() tea.Cmd {
	cmd := &editSessionCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}

		case err != nil:
			return editErrorMsg{err: err}

		case cmd.result == nil:
			return editCancelledMsg{}

		default:
			return editDoneMsg{result: *cmd.result}
		}
	})
}

// historyMove steps through history by dir. With sameKind, entries that are
// not of the current line's kind (command or script input) are skipped.
// Moving past the newest entry clears the input.
func (m model) historyMove(dir int, sameKind bool) (model, tea.Cmd) {
	wantCommand := isCommand(m.input.Value())

	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.At(i)
		if err != nil {
			break
		}

		if sameKind && isCommand(entry) != wantCommand {
			continue
		}

		m.historyIdx = i
		m.input.SetValue(entry)
		m.input.SetCursor(len(entry))
		refreshMatches(&m, false)

		return m, nil
	}

	if dir > 0 && m.historyIdx < m.history.Len() {
		m.setInput("")
	}

	return m, nil
}

// printBound reports the sets bound by let items.
func (m model) printBound(res Result) tea.Cmd {
	if len(res.Bound) == 0 {
		return nil
	}

	return tea.Println(m.describe(res.Bound...))
}

// listBindings describes every session binding.
func (m model) listBindings() string {
	if m.session.Len() == 0 {
		return hintStyle.Render("  no bindings")
	}

	var names []string
	for name := range m.session.Names() {
		names = append(names, name)
	}

	return m.describe(names...)
}

func (m model) describe(names ...string) string {
	var b strings.Builder

	for i, name := range names {
		set, ok := m.session.Lookup(name)
		if !ok {
			continue
		}

		if i > 0 {
			b.WriteString("\n")
		}

		fmt.Fprintf(&b, "  %s %s", nameStyle.Render(name),
			hintStyle.Render(formatPreview(setLiteral(set), set.Len())))
	}

	return b.String()
}

// printResult prints each expansion chunk on its own line.
func printResult(res Result) tea.Cmd {
	if len(res.Chunks) == 0 {
		return nil
	}

	lines := make([]string, len(res.Chunks))
	for i, c := range res.Chunks {
		lines[i] = resultStyle.Render(c.String())
	}

	return tea.Println(strings.Join(lines, "\n"))
}

func printError(err error) tea.Cmd {
	return tea.Println(errorStyle.Render("error: " + err.Error()))
}
