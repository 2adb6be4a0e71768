// Package ui provides an optional terminal browser for the task collection.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/duke-go/internal/command"
	"github.com/nibzard/duke-go/internal/config"
	"github.com/nibzard/duke-go/internal/storage"
	"github.com/nibzard/duke-go/internal/task"
)

// RunTUI loads the task file named by cfg and starts the browser.
func RunTUI(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	store := storage.New(cfg.DataFile,
		storage.WithStrict(cfg.StrictLoad),
		storage.WithLogger(logger),
	)
	loaded, err := store.Load()
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	model := newTUIModel(cfg, store, command.NewEngine(loaded.Tasks))
	model.skipped = len(loaded.Skipped)
	return runProgram(ctx, model)
}

func runProgram(ctx context.Context, model *tuiModel) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.saveErr {
		return fmt.Errorf("some changes were not saved to %s", m.store.Path)
	}
	return nil
}

// kindFilter restricts the visible tasks to one kind.
type kindFilter struct {
	kind   task.Kind
	active bool
}

func (f kindFilter) match(t task.Task) bool {
	return !f.active || t.Kind() == f.kind
}

type tuiModel struct {
	cfg      *config.Config
	store    *storage.Store
	engine   *command.Engine
	loadErr  error
	skipped  int
	cursor   int
	filter   kindFilter
	message  string
	saveErr  bool
	showHelp bool
}

func newTUIModel(cfg *config.Config, store *storage.Store, engine *command.Engine) *tuiModel {
	return &tuiModel{
		cfg:    cfg,
		store:  store,
		engine: engine,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "x", "enter":
		m.markDone()
	case "d":
		m.deleteSelected()
	case "r", "f5":
		m.reload()
	case "h", "?":
		m.showHelp = !m.showHelp
	case "1":
		m.setFilter(kindFilter{kind: task.KindToDo, active: true})
	case "2":
		m.setFilter(kindFilter{kind: task.KindEvent, active: true})
	case "3":
		m.setFilter(kindFilter{kind: task.KindDeadline, active: true})
	case "0":
		m.setFilter(kindFilter{})
	}
	return m, nil
}

// visible returns the 1-based engine indices of the tasks shown.
func (m *tuiModel) visible() []int {
	var indices []int
	for i, t := range m.engine.Tasks() {
		if m.filter.match(t) {
			indices = append(indices, i+1)
		}
	}
	return indices
}

// selected returns the engine index under the cursor, or 0 when the list
// is empty.
func (m *tuiModel) selected() int {
	indices := m.visible()
	if len(indices) == 0 {
		return 0
	}
	if m.cursor >= len(indices) {
		m.cursor = len(indices) - 1
	}
	return indices[m.cursor]
}

func (m *tuiModel) setFilter(f kindFilter) {
	m.filter = f
	m.cursor = 0
}

func (m *tuiModel) markDone() {
	index := m.selected()
	if index == 0 {
		return
	}
	before, _ := m.engine.Task(index)
	out, err := m.engine.Done(index)
	if err != nil {
		m.message = command.Describe(err)
		return
	}
	m.message = out
	if !before.IsDone() {
		m.flush()
	}
}

func (m *tuiModel) deleteSelected() {
	index := m.selected()
	if index == 0 {
		return
	}
	out, err := m.engine.Delete(index)
	if err != nil {
		m.message = command.Describe(err)
		return
	}
	m.message = out
	m.flush()
	if m.cursor > 0 && m.cursor >= len(m.visible()) {
		m.cursor--
	}
}

func (m *tuiModel) flush() {
	if !m.store.Flush(m.engine.Tasks()) {
		m.saveErr = true
		m.message += "\n(warning: could not save to " + m.store.Path + ")"
	}
}

func (m *tuiModel) reload() {
	loaded, err := m.store.Load()
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.engine = command.NewEngine(loaded.Tasks)
	m.skipped = len(loaded.Skipped)
	m.message = fmt.Sprintf("Reloaded %d tasks.", m.engine.Len())
	if m.cursor >= len(m.visible()) {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.cfg.BotName)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading task file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b)
		return b.String()
	}

	writeOverview(&b, m.engine.Tasks(), m.skipped)

	if m.filter.active {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter.kind))
	}

	m.writeTasks(&b)

	if m.message != "" {
		b.WriteString(m.message + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	indices := m.visible()
	if len(indices) == 0 {
		b.WriteString("  " + command.NoTaskMessage + "\n\n")
		return
	}
	selected := m.selected()
	for _, index := range indices {
		t, err := m.engine.Task(index)
		if err != nil {
			continue
		}
		pointer := " "
		if index == selected {
			pointer = ">"
		}
		b.WriteString(fmt.Sprintf("%s %d: %s\n", pointer, index, t))
	}
	b.WriteString("\n")
}

func writeTitle(b *strings.Builder, name string) {
	title := name + " Tasks"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, tasks []task.Task, skipped int) {
	counts := map[task.Kind]int{}
	done := 0
	for _, t := range tasks {
		counts[t.Kind()]++
		if t.IsDone() {
			done++
		}
	}
	b.WriteString(fmt.Sprintf("  Todo: %d  Event: %d  Deadline: %d  Done: %d/%d\n",
		counts[task.KindToDo],
		counts[task.KindEvent],
		counts[task.KindDeadline],
		done,
		len(tasks),
	))
	if skipped > 0 {
		b.WriteString(fmt.Sprintf("  Skipped %d unreadable lines\n", skipped))
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  up/k down/j  Move selection\n")
	b.WriteString("  x, enter     Mark selected task done\n")
	b.WriteString("  d            Delete selected task\n")
	b.WriteString("  r, F5        Reload task file\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by todo\n")
	b.WriteString("  2            Filter by event\n")
	b.WriteString("  3            Filter by deadline\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString("Press h for help | q to quit\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
