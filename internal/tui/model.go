package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"flowfocus/internal/engine"
	"flowfocus/internal/storage"
	"flowfocus/internal/ui"
)

type dashModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	stats  *storage.UserStats
	tasks  []storage.Task
	earned map[string]bool

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	stats  *storage.UserStats
	tasks  []storage.Task
	earned map[string]bool
	err    error
}

type completedMsg struct {
	id  int64
	res *engine.CompleteResult
	err error
}

func newDashModel(ctx context.Context, svc *engine.Service) dashModel {
	return dashModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m dashModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m dashModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.svc.StatsRepo().GetOrCreateMain(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		tasks, err := m.svc.TaskRepo().ListAll(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		earned, err := m.svc.AchievementRepo().ListEarnedKeys(m.ctx, stats.Key)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{stats: stats, tasks: tasks, earned: earned}
	}
}

func (m dashModel) completeCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, id)
		return completedMsg{id: id, res: res, err: err}
	}
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.stats = msg.stats
		m.tasks = msg.tasks
		m.earned = msg.earned
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		line := fmt.Sprintf("Completed %d: +%d XP (level %d → %d)", msg.res.TaskID, msg.res.XPAwarded, msg.res.LevelBefore, msg.res.LevelAfter)
		for _, u := range msg.res.Unlocked {
			line += fmt.Sprintf(" | unlocked %s (+%d pts)", u.Name, u.Points)
		}
		m.lastLog = line
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.openTasks())-1 {
				m.selected++
			}
			return m, nil
		case "c", " ":
			open := m.openTasks()
			if m.selected < 0 || m.selected >= len(open) {
				return m, nil
			}
			t := open[m.selected]
			m.lastLog = fmt.Sprintf("Completing %d…", t.ID)
			return m, m.completeCmd(t.ID)
		}
	}
	return m, nil
}

func (m dashModel) openTasks() []storage.Task {
	var out []storage.Task
	for _, t := range m.tasks {
		if t.Status == "pending" {
			out = append(out, t)
		}
	}
	return out
}

func (m dashModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := "\n" + m.lastLog

	// Simple 2-column layout.
	leftW := 28
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m dashModel) renderHeader() string {
	if m.stats == nil {
		return "FlowFocus (loading…)"
	}
	lvl := engine.LevelForXP(m.stats.XP)
	bar := progressBar(engine.ProgressToNextLevel(m.stats.XP), engine.XPPerLevel, 30)
	return fmt.Sprintf("%s | Level %d | XP %d %s | Points %d",
		ui.Title.Render("FlowFocus"), lvl, m.stats.XP, ui.Dim.Render(bar), m.stats.TotalPoints)
}

func (m dashModel) renderSidebar() string {
	if m.stats == nil {
		return "Stats\n\nLoading…"
	}
	catalogSize := len(engine.Catalog())
	lines := []string{
		"Stats",
		fmt.Sprintf("- Tasks done: %d", m.stats.TodosCompleted),
		fmt.Sprintf("- Notes: %d", m.stats.NotesCreated),
		fmt.Sprintf("- Habits: %d", m.stats.HabitsTracked),
		fmt.Sprintf("- Flashcards: %d", m.stats.FlashcardsStudied),
		fmt.Sprintf("- Focus: %d min (%d sessions)", m.stats.FocusMinutes, m.stats.PomodoroSessions),
		fmt.Sprintf("- Streak: %d (best %d)", m.stats.StreakDays, m.stats.LongestStreak),
		fmt.Sprintf("- Achievements: %d/%d", len(m.earned), catalogSize),
		"",
		"Keys",
		"- ↑/↓ or j/k: move",
		"- c/space: complete",
		"- r: refresh",
		"- q: quit",
	}
	return strings.Join(lines, "\n")
}

func (m dashModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	open := m.openTasks()
	out := []string{ui.H2.Render("Up Next")}
	if len(open) == 0 {
		out = append(out, "(nothing pending; add a task with `ff add`)")
		return strings.Join(out, "\n")
	}
	for i, t := range open {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		due := ""
		if t.DueDate != nil {
			due = " due " + t.DueDate.Format("2006-01-02")
		}
		repeat := ""
		if p := engine.PatternFromTask(&t); p != nil {
			repeat = " [" + engine.FormatRecurringPattern(p) + "]"
		}
		out = append(out, fmt.Sprintf("%s%d %s%s%s", cursor, t.ID, t.Title, due, repeat))
	}
	return strings.Join(out, "\n")
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
