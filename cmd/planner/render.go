package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/yukikurage/study-planner-api/internal/planner"
)

var (
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dueTodayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	upcomingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	subjectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1)
	idStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderBoard(out io.Writer, board *planner.Board, now time.Time) {
	if board.Offline() || board.PendingCount() > 0 {
		msg := fmt.Sprintf("%d change(s) not yet saved to the server", board.PendingCount())
		if board.Offline() {
			msg = "offline: " + msg
		}
		fmt.Fprintln(out, bannerStyle.Render(msg))
	}

	items := board.Items(now)
	if len(items) == 0 {
		fmt.Fprintln(out, "Planner is empty. Add your first task with \"planner add\".")
		return
	}

	for _, item := range items {
		fmt.Fprintln(out, renderItem(item))
	}
}

func renderItem(item planner.Item) string {
	task := item.Task

	title := task.Title
	if task.IsCompleted {
		title = completedStyle.Render(title)
	}

	var b strings.Builder
	b.WriteString(idStyle.Render(task.ID))
	b.WriteString("  ")
	b.WriteString(subjectStyle.Render("[" + task.Subject + "]"))
	b.WriteString(" ")
	b.WriteString(title)
	b.WriteString("  due ")
	b.WriteString(task.DueDate.Format("Jan 2, 2006"))
	b.WriteString("  ")
	b.WriteString(labelStyle(item).Render(item.Label))
	if item.Pending {
		b.WriteString(" ")
		b.WriteString(pendingStyle.Render("[pending]"))
	}
	return b.String()
}

func labelStyle(item planner.Item) lipgloss.Style {
	switch {
	case item.Task.IsCompleted:
		return completedStyle
	case item.Label == "Due Today":
		return dueTodayStyle
	case strings.HasPrefix(item.Label, "Overdue"):
		return overdueStyle
	default:
		return upcomingStyle
	}
}

func renderSyncReport(out io.Writer, report planner.SyncReport) {
	fmt.Fprintf(out, "synced %d change(s)", report.Applied)
	if report.Remaining > 0 {
		fmt.Fprintf(out, ", %d still pending", report.Remaining)
	}
	fmt.Fprintln(out)
	for _, dropped := range report.Dropped {
		fmt.Fprintf(out, "dropped %s %s: %v\n", dropped.Op.Kind, dropped.Op.TaskID, dropped.Err)
	}
}
