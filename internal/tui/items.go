package tui

import (
	"fmt"
	"strings"

	"optitask/internal/engine"
	"optitask/internal/model"
)

func formatTaskSummary(task model.Task, employees []model.Employee) string {
	parts := []string{task.Name, fmt.Sprintf("%dh", task.Hours), string(task.Priority), string(task.Domain)}
	if task.AssignedTo != nil {
		parts = append(parts, "@"+employeeName(employees, *task.AssignedTo))
	}
	if task.Deadline != "" {
		parts = append(parts, "due "+task.Deadline)
	}
	return strings.Join(parts, " | ")
}

func formatWorkloadRow(emp model.Employee) string {
	return fmt.Sprintf("%s (%s) | %s | %d/40 hrs | %s",
		emp.Name, emp.Role, emp.Domain, emp.AssignedHours, engine.LoadStatus(emp.AssignedHours))
}

func formatCandidateRow(emp model.Employee, taskHours int64) string {
	row := fmt.Sprintf("%s | %s | %d/40 hrs | %s",
		emp.Name, emp.Domain, emp.AssignedHours, engine.LoadStatus(emp.AssignedHours))
	if engine.WillOverload(emp, taskHours) {
		row += fmt.Sprintf(" | will be %d/40", emp.AssignedHours+taskHours)
	}
	return row
}

func employeeName(employees []model.Employee, id int64) string {
	for _, emp := range employees {
		if emp.ID == id {
			return emp.Name
		}
	}
	return "unknown"
}

func reportLines(c engine.Collections) []string {
	summary := engine.Summarize(c)

	top := "n/a"
	if summary.TopPerformer != nil {
		top = fmt.Sprintf("%s (%s, %dh)", summary.TopPerformer.Name, summary.TopPerformer.Domain, summary.TopPerformer.AssignedHours)
	}

	lines := []string{
		fmt.Sprintf("Total tasks:     %d (%d completed)", summary.TotalTasks, summary.CompletedTasks),
		fmt.Sprintf("Completion rate: %.1f%%", summary.CompletionRate),
		fmt.Sprintf("Top performer:   %s", top),
		fmt.Sprintf("Overloaded:      %d", summary.Overloaded),
		"",
		"Domain          Total  Done  Pending  Rate",
	}
	for _, stat := range engine.DomainBreakdown(c) {
		lines = append(lines, fmt.Sprintf("%-15s %5d %5d %8d %4d%%", stat.Domain, stat.Total, stat.Done, stat.Pending, stat.Rate))
	}
	return lines
}
