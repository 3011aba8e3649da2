package engine

import (
	"math"

	"optitask/internal/model"
)

// Summary holds the headline numbers for the reports pane.
type Summary struct {
	TotalTasks     int             `json:"totalTasks"`
	CompletedTasks int             `json:"completedTasks"`
	CompletionRate float64         `json:"completionRate"`
	Overloaded     int             `json:"overloaded"`
	TopPerformer   *model.Employee `json:"topPerformer,omitempty"`
}

func Summarize(c Collections) Summary {
	summary := Summary{TotalTasks: len(c.Tasks)}
	for _, task := range c.Tasks {
		if task.Status == model.StatusDone {
			summary.CompletedTasks++
		}
	}
	if summary.TotalTasks > 0 {
		summary.CompletionRate = float64(summary.CompletedTasks) / float64(summary.TotalTasks) * 100
	}

	for i, emp := range c.Employees {
		if emp.AssignedHours > 40 {
			summary.Overloaded++
		}
		if summary.TopPerformer == nil || emp.AssignedHours > summary.TopPerformer.AssignedHours {
			top := c.Employees[i]
			summary.TopPerformer = &top
		}
	}
	return summary
}

type DomainStat struct {
	Domain  model.Domain `json:"domain"`
	Total   int          `json:"total"`
	Done    int          `json:"done"`
	Pending int          `json:"pending"`
	Rate    int          `json:"rate"`
}

// DomainBreakdown reports task completion per work domain, in the fixed
// domain display order.
func DomainBreakdown(c Collections) []DomainStat {
	stats := make([]DomainStat, 0, len(model.WorkDomains))
	for _, domain := range model.WorkDomains {
		stat := DomainStat{Domain: domain}
		for _, task := range c.Tasks {
			if task.Domain != domain {
				continue
			}
			stat.Total++
			if task.Status == model.StatusDone {
				stat.Done++
			}
		}
		stat.Pending = stat.Total - stat.Done
		if stat.Total > 0 {
			stat.Rate = int(math.Round(float64(stat.Done) / float64(stat.Total) * 100))
		}
		stats = append(stats, stat)
	}
	return stats
}
