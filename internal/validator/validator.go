package validator

import (
	"github.com/aretw0/moore/pkg/domain"
)

// Report summarizes a table as seen from a start state.
type Report struct {
	Table       string           `json:"table"`
	Start       domain.StateID   `json:"start"`
	States      int              `json:"states"`
	Outputs     []domain.Output  `json:"outputs"`
	Reachable   []domain.StateID `json:"reachable"`
	Unreachable []domain.StateID `json:"unreachable,omitempty"`
}

// Analyze walks the table breadth-first from start.
// States never entered from start are listed as unreachable; they are still valid
// as alternate start states, so this is informational and not an error.
func Analyze(table *domain.Table, start domain.StateID) (*Report, error) {
	startIdx, ok := table.Index(start)
	if !ok {
		return nil, &domain.InvalidStateError{State: start}
	}

	visited := make([]bool, table.Len())
	visited[startIdx] = true
	queue := []int{startIdx}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, s := range domain.Symbols {
			next := table.Successor(current, s)
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	report := &Report{
		Table:   table.Name(),
		Start:   start,
		States:  table.Len(),
		Outputs: table.Outputs(),
	}
	for i, seen := range visited {
		id := table.At(i).ID
		if seen {
			report.Reachable = append(report.Reachable, id)
		} else {
			report.Unreachable = append(report.Unreachable, id)
		}
	}
	return report, nil
}
