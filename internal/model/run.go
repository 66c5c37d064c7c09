package model

import "time"

// Run records one pipeline execution for the history log.
type Run struct {
	StartedAt    time.Time
	FinishedAt   time.Time
	ID           string
	NetlistPath  string
	OutputPath   string
	ConfigSource string
	Nets         []RunNet
	NetCount     int
}

// RunNet is the stored outcome for one net of a run.
type RunNet struct {
	NetName     string
	Category    string
	SignalType  string
	RuleMatched string
	Impedance   string
	Priority    int
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// CategoryCounts tallies nets per category in first-seen order.
func (r Run) CategoryCounts() []CategoryCount {
	index := make(map[string]int)
	var counts []CategoryCount
	for _, net := range r.Nets {
		i, ok := index[net.Category]
		if !ok {
			index[net.Category] = len(counts)
			counts = append(counts, CategoryCount{Category: net.Category})
			i = len(counts) - 1
		}
		counts[i].Count++
	}
	return counts
}
