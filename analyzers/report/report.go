package report

import (
	"time"

	"universal-harvester/harvesters"
)

type SourceStats struct {
	Source         harvesters.Source `json:"source"`
	Attempts       int               `json:"attempts"`
	Successes      int               `json:"successes"`
	Failures       int               `json:"failures"`
	FailureRate    float64           `json:"failure_rate"`
	LastSuccess    *time.Time        `json:"last_success,omitempty"`
	LastDiagnostic string            `json:"last_diagnostic,omitempty"`
}

type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Sources     []SourceStats `json:"sources"`
}

// Build aggregates per-source statistics from stored records. Sources with
// no records still appear with zero counts so the report always covers the
// full registry.
func Build(records []harvesters.Record, order []harvesters.Source) Report {
	bySource := make(map[harvesters.Source]*SourceStats, len(order))
	rep := Report{GeneratedAt: time.Now().UTC()}

	for _, src := range order {
		bySource[src] = &SourceStats{Source: src}
	}

	for _, rec := range records {
		st, ok := bySource[rec.Source]
		if !ok {
			st = &SourceStats{Source: rec.Source}
			bySource[rec.Source] = st
			order = append(order, rec.Source)
		}
		st.Attempts++
		switch rec.Status {
		case harvesters.StatusSuccess:
			st.Successes++
			at := rec.HarvestedAt
			st.LastSuccess = &at
		case harvesters.StatusFailed:
			st.Failures++
			st.LastDiagnostic = rec.Diagnostic
		}
	}

	for _, src := range order {
		st := bySource[src]
		if st.Attempts > 0 {
			st.FailureRate = float64(st.Failures) / float64(st.Attempts)
		}
		rep.Sources = append(rep.Sources, *st)
	}
	return rep
}
