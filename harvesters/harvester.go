package harvesters

import (
	"context"
	"fmt"
	"time"
)

// Source identifies one category of pipeline data.
type Source string

const (
	SourceTrend        Source = "trend"
	SourceAudio        Source = "audio"
	SourceScreenplay   Source = "screenplay"
	SourceCreator      Source = "creator"
	SourceDistribution Source = "distribution"
	SourceSound        Source = "sound"
)

func AllSources() []Source {
	return []Source{
		SourceTrend,
		SourceAudio,
		SourceScreenplay,
		SourceCreator,
		SourceDistribution,
		SourceSound,
	}
}

func ParseSource(s string) (Source, error) {
	for _, src := range AllSources() {
		if string(src) == s {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown source %q", s)
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Payload is the normalized key-value output of one harvest.
type Payload map[string]any

// Record is one harvest attempt, success or failure. Immutable once stored.
type Record struct {
	ID          int64     `json:"id,omitempty"`
	BatchID     string    `json:"batch_id"`
	Source      Source    `json:"source"`
	HarvestedAt time.Time `json:"harvested_at"`
	Status      Status    `json:"status"`
	Payload     Payload   `json:"payload,omitempty"`
	Diagnostic  string    `json:"diagnostic,omitempty"`
}

// Harvester performs one bounded unit of data collection for its source.
// Failures are reported through the error return; the coordinator turns
// them into failed records.
type Harvester interface {
	Source() Source
	Harvest(ctx context.Context) (Payload, error)
}
