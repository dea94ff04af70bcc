package creative

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"universal-harvester/harvesters"
)

// CreatorHarvester reads the creative agent's output document, a JSON
// object carrying a song_concepts array.
type CreatorHarvester struct {
	path string
}

func NewCreatorHarvester(path string) *CreatorHarvester {
	return &CreatorHarvester{path: path}
}

func (h *CreatorHarvester) Source() harvesters.Source { return harvesters.SourceCreator }

func (h *CreatorHarvester) Harvest(ctx context.Context) (harvesters.Payload, error) {
	_ = ctx

	if h.path == "" {
		return nil, fmt.Errorf("creator concepts path is not configured")
	}
	b, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("read concepts: %w", err)
	}

	var doc struct {
		SongConcepts []struct {
			Title string `json:"title"`
			Genre string `json:"genre"`
			Mood  string `json:"mood"`
		} `json:"song_concepts"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse concepts: %w", err)
	}
	if len(doc.SongConcepts) == 0 {
		return nil, fmt.Errorf("concepts document has no song_concepts")
	}

	titles := make([]string, 0, len(doc.SongConcepts))
	genres := map[string]int{}
	for _, c := range doc.SongConcepts {
		titles = append(titles, c.Title)
		if c.Genre != "" {
			genres[c.Genre]++
		}
	}

	return harvesters.Payload{
		"concept_count": len(doc.SongConcepts),
		"titles":        titles,
		"genres":        genres,
	}, nil
}
