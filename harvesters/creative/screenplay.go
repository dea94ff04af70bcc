package creative

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"universal-harvester/harvesters"
)

// Scene matches one entry of a screenplay.json document produced by the
// screenplay agent.
type Scene struct {
	SceneNumber     int     `json:"scene_number"`
	DurationSeconds float64 `json:"duration_seconds"`
	ScreenplayText  string  `json:"screenplay_text"`
	Mood            string  `json:"mood"`
}

type ScreenplayHarvester struct {
	path string
}

func NewScreenplayHarvester(path string) *ScreenplayHarvester {
	return &ScreenplayHarvester{path: path}
}

func (h *ScreenplayHarvester) Source() harvesters.Source { return harvesters.SourceScreenplay }

func (h *ScreenplayHarvester) Harvest(ctx context.Context) (harvesters.Payload, error) {
	_ = ctx

	if h.path == "" {
		return nil, fmt.Errorf("screenplay path is not configured")
	}
	b, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("read screenplay: %w", err)
	}

	scenes, err := decodeScenes(b)
	if err != nil {
		return nil, fmt.Errorf("parse screenplay: %w", err)
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("screenplay has no scenes")
	}

	var total float64
	moods := map[string]int{}
	for _, s := range scenes {
		total += s.DurationSeconds
		if s.Mood != "" {
			moods[s.Mood]++
		}
	}

	return harvesters.Payload{
		"scene_count":            len(scenes),
		"total_duration_seconds": total,
		"moods":                  moods,
		"first_scene":            scenes[0].SceneNumber,
		"last_scene":             scenes[len(scenes)-1].SceneNumber,
	}, nil
}

// decodeScenes accepts both a bare scene array and the wrapped
// {"scenes": [...]} form the agents emit.
func decodeScenes(b []byte) ([]Scene, error) {
	var scenes []Scene
	if err := json.Unmarshal(b, &scenes); err == nil {
		return scenes, nil
	}

	var doc struct {
		Scenes []Scene `json:"scenes"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc.Scenes, nil
}
