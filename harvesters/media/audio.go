package media

import (
	"context"
	"fmt"

	"universal-harvester/harvesters"
)

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
}

// AudioHarvester summarizes the rendered track directory.
type AudioHarvester struct {
	dir string
}

func NewAudioHarvester(dir string) *AudioHarvester { return &AudioHarvester{dir: dir} }

func (h *AudioHarvester) Source() harvesters.Source { return harvesters.SourceAudio }

func (h *AudioHarvester) Harvest(ctx context.Context) (harvesters.Payload, error) {
	if h.dir == "" {
		return nil, fmt.Errorf("audio directory is not configured")
	}
	res, err := scanDir(ctx, h.dir, audioExts)
	if err != nil {
		return nil, fmt.Errorf("scan audio directory: %w", err)
	}

	return harvesters.Payload{
		"track_count":  res.Count,
		"total_bytes":  res.TotalBytes,
		"by_extension": res.ByExt,
	}, nil
}
