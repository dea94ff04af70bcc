package media

import (
	"context"
	"fmt"

	"universal-harvester/harvesters"
)

var soundExts = map[string]bool{
	".wav":  true,
	".aiff": true,
	".ogg":  true,
	".mp3":  true,
}

// SoundHarvester summarizes the sound-effects library directory.
type SoundHarvester struct {
	dir string
}

func NewSoundHarvester(dir string) *SoundHarvester { return &SoundHarvester{dir: dir} }

func (h *SoundHarvester) Source() harvesters.Source { return harvesters.SourceSound }

func (h *SoundHarvester) Harvest(ctx context.Context) (harvesters.Payload, error) {
	if h.dir == "" {
		return nil, fmt.Errorf("sound directory is not configured")
	}
	res, err := scanDir(ctx, h.dir, soundExts)
	if err != nil {
		return nil, fmt.Errorf("scan sound directory: %w", err)
	}

	return harvesters.Payload{
		"effect_count": res.Count,
		"total_bytes":  res.TotalBytes,
		"by_extension": res.ByExt,
	}, nil
}
