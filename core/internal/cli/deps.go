package cli

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"universal-harvester/core/internal/config"
	"universal-harvester/core/internal/coordinator"
	"universal-harvester/core/internal/events"
	"universal-harvester/core/internal/store"
	"universal-harvester/harvesters"
	"universal-harvester/harvesters/creative"
	"universal-harvester/harvesters/market"
	"universal-harvester/harvesters/media"
)

// deps holds the wired dependencies shared by the commands. The
// registry is built once here and never mutated afterwards.
type deps struct {
	cfg   config.Config
	log   *zap.Logger
	store *store.Store
	reg   *harvesters.Registry
	bus   *events.Bus
	coord *coordinator.Coordinator
}

func buildDeps(dbPath string, timeout time.Duration) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	log, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	client := &http.Client{Timeout: cfg.Timeout}
	reg, err := harvesters.NewRegistry(
		market.NewTrendHarvester(client, cfg.TrendsURL),
		media.NewAudioHarvester(cfg.AudioDir),
		creative.NewScreenplayHarvester(cfg.ScreenplayPath),
		creative.NewCreatorHarvester(cfg.ConceptsPath),
		market.NewDistributionHarvester(client, cfg.DistributionURL),
		media.NewSoundHarvester(cfg.SoundDir),
	)
	if err != nil {
		st.Close()
		return nil, err
	}

	bus := events.NewBus(log)
	coord := coordinator.New(reg, st, bus, log, coordinator.Options{Timeout: cfg.Timeout})

	return &deps{cfg: cfg, log: log, store: st, reg: reg, bus: bus, coord: coord}, nil
}

func (rt *deps) close() {
	rt.store.Close()
	_ = rt.log.Sync()
}
