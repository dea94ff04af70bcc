package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"universal-harvester/agents/internal/retry"
)

// Config drives the scheduling agent: it periodically triggers a full
// harvest on a running server.
type Config struct {
	ServerURL string
	Type      string
	Every     time.Duration
	Attempts  int
	Backoff   time.Duration
}

type batchSummary struct {
	BatchID string `json:"batch_id"`
	Status  string `json:"status"`
	Records []struct {
		Source string `json:"source"`
		Status string `json:"status"`
	} `json:"records"`
}

// Run triggers harvests until ctx is canceled.
func Run(ctx context.Context, cfg Config, log *zap.Logger) error {
	if cfg.ServerURL == "" {
		return fmt.Errorf("server URL is required")
	}
	if cfg.Type == "" {
		cfg.Type = "all"
	}
	if cfg.Every <= 0 {
		cfg.Every = 15 * time.Minute
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 4
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}

	client := &http.Client{Timeout: 2 * time.Minute}

	// First run immediately, then on the interval.
	if err := triggerWithRetry(ctx, client, cfg, log); err != nil {
		log.Warn("harvest trigger failed", zap.Error(err))
	}

	ticker := time.NewTicker(cfg.Every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := triggerWithRetry(ctx, client, cfg, log); err != nil {
				log.Warn("harvest trigger failed", zap.Error(err))
			}
		}
	}
}

func triggerWithRetry(ctx context.Context, client *http.Client, cfg Config, log *zap.Logger) error {
	return retry.Execute(ctx, cfg.Attempts, cfg.Backoff, func() error {
		summary, err := trigger(ctx, client, cfg.ServerURL, cfg.Type)
		if err != nil {
			return err
		}
		log.Info("harvest triggered",
			zap.String("batch_id", summary.BatchID),
			zap.String("status", summary.Status),
			zap.Int("records", len(summary.Records)))
		return nil
	})
}

func trigger(ctx context.Context, client *http.Client, serverURL, harvestType string) (batchSummary, error) {
	body, err := json.Marshal(map[string]string{"type": harvestType})
	if err != nil {
		return batchSummary{}, err
	}

	url := strings.TrimRight(serverURL, "/") + "/harvest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return batchSummary{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return batchSummary{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return batchSummary{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var summary batchSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return batchSummary{}, err
	}
	return summary, nil
}
