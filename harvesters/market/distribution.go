package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"universal-harvester/harvesters"
)

type DistributionHarvester struct {
	client *http.Client
	url    string
}

func NewDistributionHarvester(client *http.Client, url string) *DistributionHarvester {
	if client == nil {
		client = http.DefaultClient
	}
	return &DistributionHarvester{client: client, url: url}
}

func (h *DistributionHarvester) Source() harvesters.Source { return harvesters.SourceDistribution }

func (h *DistributionHarvester) Harvest(ctx context.Context) (harvesters.Payload, error) {
	if h.url == "" {
		return nil, fmt.Errorf("distribution API URL is not configured")
	}

	var resp struct {
		Platforms []struct {
			Platform       string  `json:"platform"`
			Followers      int64   `json:"followers"`
			EngagementRate float64 `json:"engagement_rate"`
		} `json:"platforms"`
	}
	if err := getJSON(ctx, h.client, h.url, &resp); err != nil {
		return nil, fmt.Errorf("fetch distribution stats: %w", err)
	}
	if len(resp.Platforms) == 0 {
		return nil, fmt.Errorf("distribution API returned no platforms")
	}

	platforms := make([]string, 0, len(resp.Platforms))
	var followers int64
	best := resp.Platforms[0]
	for _, p := range resp.Platforms {
		platforms = append(platforms, p.Platform)
		followers += p.Followers
		if p.EngagementRate > best.EngagementRate {
			best = p
		}
	}

	return harvesters.Payload{
		"platforms":       platforms,
		"platform_count":  len(platforms),
		"total_followers": followers,
		"best_platform":   best.Platform,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
