package market

import (
	"context"
	"fmt"
	"net/http"

	"universal-harvester/harvesters"
)

type TrendHarvester struct {
	client *http.Client
	url    string
}

func NewTrendHarvester(client *http.Client, url string) *TrendHarvester {
	if client == nil {
		client = http.DefaultClient
	}
	return &TrendHarvester{client: client, url: url}
}

func (h *TrendHarvester) Source() harvesters.Source { return harvesters.SourceTrend }

func (h *TrendHarvester) Harvest(ctx context.Context) (harvesters.Payload, error) {
	if h.url == "" {
		return nil, fmt.Errorf("trends API URL is not configured")
	}

	var resp struct {
		Topics []struct {
			Topic string  `json:"topic"`
			Score float64 `json:"score"`
		} `json:"topics"`
	}
	if err := getJSON(ctx, h.client, h.url, &resp); err != nil {
		return nil, fmt.Errorf("fetch trends: %w", err)
	}
	if len(resp.Topics) == 0 {
		return nil, fmt.Errorf("trends API returned no topics")
	}

	topics := make([]string, 0, len(resp.Topics))
	top := resp.Topics[0]
	for _, t := range resp.Topics {
		topics = append(topics, t.Topic)
		if t.Score > top.Score {
			top = t
		}
	}

	return harvesters.Payload{
		"topic":       top.Topic,
		"topic_score": top.Score,
		"topics":      topics,
		"topic_count": len(topics),
	}, nil
}
