package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"universal-harvester/core/internal/events"
	"universal-harvester/harvesters"
)

// SelectorAll runs every registered harvester.
const SelectorAll = "all"

const DefaultTimeout = 30 * time.Second

type BatchStatus string

const (
	BatchSuccess BatchStatus = "success"
	BatchPartial BatchStatus = "partial"
	BatchFailed  BatchStatus = "failed"
)

// Batch is the ordered result of one coordinator run. Its status is
// derived purely from its records.
type Batch struct {
	ID         string              `json:"batch_id"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Status     BatchStatus         `json:"status"`
	Records    []harvesters.Record `json:"records"`
}

func (b Batch) Successes() int {
	n := 0
	for _, rec := range b.Records {
		if rec.Status == harvesters.StatusSuccess {
			n++
		}
	}
	return n
}

// RecordStore is the slice of the store the coordinator writes through.
type RecordStore interface {
	Append(ctx context.Context, rec harvesters.Record) (int64, error)
}

type Coordinator struct {
	reg     *harvesters.Registry
	store   RecordStore
	bus     *events.Bus
	log     *zap.Logger
	timeout time.Duration
}

type Options struct {
	// Timeout bounds each individual harvester invocation.
	Timeout time.Duration
}

func New(reg *harvesters.Registry, st RecordStore, bus *events.Bus, log *zap.Logger, opts Options) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	if bus == nil {
		bus = events.NewBus(log)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Coordinator{reg: reg, store: st, bus: bus, log: log, timeout: timeout}
}

// Run harvests one source, or all of them when selector is "all", stores
// every resulting record and returns the batch. Individual harvester
// failures become failed records; only a store failure aborts the run.
func (c *Coordinator) Run(ctx context.Context, selector string) (Batch, error) {
	sources, err := c.resolve(selector)
	if err != nil {
		return Batch{}, err
	}

	batch := Batch{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	c.log.Info("starting harvest batch",
		zap.String("batch_id", batch.ID),
		zap.String("selector", selector),
		zap.Int("sources", len(sources)))

	records := make([]harvesters.Record, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			rec := c.harvestOne(gctx, batch.ID, src)
			id, err := c.store.Append(gctx, rec)
			if err != nil {
				return err
			}
			rec.ID = id
			records[i] = rec
			c.bus.Publish(events.RecordHarvested, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.Error("harvest batch aborted", zap.String("batch_id", batch.ID), zap.Error(err))
		return Batch{}, err
	}

	// Completion order is nondeterministic; the batch itself is not.
	sort.Slice(records, func(i, j int) bool { return records[i].Source < records[j].Source })

	batch.Records = records
	batch.FinishedAt = time.Now().UTC()
	batch.Status = deriveStatus(records)

	c.log.Info("harvest batch finished",
		zap.String("batch_id", batch.ID),
		zap.String("status", string(batch.Status)),
		zap.Int("successes", batch.Successes()),
		zap.Int("records", len(batch.Records)))

	c.bus.Publish(events.BatchCompleted, batch)
	return batch, nil
}

func (c *Coordinator) resolve(selector string) ([]harvesters.Source, error) {
	if selector == SelectorAll {
		return c.reg.Sources(), nil
	}
	src, err := harvesters.ParseSource(selector)
	if err != nil {
		return nil, err
	}
	if _, ok := c.reg.Lookup(src); !ok {
		return nil, fmt.Errorf("source %q has no registered harvester", src)
	}
	return []harvesters.Source{src}, nil
}

type harvestResult struct {
	payload harvesters.Payload
	err     error
}

// harvestOne never returns an error: every outcome, including timeout and
// panic, is folded into the record.
func (c *Coordinator) harvestOne(ctx context.Context, batchID string, src harvesters.Source) harvesters.Record {
	h, _ := c.reg.Lookup(src)

	hctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan harvestResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- harvestResult{err: fmt.Errorf("harvester panic: %v", r)}
			}
		}()
		payload, err := h.Harvest(hctx)
		done <- harvestResult{payload: payload, err: err}
	}()

	rec := harvesters.Record{
		BatchID: batchID,
		Source:  src,
		Status:  harvesters.StatusSuccess,
	}

	select {
	case res := <-done:
		if res.err != nil {
			rec.Status = harvesters.StatusFailed
			rec.Diagnostic = res.err.Error()
		} else {
			rec.Payload = res.payload
		}
	case <-hctx.Done():
		// In-flight work is abandoned; the goroutine drains into the
		// buffered channel and exits.
		rec.Status = harvesters.StatusFailed
		if errors.Is(hctx.Err(), context.DeadlineExceeded) {
			rec.Diagnostic = fmt.Sprintf("timeout after %s", c.timeout)
		} else {
			rec.Diagnostic = hctx.Err().Error()
		}
	}

	rec.HarvestedAt = time.Now().UTC()
	if rec.Status == harvesters.StatusFailed {
		c.log.Warn("harvester failed",
			zap.String("batch_id", batchID),
			zap.String("source", string(src)),
			zap.String("diagnostic", rec.Diagnostic))
	}
	return rec
}

func deriveStatus(records []harvesters.Record) BatchStatus {
	successes := 0
	for _, rec := range records {
		if rec.Status == harvesters.StatusSuccess {
			successes++
		}
	}
	switch {
	case len(records) == 0:
		return BatchFailed
	case successes == len(records):
		return BatchSuccess
	case successes == 0:
		return BatchFailed
	default:
		return BatchPartial
	}
}
