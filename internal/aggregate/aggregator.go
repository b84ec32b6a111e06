package aggregate

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"ethflowScope/internal/ethflow"
	"ethflowScope/internal/metrics"
	"ethflowScope/internal/model"
	"ethflowScope/internal/storage"
)

// Decoder extracts an order placement from a raw log.
type Decoder interface {
	Decode(log types.Log) (ethflow.OrderPlacement, error)
}

// Config controls aggregation behavior.
type Config struct {
	Network string
	// SkipUndecodable logs and skips logs that fail to decode instead of aborting.
	SkipUndecodable bool
	// BatchSize is the number of records per sink write.
	BatchSize int
}

// Result summarizes an aggregation pass.
type Result struct {
	Table   *UsageTable
	Events  int
	Skipped int
}

// Aggregator builds the app data frequency table from fetched logs.
type Aggregator struct {
	cfg     Config
	decoder Decoder
	sink    storage.Storage
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewAggregator wires an aggregator. sink may be nil.
func NewAggregator(cfg Config, decoder Decoder, sink storage.Storage, logger *zap.Logger, m *metrics.Metrics) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	return &Aggregator{
		cfg:     cfg,
		decoder: decoder,
		sink:    sink,
		logger:  logger,
		metrics: m,
	}
}

// Run decodes every log in order and counts its app data hash.
func (a *Aggregator) Run(ctx context.Context, logs []types.Log) (Result, error) {
	if a.decoder == nil {
		return Result{}, fmt.Errorf("decoder is nil")
	}

	result := Result{Table: NewUsageTable()}
	var records []model.OrderRecord

	for _, log := range logs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		placement, err := a.decoder.Decode(log)
		if err != nil {
			a.metrics.ObserveDecode(false)
			if !a.cfg.SkipUndecodable {
				return Result{}, err
			}
			a.logger.Warn("skip undecodable log",
				zap.Error(err),
				zap.String("tx_hash", log.TxHash.Hex()),
				zap.Uint64("block_number", log.BlockNumber),
				zap.Uint("log_index", log.Index),
			)
			result.Skipped++
			continue
		}
		a.metrics.ObserveDecode(true)

		result.Table.Add(placement.AppData())
		result.Events++

		if a.sink != nil {
			records = append(records, ethflow.BuildRecord(a.cfg.Network, placement))
		}
	}

	if err := a.store(records); err != nil {
		return Result{}, err
	}

	a.logger.Info("aggregation complete",
		zap.Int("events", result.Events),
		zap.Int("distinct_app_data", result.Table.Len()),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// store hands records to the sink in BatchSize chunks. It runs only after every
// log decoded, so an aborted run writes nothing.
func (a *Aggregator) store(records []model.OrderRecord) error {
	if a.sink == nil {
		return nil
	}
	if len(records) == 0 {
		return a.sink.PutOrderBatch(nil)
	}
	for start := 0; start < len(records); start += a.cfg.BatchSize {
		end := start + a.cfg.BatchSize
		if end > len(records) {
			end = len(records)
		}
		if err := a.sink.PutOrderBatch(records[start:end]); err != nil {
			return fmt.Errorf("store orders: %w", err)
		}
	}
	return nil
}
