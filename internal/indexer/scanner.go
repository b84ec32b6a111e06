package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"ethflowScope/internal/metrics"
)

// ErrFetch marks a failed query against the log source.
var ErrFetch = errors.New("fetch logs failed")

// LogSource is the subset of the chain client the scanner needs.
type LogSource interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topic0 []common.Hash) ([]types.Log, error)
}

// ScanConfig holds runtime settings for a scan.
type ScanConfig struct {
	Address       common.Address
	Topic0        common.Hash
	WindowBlocks  uint64
	MaxBlockRange uint64
	// HeadBlock pins the end of the window; zero means the latest block.
	HeadBlock    uint64
	MaxRetries   int
	RetryBackoff time.Duration
}

// ScanResult is the outcome of a completed scan.
type ScanResult struct {
	Head    uint64
	From    uint64
	Ranges  []BlockRange
	Logs    []types.Log
	Clamped bool
}

// Scanner fetches every matching log in a trailing block window, one range at a time.
type Scanner struct {
	cfg     ScanConfig
	source  LogSource
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewScanner builds a Scanner with its dependencies.
func NewScanner(cfg ScanConfig, source LogSource, logger *zap.Logger, m *metrics.Metrics) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		cfg:     cfg,
		source:  source,
		logger:  logger,
		metrics: m,
	}
}

// Scan plans the window and queries each range sequentially, most recent first.
func (s *Scanner) Scan(ctx context.Context) (ScanResult, error) {
	if s.source == nil {
		return ScanResult{}, fmt.Errorf("log source is nil")
	}
	if s.cfg.MaxBlockRange == 0 {
		return ScanResult{}, fmt.Errorf("max block range must be greater than zero")
	}
	if s.cfg.WindowBlocks == 0 {
		return ScanResult{}, fmt.Errorf("window must cover at least one block")
	}

	head := s.cfg.HeadBlock
	if head == 0 {
		err := s.retry(0, 0).do(ctx, func(ctx context.Context) error {
			var err error
			head, err = s.source.LatestBlockNumber(ctx)
			return err
		})
		if err != nil {
			return ScanResult{}, fmt.Errorf("%w: latest block: %w", ErrFetch, err)
		}
	}

	total, clamped := ClampWindow(head, s.cfg.WindowBlocks)
	if clamped {
		s.logger.Warn("window starts before genesis, clamping to block 0",
			zap.Uint64("head", head),
			zap.Uint64("requested_blocks", s.cfg.WindowBlocks),
		)
	}

	ranges, err := PlanRanges(head, total, s.cfg.MaxBlockRange)
	if err != nil {
		return ScanResult{}, err
	}

	result := ScanResult{
		Head:    head,
		From:    head - total,
		Ranges:  ranges,
		Clamped: clamped,
	}
	s.metrics.ObserveWindow(result.From, result.Head)
	s.logger.Info("scan planned",
		zap.Uint64("from", result.From),
		zap.Uint64("head", head),
		zap.Int("ranges", len(ranges)),
		zap.Uint64("max_block_range", s.cfg.MaxBlockRange),
	)

	for _, blockRange := range ranges {
		select {
		case <-ctx.Done():
			return ScanResult{}, ctx.Err()
		default:
		}

		s.logger.Info("fetch logs", zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))

		logs, err := s.fetchRange(ctx, blockRange)
		if err != nil {
			return ScanResult{}, fmt.Errorf("%w: range [%d, %d]: %w", ErrFetch, blockRange.From, blockRange.To, err)
		}

		result.Logs = append(result.Logs, logs...)
		s.metrics.ObserveRange(len(logs))
		s.logger.Info("range complete", zap.Int("logs", len(logs)), zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))
	}

	return result, nil
}

func (s *Scanner) fetchRange(ctx context.Context, blockRange BlockRange) ([]types.Log, error) {
	addresses := []common.Address{s.cfg.Address}
	var topic0 []common.Hash
	if s.cfg.Topic0 != (common.Hash{}) {
		topic0 = []common.Hash{s.cfg.Topic0}
	}

	var logs []types.Log
	err := s.retry(blockRange.From, blockRange.To).do(ctx, func(ctx context.Context) error {
		var err error
		logs, err = s.source.FilterLogs(ctx, blockRange.From, blockRange.To, addresses, topic0)
		return err
	})
	return logs, err
}

func (s *Scanner) retry(from, to uint64) retryPolicy {
	return retryPolicy{
		maxRetries: s.cfg.MaxRetries,
		baseDelay:  s.cfg.RetryBackoff,
		onRetry: func(attempt int, delay time.Duration, err error) {
			s.metrics.ObserveRetry()
			s.logger.Warn("rpc call failed, retrying",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Uint64("from", from),
				zap.Uint64("to", to),
			)
		},
	}
}
