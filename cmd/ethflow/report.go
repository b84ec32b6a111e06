package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ethflowScope/internal/aggregate"
	"ethflowScope/internal/appdata"
	"ethflowScope/internal/chain"
	"ethflowScope/internal/config"
	"ethflowScope/internal/ethflow"
	"ethflowScope/internal/indexer"
	"ethflowScope/internal/metrics"
	"ethflowScope/internal/network"
	"ethflowScope/internal/report"
	"ethflowScope/internal/storage"
)

func runReport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: log level: %w", config.ErrInvalidConfig, err)
	}
	defer logger.Sync()

	networks := network.Default()
	if err := cfg.Validate(networks.Names()); err != nil {
		return err
	}
	chainNet, err := networks.Lookup(cfg.Network)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	contract, err := indexer.ParseAddress(cfg.Address)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	rpcURL := cfg.RPCURL
	if rpcURL == "" {
		rpcURL = chainNet.RPCURL
	}
	blockTime := cfg.BlockTime
	if blockTime == 0 {
		blockTime = chainNet.BlockTime
	}
	windowBlocks, err := indexer.BlocksForWindow(cfg.Window(), blockTime)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	decoder, err := ethflow.NewDecoder()
	if err != nil {
		return err
	}

	logger.Info("report start",
		zap.String("address", contract.Hex()),
		zap.String("network", chainNet.Name),
		zap.String("rpc", rpcURL),
		zap.Int("days", cfg.Days),
		zap.Duration("block_time", blockTime),
		zap.Uint64("window_blocks", windowBlocks),
		zap.Uint64("max_block_range", cfg.MaxBlockRange),
		zap.Uint64("to", cfg.ToBlock),
		zap.String("format", cfg.Format),
	)

	m := metrics.New(chainNet.Name)
	resolver := appdata.NewResolver(appdata.Config{
		BaseURL: cfg.APIURL,
		Network: chainNet.Name,
		Timeout: cfg.LookupTimeout,
		Retries: cfg.LookupRetries,
	}, logger, m)
	presenter, err := report.NewPresenter(cmd.OutOrStdout(), cfg.Format, resolver)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	defer func() {
		if err := m.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("write metrics textfile", zap.Error(err), zap.String("path", cfg.MetricsTextfile))
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.Dial(ctx, rpcURL, chain.Options{
		ExpectedChainID: chainNet.ChainID,
		RequestTimeout:  cfg.RPCTimeout,
	})
	if err != nil {
		return fmt.Errorf("%w: connect rpc: %w", indexer.ErrFetch, err)
	}
	defer chainClient.Close()
	logger.Info("connected", zap.String("rpc", rpcURL), zap.Uint64("chain_id", chainNet.ChainID))

	scanner := indexer.NewScanner(indexer.ScanConfig{
		Address:       contract,
		Topic0:        decoder.Topic0(),
		WindowBlocks:  windowBlocks,
		MaxBlockRange: cfg.MaxBlockRange,
		HeadBlock:     cfg.ToBlock,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  cfg.RetryBackoff,
	}, chainClient, logger, m)

	scan, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}

	var sink storage.Storage
	if cfg.EventsOut != "" {
		sink = storage.NewJsonlStorage(cfg.EventsOut)
	}

	agg := aggregate.NewAggregator(aggregate.Config{
		Network:         chainNet.Name,
		SkipUndecodable: cfg.SkipUndecodable,
	}, decoder, sink, logger, m)

	result, err := agg.Run(ctx, scan.Logs)
	if err != nil {
		return err
	}

	return presenter.Render(ctx, report.Summary{
		Days:      cfg.Days,
		Events:    result.Events,
		Contract:  contract.Hex(),
		Network:   chainNet.Name,
		FromBlock: scan.From,
		HeadBlock: scan.Head,
	}, result.Table.Sorted())
}
