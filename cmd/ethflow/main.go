package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ethflowScope/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, config.ErrInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ethflow",
		Short:        "Eth-flow order app data usage report",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Count app data used by recent eth-flow orders and recover their appCode",
		RunE:  runReport,
	}

	reportCmd.Flags().String("address", "", "eth-flow contract address (required)")
	reportCmd.Flags().String("network", "", "network: mainnet, xdai, sepolia, arbitrum_one, base (required)")
	reportCmd.Flags().String("rpc", "", "JSON-RPC URL, defaults to the network's public endpoint")
	reportCmd.Flags().Duration("rpc-timeout", 30*time.Second, "timeout per JSON-RPC call, 0 disables it")
	reportCmd.Flags().Int("days", 30, "number of days to look back")
	reportCmd.Flags().Duration("block-time", 0, "assumed time per block, 0 uses the network default")
	reportCmd.Flags().Uint64("max-block-range", 10000, "maximum blocks per eth_getLogs query")
	reportCmd.Flags().Uint64("to", 0, "last block of the window (inclusive), 0 means latest")
	reportCmd.Flags().Int("max-retries", 3, "retries per block range on RPC failure")
	reportCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	reportCmd.Flags().String("api-url", "https://api.cow.fi", "app data API base URL")
	reportCmd.Flags().Duration("lookup-timeout", 10*time.Second, "timeout per app data lookup")
	reportCmd.Flags().Int("lookup-retries", 2, "retries per app data lookup on 429/5xx")
	reportCmd.Flags().String("format", "text", "report format (text, json)")
	reportCmd.Flags().String("events-out", "", "optional JSONL path for decoded order placements, written only after decoding completes")
	reportCmd.Flags().String("metrics-textfile", "", "optional Prometheus textfile path written at exit")
	reportCmd.Flags().Bool("skip-undecodable", false, "skip logs that fail to decode instead of aborting")
	reportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(reportCmd)
	return root
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
