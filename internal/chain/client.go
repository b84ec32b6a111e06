// Package chain reads order placement logs from an EVM JSON-RPC endpoint.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrChainMismatch is returned when the endpoint reports a chain id other than the expected one.
var ErrChainMismatch = errors.New("rpc endpoint serves a different chain")

// Options tunes a Client.
type Options struct {
	// ExpectedChainID is checked against eth_chainId on dial. Zero skips the check.
	ExpectedChainID uint64
	// RequestTimeout bounds every RPC call. Zero leaves calls bounded only by the caller's context.
	RequestTimeout time.Duration
}

// Client is the JSON-RPC log source used by the scanner.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	timeout   time.Duration
}

// Dial connects to rpcURL and verifies the chain id when one is expected.
func Dial(ctx context.Context, rpcURL string, opts Options) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}

	c := &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		timeout:   opts.RequestTimeout,
	}
	if opts.ExpectedChainID == 0 {
		return c, nil
	}

	chainID, err := c.ChainID(ctx)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != opts.ExpectedChainID {
		c.Close()
		return nil, fmt.Errorf("%w: expected %d, got %s", ErrChainMismatch, opts.ExpectedChainID, chainID)
	}
	return c, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// ChainID returns the chain id reported by the node.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.ethClient.ChainID(ctx)
}

// LatestBlockNumber returns the number of the most recent block.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.ethClient.BlockNumber(ctx)
}

// FilterLogs returns logs emitted by addresses in the inclusive range [fromBlock, toBlock].
// An empty topic0 matches every event.
func (c *Client) FilterLogs(
	ctx context.Context,
	fromBlock uint64,
	toBlock uint64,
	addresses []common.Address,
	topic0 []common.Hash,
) ([]types.Log, error) {
	if fromBlock > toBlock {
		return nil, fmt.Errorf("invalid block range [%d, %d]", fromBlock, toBlock)
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: addresses,
	}
	if len(topic0) > 0 {
		query.Topics = [][]common.Hash{topic0}
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.ethClient.FilterLogs(ctx, query)
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
