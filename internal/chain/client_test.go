package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type fakeNode struct {
	mu       sync.Mutex
	chainID  string
	head     string
	logs     []map[string]any
	delay    time.Duration
	requests []rpcRequest
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	n.mu.Lock()
	n.requests = append(n.requests, req)
	n.mu.Unlock()

	if n.delay > 0 {
		time.Sleep(n.delay)
	}

	var result any
	switch req.Method {
	case "eth_chainId":
		result = n.chainID
	case "eth_blockNumber":
		result = n.head
	case "eth_getLogs":
		result = n.logs
	default:
		http.Error(w, "unexpected method "+req.Method, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"result":  result,
	})
}

func (n *fakeNode) lastRequest(t *testing.T) rpcRequest {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.requests)
	return n.requests[len(n.requests)-1]
}

func TestDialVerifiesChainID(t *testing.T) {
	node := &fakeNode{chainID: "0x64"}
	server := httptest.NewServer(node)
	defer server.Close()

	client, err := Dial(context.Background(), server.URL, Options{ExpectedChainID: 100})
	require.NoError(t, err)
	client.Close()

	_, err = Dial(context.Background(), server.URL, Options{ExpectedChainID: 1})
	require.ErrorIs(t, err, ErrChainMismatch)
	assert.Contains(t, err.Error(), "expected 1, got 100")
}

func TestLatestBlockNumber(t *testing.T) {
	node := &fakeNode{head: "0xf4240"}
	server := httptest.NewServer(node)
	defer server.Close()

	client, err := Dial(context.Background(), server.URL, Options{})
	require.NoError(t, err)
	defer client.Close()

	head, err := client.LatestBlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), head)
}

func TestFilterLogsSendsRangeAndFilters(t *testing.T) {
	contract := common.HexToAddress("0xba3cb449bd2b4adddbc894d8697f5170800eadec")
	topic := common.HexToHash("0xcf5f9de2984132265203b5c335b25727702ca77262ff622e136baa7362bf1da9")
	node := &fakeNode{logs: []map[string]any{{
		"address":          contract.Hex(),
		"topics":           []string{topic.Hex()},
		"data":             "0x",
		"blockNumber":      "0x3e8",
		"transactionHash":  common.HexToHash("0x01").Hex(),
		"transactionIndex": "0x0",
		"blockHash":        common.HexToHash("0x02").Hex(),
		"logIndex":         "0x5",
		"removed":          false,
	}}}
	server := httptest.NewServer(node)
	defer server.Close()

	client, err := Dial(context.Background(), server.URL, Options{})
	require.NoError(t, err)
	defer client.Close()

	logs, err := client.FilterLogs(context.Background(), 990, 1000, []common.Address{contract}, []common.Hash{topic})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, uint64(1000), logs[0].BlockNumber)
	assert.Equal(t, uint(5), logs[0].Index)
	assert.Equal(t, contract, logs[0].Address)

	req := node.lastRequest(t)
	assert.Equal(t, "eth_getLogs", req.Method)
	require.Len(t, req.Params, 1)

	var filter struct {
		FromBlock string           `json:"fromBlock"`
		ToBlock   string           `json:"toBlock"`
		Address   []common.Address `json:"address"`
		Topics    [][]common.Hash  `json:"topics"`
	}
	require.NoError(t, json.Unmarshal(req.Params[0], &filter))
	assert.Equal(t, "0x3de", filter.FromBlock)
	assert.Equal(t, "0x3e8", filter.ToBlock)
	assert.Equal(t, []common.Address{contract}, filter.Address)
	assert.Equal(t, [][]common.Hash{{topic}}, filter.Topics)
}

func TestFilterLogsRejectsInvertedRange(t *testing.T) {
	client := &Client{}
	_, err := client.FilterLogs(context.Background(), 10, 9, nil, nil)
	require.Error(t, err)
}

func TestRequestTimeout(t *testing.T) {
	node := &fakeNode{head: "0x1", delay: 200 * time.Millisecond}
	server := httptest.NewServer(node)
	defer server.Close()

	client, err := Dial(context.Background(), server.URL, Options{RequestTimeout: 20 * time.Millisecond})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.LatestBlockNumber(context.Background())
	require.Error(t, err)
}
