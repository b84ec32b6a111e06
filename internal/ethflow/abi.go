package ethflow

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// OrderPlacement as declared by ICoWSwapOnchainOrders. The order tuple is GPv2Order.Data.
const ethFlowABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
      {
        "indexed": false,
        "internalType": "struct GPv2Order.Data",
        "name": "order",
        "type": "tuple",
        "components": [
          {"internalType": "contract IERC20", "name": "sellToken", "type": "address"},
          {"internalType": "contract IERC20", "name": "buyToken", "type": "address"},
          {"internalType": "address", "name": "receiver", "type": "address"},
          {"internalType": "uint256", "name": "sellAmount", "type": "uint256"},
          {"internalType": "uint256", "name": "buyAmount", "type": "uint256"},
          {"internalType": "uint32", "name": "validTo", "type": "uint32"},
          {"internalType": "bytes32", "name": "appData", "type": "bytes32"},
          {"internalType": "uint256", "name": "feeAmount", "type": "uint256"},
          {"internalType": "bytes32", "name": "kind", "type": "bytes32"},
          {"internalType": "bool", "name": "partiallyFillable", "type": "bool"},
          {"internalType": "bytes32", "name": "sellTokenBalance", "type": "bytes32"},
          {"internalType": "bytes32", "name": "buyTokenBalance", "type": "bytes32"}
        ]
      },
      {
        "indexed": false,
        "internalType": "struct ICoWSwapOnchainOrders.OnchainSignature",
        "name": "signature",
        "type": "tuple",
        "components": [
          {"internalType": "enum ICoWSwapOnchainOrders.OnchainSigningScheme", "name": "scheme", "type": "uint8"},
          {"internalType": "bytes", "name": "data", "type": "bytes"}
        ]
      },
      {"indexed": false, "internalType": "bytes", "name": "data", "type": "bytes"}
    ],
    "name": "OrderPlacement",
    "type": "event"
  }
]`

const orderPlacementEvent = "OrderPlacement"

var (
	ethFlowABI     abi.ABI
	ethFlowABIOnce sync.Once
	ethFlowABIErr  error
)

// EthFlowABI returns the parsed eth-flow events ABI.
func EthFlowABI() (abi.ABI, error) {
	ethFlowABIOnce.Do(func() {
		ethFlowABI, ethFlowABIErr = abi.JSON(strings.NewReader(ethFlowABIJSON))
	})
	return ethFlowABI, ethFlowABIErr
}
