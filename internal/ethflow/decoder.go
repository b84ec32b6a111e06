package ethflow

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrDecode marks a log that does not carry a well-formed OrderPlacement payload.
var ErrDecode = errors.New("decode order placement")

// Order mirrors GPv2Order.Data. Field order matches the ABI tuple.
type Order struct {
	SellToken         common.Address
	BuyToken          common.Address
	Receiver          common.Address
	SellAmount        *big.Int
	BuyAmount         *big.Int
	ValidTo           uint32
	AppData           [32]byte
	FeeAmount         *big.Int
	Kind              [32]byte
	PartiallyFillable bool
	SellTokenBalance  [32]byte
	BuyTokenBalance   [32]byte
}

// OnchainSignature mirrors ICoWSwapOnchainOrders.OnchainSignature.
type OnchainSignature struct {
	Scheme uint8
	Data   []byte
}

type orderPlacementData struct {
	Order     Order
	Signature OnchainSignature
	Data      []byte
}

// OrderPlacement is a decoded OrderPlacement log.
type OrderPlacement struct {
	TxHash      common.Hash
	BlockNumber uint64
	LogIndex    uint
	Contract    common.Address
	Sender      common.Address
	Order       Order
	Signature   OnchainSignature
	Data        []byte
}

// AppData returns the app data hash referenced by the order.
func (p OrderPlacement) AppData() common.Hash {
	return common.Hash(p.Order.AppData)
}

// Decoder decodes OrderPlacement logs.
type Decoder struct {
	abi   abi.ABI
	event abi.Event
}

// NewDecoder builds a decoder from the embedded ABI.
func NewDecoder() (*Decoder, error) {
	parsed, err := EthFlowABI()
	if err != nil {
		return nil, fmt.Errorf("parse eth-flow abi: %w", err)
	}
	event, ok := parsed.Events[orderPlacementEvent]
	if !ok {
		return nil, fmt.Errorf("eth-flow abi has no %s event", orderPlacementEvent)
	}
	return &Decoder{abi: parsed, event: event}, nil
}

// Topic0 returns the OrderPlacement event signature hash.
func (d *Decoder) Topic0() common.Hash {
	return d.event.ID
}

// Decode converts a raw log into an OrderPlacement.
func (d *Decoder) Decode(log types.Log) (OrderPlacement, error) {
	if len(log.Topics) == 0 {
		return OrderPlacement{}, fmt.Errorf("%w: tx %s: missing topics", ErrDecode, log.TxHash.Hex())
	}
	if log.Topics[0] != d.event.ID {
		return OrderPlacement{}, fmt.Errorf("%w: tx %s: unexpected topic0 %s", ErrDecode, log.TxHash.Hex(), log.Topics[0].Hex())
	}
	if len(log.Topics) != 2 {
		return OrderPlacement{}, fmt.Errorf("%w: tx %s: expected 2 topics, got %d", ErrDecode, log.TxHash.Hex(), len(log.Topics))
	}

	var data orderPlacementData
	if err := d.abi.UnpackIntoInterface(&data, orderPlacementEvent, log.Data); err != nil {
		return OrderPlacement{}, fmt.Errorf("%w: tx %s: %w", ErrDecode, log.TxHash.Hex(), err)
	}

	return OrderPlacement{
		TxHash:      log.TxHash,
		BlockNumber: log.BlockNumber,
		LogIndex:    log.Index,
		Contract:    log.Address,
		Sender:      common.BytesToAddress(log.Topics[1].Bytes()),
		Order:       data.Order,
		Signature:   data.Signature,
		Data:        data.Data,
	}, nil
}
