package ethflow

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"ethflowScope/internal/model"
)

// BuildRecord flattens a decoded placement into its storage representation.
func BuildRecord(network string, p OrderPlacement) model.OrderRecord {
	return model.OrderRecord{
		Network:     network,
		BlockNumber: p.BlockNumber,
		TxHash:      p.TxHash.Hex(),
		LogIndex:    uint64(p.LogIndex),
		Contract:    p.Contract.Hex(),
		Sender:      p.Sender.Hex(),
		AppData:     p.AppData().Hex(),
		SellToken:   p.Order.SellToken.Hex(),
		BuyToken:    p.Order.BuyToken.Hex(),
		Receiver:    p.Order.Receiver.Hex(),
		SellAmount:  bigString(p.Order.SellAmount),
		BuyAmount:   bigString(p.Order.BuyAmount),
		FeeAmount:   bigString(p.Order.FeeAmount),
		ValidTo:     p.Order.ValidTo,
		Data:        hexutil.Encode(p.Data),
	}
}
