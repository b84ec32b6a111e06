package model

// OrderRecord is the normalized representation of an order placement for storage.
type OrderRecord struct {
	Network     string `json:"network"`
	BlockNumber uint64 `json:"block_number"`
	TxHash      string `json:"tx_hash"`
	LogIndex    uint64 `json:"log_index"`
	Contract    string `json:"contract"`
	Sender      string `json:"sender"`
	AppData     string `json:"app_data"`
	SellToken   string `json:"sell_token"`
	BuyToken    string `json:"buy_token"`
	Receiver    string `json:"receiver"`
	SellAmount  string `json:"sell_amount"`
	BuyAmount   string `json:"buy_amount"`
	FeeAmount   string `json:"fee_amount"`
	ValidTo     uint32 `json:"valid_to"`
	Data        string `json:"data"`
}
