package indexer

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress converts a hex address into common.Address. Mixed-case input must
// carry a valid EIP-55 checksum; all-lower or all-upper input is accepted as is.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}

	address := common.HexToAddress(input)
	body := strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		if address.Hex()[2:] != body {
			return common.Address{}, fmt.Errorf("bad address checksum: %s", input)
		}
	}
	return address, nil
}
