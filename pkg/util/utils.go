package util

import (
	"encoding/base64"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

func DecodeBase64String(s string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

func EncodeBase64String(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeHexString accepts hex with or without a 0x prefix and ignores surrounding whitespace.
func DecodeHexString(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

func EncodeHexString(b []byte) string {
	return hexutil.Encode(b)
}
