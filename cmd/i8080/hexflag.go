package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// hexValue is a pflag.Value for addresses and port numbers. It accepts
// decimal, 0x-prefixed hex and h-suffixed hex ("100h").
type hexValue struct {
	value uint64
	bits  int
}

var _ pflag.Value = (*hexValue)(nil)

func newHexValue(def uint64, bits int) *hexValue {
	return &hexValue{value: def, bits: bits}
}

func (h *hexValue) String() string {
	return fmt.Sprintf("0x%0*X", h.bits/4, h.value)
}

func (h *hexValue) Set(s string) error {
	v, err := parseNumber(s, h.bits)
	if err != nil {
		return err
	}
	h.value = v
	return nil
}

func (h *hexValue) Type() string {
	return fmt.Sprintf("hex%d", h.bits)
}

func (h *hexValue) u16() uint16 { return uint16(h.value) }
func (h *hexValue) u8() uint8   { return uint8(h.value) }

func parseNumber(s string, bits int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	if strings.HasSuffix(strings.ToUpper(s), "H") {
		return strconv.ParseUint(s[:len(s)-1], 16, bits)
	}
	return strconv.ParseUint(s, 0, bits)
}
