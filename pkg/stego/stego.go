package stego

import (
	"errors"
	"fmt"
)

// BitsPerSlot is the number of carrier bytes that hide one value.
const BitsPerSlot = 8

// ErrSlotOutOfRange indicates the carrier is too small to hold the requested slot.
var ErrSlotOutOfRange = errors.New("slot out of range for carrier")

// Capacity returns how many whole slots the carrier can hold.
func Capacity(carrier []byte) int {
	return len(carrier) / BitsPerSlot
}

func checkSlot(carrier []byte, slot int) error {
	if slot < 0 || slot >= Capacity(carrier) {
		return fmt.Errorf("%w: slot %d, capacity %d", ErrSlotOutOfRange, slot, Capacity(carrier))
	}
	return nil
}

// ExtractByte reads carrier bytes [8*slot, 8*slot+8) and packs their least
// significant bits into one byte. The first carrier byte becomes the most
// significant bit.
func ExtractByte(carrier []byte, slot int) (byte, error) {
	if err := checkSlot(carrier, slot); err != nil {
		return 0, err
	}

	var out byte
	for _, b := range carrier[slot*BitsPerSlot : (slot+1)*BitsPerSlot] {
		out = out<<1 | b&1
	}
	return out, nil
}

// EmbedByte overwrites the least significant bits of carrier bytes
// [8*slot, 8*slot+8) with v, most significant bit first. All other bits of
// the carrier are left untouched.
func EmbedByte(carrier []byte, slot int, v byte) error {
	if err := checkSlot(carrier, slot); err != nil {
		return err
	}

	base := slot * BitsPerSlot
	for i := 0; i < BitsPerSlot; i++ {
		bit := (v >> (BitsPerSlot - 1 - i)) & 1
		carrier[base+i] = (carrier[base+i] & 0xFE) | bit
	}
	return nil
}

// Extract reads the first n slots of the carrier.
func Extract(carrier []byte, n int) ([]byte, error) {
	if n > Capacity(carrier) {
		return nil, fmt.Errorf("%w: need %d slots, have %d", ErrSlotOutOfRange, n, Capacity(carrier))
	}

	out := make([]byte, n)
	for i := range out {
		// bounds were checked above
		out[i], _ = ExtractByte(carrier, i)
	}
	return out, nil
}
