package mic

import "encoding/binary"

const (
	slotBits  = 32
	slotBytes = slotBits / 8
)

// Narrow converts little-endian 32-bit slots in src into 16-bit PCM in
// dst by keeping the upper half of each slot. Trailing bytes that do not
// form a whole slot are ignored. It returns the number of samples written.
func Narrow(dst []int16, src []byte) int {
	n := len(src) / slotBytes
	if n > len(dst) {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		slot := int32(binary.LittleEndian.Uint32(src[i*slotBytes:]))
		dst[i] = int16(slot >> 16)
	}
	return n
}

// PutSlots encodes 32-bit slots as little-endian bytes, the layout
// produced by the DMA ring. dst must hold 4*len(slots) bytes.
func PutSlots(dst []byte, slots []int32) int {
	for i, s := range slots {
		binary.LittleEndian.PutUint32(dst[i*slotBytes:], uint32(s))
	}
	return len(slots) * slotBytes
}
