package alsa

// leftSlots copies the first 32 bit slot of every interleaved frame in
// src into dst and returns the bytes written. Trailing partial frames are
// ignored.
func leftSlots(dst, src []byte, channels int) int {
	if channels <= 0 {
		return 0
	}
	stride := 4 * channels
	n := 0
	for off := 0; off+stride <= len(src) && n+4 <= len(dst); off += stride {
		copy(dst[n:n+4], src[off:off+4])
		n += 4
	}
	return n
}
