// Package audiotest builds WAV fixtures for tests.
package audiotest

import "encoding/binary"

// MakeWAV returns a canonical 44-byte PCM header followed by dataSize zero bytes.
func MakeWAV(sampleRate uint32, channels, bitsPerSample uint16, dataSize uint32) []byte {
	h := make([]byte, 44+dataSize)
	copy(h[0:], "RIFF")
	binary.LittleEndian.PutUint32(h[4:], 36+dataSize)
	copy(h[8:], "WAVE")
	copy(h[12:], "fmt ")
	binary.LittleEndian.PutUint32(h[16:], 16) // subchunk size
	binary.LittleEndian.PutUint16(h[20:], 1)  // PCM
	binary.LittleEndian.PutUint16(h[22:], channels)
	binary.LittleEndian.PutUint32(h[24:], sampleRate)
	binary.LittleEndian.PutUint32(h[28:], sampleRate*uint32(channels)*uint32(bitsPerSample)/8)
	binary.LittleEndian.PutUint16(h[32:], channels*bitsPerSample/8)
	binary.LittleEndian.PutUint16(h[34:], bitsPerSample)
	copy(h[36:], "data")
	binary.LittleEndian.PutUint32(h[40:], dataSize)

	return h
}
