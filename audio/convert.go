package audio

import (
	"encoding/binary"
	"math"
)

// FrameSize is the size in bytes of one stereo float32 frame
const FrameSize = 2 * 4

// FramesToFloat32LE converts stereo frames to interleaved 32-bit float
// little-endian bytes, clipping to [-1, 1]. The result is appended to dst.
func FramesToFloat32LE(frames [][2]float64, dst []byte) []byte {
	for _, f := range frames {
		for _, v := range f {
			if v < -1 {
				v = -1
			} else if v > 1 {
				v = 1
			}
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(float32(v)))
		}
	}
	return dst
}
