package audio

import (
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// resampleQuality is passed to beep.Resample
const resampleQuality = 4

// DecodeFile reads a WAV file and returns its PCM data as stereo float32
// little-endian bytes at sampleRate, ready for an oto player.
func DecodeFile(path string, sampleRate int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open sample: %w", err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot decode %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if int(format.SampleRate) != sampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, beep.SampleRate(sampleRate), streamer)
	}

	pcm, err := readAll(s)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("sample %s is empty", path)
	}
	return pcm, nil
}

// readAll drains a streamer into float32 bytes
func readAll(s beep.Streamer) ([]byte, error) {
	buf := make([][2]float64, 512)
	var out []byte
	for {
		n, ok := s.Stream(buf)
		out = FramesToFloat32LE(buf[:n], out)
		if !ok {
			break
		}
	}
	return out, s.Err()
}
