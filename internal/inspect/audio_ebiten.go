//go:build !noebiten

package inspect

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// Decoded wav streams are 16-bit stereo regardless of the source format.
const decodedBytesPerFrame = 4

func describeAudio(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stream, err := wav.DecodeWithoutResampling(f)
	if err != nil {
		return "", fmt.Errorf("decode wav: %w", err)
	}
	rate := stream.SampleRate()
	if rate <= 0 {
		return "", fmt.Errorf("decode wav: invalid sample rate %d", rate)
	}
	frames := stream.Length() / decodedBytesPerFrame
	return formatAudio(rate, frames), nil
}
