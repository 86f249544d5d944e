//go:build noebiten

package inspect

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Builds tagged noebiten avoid the cgo audio stack and read only the RIFF
// fmt and data chunk headers.

var errNotWAV = errors.New("not a RIFF/WAVE file")

func describeAudio(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	rate, frames, err := readWAVHeader(bufio.NewReader(f))
	if err != nil {
		return "", fmt.Errorf("decode wav: %w", err)
	}
	return formatAudio(rate, frames), nil
}

// readWAVHeader returns the sample rate and frame count of a PCM wav stream
func readWAVHeader(r io.Reader) (rate int, frames int64, err error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return 0, 0, errNotWAV
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return 0, 0, errNotWAV
	}

	var blockAlign int
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return 0, 0, fmt.Errorf("missing data chunk: %w", err)
		}
		id := string(chunk[0:4])
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))

		switch id {
		case "fmt ":
			if size < 16 {
				return 0, 0, fmt.Errorf("fmt chunk too short (%d bytes)", size)
			}
			var fmtChunk [16]byte
			if _, err := io.ReadFull(r, fmtChunk[:]); err != nil {
				return 0, 0, err
			}
			rate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			blockAlign = int(binary.LittleEndian.Uint16(fmtChunk[12:14]))
			if _, err := io.CopyN(io.Discard, r, size-16+size%2); err != nil {
				return 0, 0, err
			}
		case "data":
			if rate <= 0 || blockAlign <= 0 {
				return 0, 0, errors.New("data chunk before a valid fmt chunk")
			}
			return rate, size / int64(blockAlign), nil
		default:
			if _, err := io.CopyN(io.Discard, r, size+size%2); err != nil {
				return 0, 0, err
			}
		}
	}
}
