// Package audio wraps raw PCM samples in playable containers.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lumenlearn/lumen/internal/generation"
)

// WAVContentType is the MIME type of the bytes EncodeWAV returns.
const WAVContentType = "audio/wav"

const wavHeaderSize = 44

// ErrInvalidFormat is returned for sample formats that cannot be encoded.
var ErrInvalidFormat = errors.New("invalid sample format")

// EncodeWAV prefixes little-endian PCM data with a canonical 44-byte RIFF
// header describing format.
func EncodeWAV(pcm []byte, format generation.SampleFormat) ([]byte, error) {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return nil, fmt.Errorf("%w: rate %d, channels %d", ErrInvalidFormat, format.SampleRate, format.Channels)
	}
	if format.BitsPerSample <= 0 || format.BitsPerSample%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits per sample", ErrInvalidFormat, format.BitsPerSample)
	}

	blockAlign := format.Channels * format.BitsPerSample / 8
	byteRate := format.SampleRate * blockAlign
	dataSize := len(pcm)

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+dataSize))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16)) // PCM chunk size
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM format
	_ = binary.Write(buf, binary.LittleEndian, uint16(format.Channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(format.SampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(format.BitsPerSample))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(pcm)

	return buf.Bytes(), nil
}
