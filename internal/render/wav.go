package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// HeaderSize is the length of the canonical PCM WAV header.
const HeaderSize = 44

// Header holds the fields of a canonical 44-byte PCM WAV header.
type Header struct {
	RIFFSize      uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// writeSeeker is an in-memory io.WriteSeeker for WAV encoding.
type writeSeeker struct {
	buf []byte
	pos int
}

func (ws *writeSeeker) Write(p []byte) (int, error) {
	end := ws.pos + len(p)
	if end > len(ws.buf) {
		ws.buf = append(ws.buf, make([]byte, end-len(ws.buf))...)
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos = end
	return len(p), nil
}

func (ws *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case io.SeekStart:
		newPos = int(offset)
	case io.SeekCurrent:
		newPos = ws.pos + int(offset)
	case io.SeekEnd:
		newPos = len(ws.buf) + int(offset)
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}
	if newPos < 0 || newPos > len(ws.buf) {
		return 0, fmt.Errorf("seek position %d out of bounds [0, %d]", newPos, len(ws.buf))
	}
	ws.pos = newPos
	return int64(ws.pos), nil
}

// EncodeWAV encodes mono int16 PCM samples to WAV format in memory.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	ws := &writeSeeker{buf: make([]byte, 0, HeaderSize+len(samples)*2)}

	intBuf := &audio.IntBuffer{
		Data: make([]int, len(samples)),
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: Channels,
		},
		SourceBitDepth: BitDepth,
	}
	for i, s := range samples {
		intBuf.Data[i] = int(s)
	}

	enc := wav.NewEncoder(ws, sampleRate, BitDepth, Channels, 1)
	if err := enc.Write(intBuf); err != nil {
		return nil, fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}

	return ws.buf, nil
}

// DecodeWAV reads a WAV file from bytes and returns the samples and sample rate.
func DecodeWAV(data []byte) ([]int16, int, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid WAV file")
	}

	pcmBuf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav: %w", err)
	}

	samples := make([]int16, len(pcmBuf.Data))
	for i, v := range pcmBuf.Data {
		samples[i] = int16(v)
	}

	return samples, int(dec.SampleRate), nil
}

// ReadHeader parses the canonical 44-byte header at the start of data.
func ReadHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, fmt.Errorf("data too short for WAV header: %d bytes", len(data))
	}

	r := bytes.NewReader(data[:HeaderSize])

	// read wraps binary.Read to capture the first error.
	var firstErr error
	read := func(v interface{}) {
		if firstErr != nil {
			return
		}
		firstErr = binary.Read(r, binary.LittleEndian, v)
	}

	var riffID, waveID, fmtID, dataID [4]byte
	var fmtSize uint32

	read(&riffID)
	read(&h.RIFFSize)
	read(&waveID)
	read(&fmtID)
	read(&fmtSize)
	read(&h.AudioFormat)
	read(&h.NumChannels)
	read(&h.SampleRate)
	read(&h.ByteRate)
	read(&h.BlockAlign)
	read(&h.BitsPerSample)
	read(&dataID)
	read(&h.DataSize)
	if firstErr != nil {
		return h, fmt.Errorf("read WAV header: %w", firstErr)
	}

	switch {
	case string(riffID[:]) != "RIFF":
		return h, fmt.Errorf("not a RIFF file")
	case string(waveID[:]) != "WAVE":
		return h, fmt.Errorf("not a WAVE file")
	case string(fmtID[:]) != "fmt " || fmtSize != 16:
		return h, fmt.Errorf("unexpected fmt chunk %q (size %d)", fmtID[:], fmtSize)
	case string(dataID[:]) != "data":
		return h, fmt.Errorf("unexpected chunk %q where data expected", dataID[:])
	}
	return h, nil
}
