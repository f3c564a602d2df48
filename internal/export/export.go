package export

import (
	"fmt"
	"math"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/Danondso/melodia/internal/render"
)

// ToRate converts a rendered container to targetRate. A zero target or the
// native rate returns wav unchanged.
func ToRate(wav []byte, targetRate int) ([]byte, error) {
	if targetRate == 0 || targetRate == render.SampleRate {
		return wav, nil
	}
	if targetRate < 0 {
		return nil, fmt.Errorf("invalid target sample rate %d", targetRate)
	}

	h, err := render.ReadHeader(wav)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if h.DataSize == 0 {
		return render.EncodeWAV(nil, targetRate)
	}

	samples, sr, err := render.DecodeWAV(wav)
	if err != nil {
		return nil, err
	}
	resampled, err := Resample(samples, float64(sr), float64(targetRate))
	if err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}
	return render.EncodeWAV(resampled, targetRate)
}

// Resample converts PCM int16 samples from inputRate to outputRate using
// polyphase FIR filtering with Kaiser window (via go-audio-resampling).
// QualityLow already gives 16-bit precision, which matches the output depth.
func Resample(samples []int16, inputRate, outputRate float64) ([]int16, error) {
	if inputRate == outputRate || len(samples) == 0 {
		return samples, nil
	}

	floats := make([]float64, len(samples))
	for i, s := range samples {
		floats[i] = float64(s) / 32768.0
	}

	resampled, err := resampling.ResampleMono(floats, inputRate, outputRate, resampling.QualityLow)
	if err != nil {
		return nil, fmt.Errorf("resample mono: %w", err)
	}

	out := make([]int16, len(resampled))
	for i, f := range resampled {
		v := f * 32768.0
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int16(math.Round(v))
	}

	return out, nil
}
