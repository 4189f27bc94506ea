package operations

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Normalize stretches each channel's histogram to the full 0-255 range and
// blends the stretched result against the original by strength.
type Normalize struct{}

// NormalizeParams holds the resolved normalize configuration. Strength is a
// blend fraction: 0 leaves the image untouched, 1 applies the full stretch.
type NormalizeParams struct {
	Strength float64
}

func (NormalizeParams) isOperationParams() {}

func (Normalize) Name() string { return "normalize" }

func (Normalize) Resolve(raw map[string]interface{}) Params {
	return NormalizeParams{
		Strength: clampFloat(floatParam(raw, "strength", 50)/100.0, 0, 1),
	}
}

func (Normalize) Apply(src gocv.Mat, params Params, report Progress) (gocv.Mat, error) {
	cfg, ok := params.(NormalizeParams)
	if !ok {
		cfg = NormalizeParams{Strength: 0.5}
	}

	if err := validateInput(src); err != nil {
		return gocv.NewMat(), err
	}

	report.emit(0.1, "analyzing histogram")

	if cfg.Strength <= 0 {
		report.emit(1.0, "normalize complete")
		return src.Clone(), nil
	}

	if src.Channels() == 1 {
		dst := normalizeChannel(src, cfg.Strength)
		report.emit(1.0, "normalize complete")
		return dst, nil
	}

	channels := gocv.Split(src)
	stretched := make([]gocv.Mat, 0, len(channels))
	for i, ch := range channels {
		report.emit(0.2+float64(i)*0.25, fmt.Sprintf("normalizing channel %d", i+1))
		stretched = append(stretched, normalizeChannel(ch, cfg.Strength))
		ch.Close()
	}

	dst := gocv.NewMat()
	gocv.Merge(stretched, &dst)
	for _, ch := range stretched {
		ch.Close()
	}

	report.emit(1.0, "normalize complete")
	return dst, nil
}

func normalizeChannel(ch gocv.Mat, strength float64) gocv.Mat {
	minVal, maxVal, _, _ := gocv.MinMaxIdx(ch)
	if minVal == maxVal {
		return ch.Clone()
	}

	full := gocv.NewMat()
	gocv.Normalize(ch, &full, 0, 255, gocv.NormMinMax)

	if strength >= 1 {
		return full
	}

	dst := gocv.NewMat()
	gocv.AddWeighted(ch, 1-strength, full, strength, 0, &dst)
	full.Close()
	return dst
}
