package operations

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Denoise method names.
const (
	DenoiseNLM       = "nlm"
	DenoiseBilateral = "bilateral"
	DenoiseGaussian  = "gaussian"
)

// Denoise removes scanner noise while preserving text edges. Three methods
// are available: non-local means (default, best quality), bilateral
// filtering (edge-preserving, faster) and Gaussian blur (fastest).
type Denoise struct{}

// DenoiseParams holds the resolved denoise configuration. An unrecognized
// method falls through to non-local means.
type DenoiseParams struct {
	Method   string
	Strength float64
}

func (DenoiseParams) isOperationParams() {}

func (Denoise) Name() string { return "denoise" }

func (Denoise) Resolve(raw map[string]interface{}) Params {
	return DenoiseParams{
		Method:   stringParam(raw, "method", DenoiseNLM),
		Strength: floatParam(raw, "strength", 10),
	}
}

func (Denoise) Apply(src gocv.Mat, params Params, report Progress) (gocv.Mat, error) {
	cfg, ok := params.(DenoiseParams)
	if !ok {
		cfg = DenoiseParams{Method: DenoiseNLM, Strength: 10}
	}

	if err := validateInput(src); err != nil {
		return gocv.NewMat(), err
	}

	report.emit(0.1, "preparing denoising")
	report.emit(0.2, fmt.Sprintf("applying %s denoising", cfg.Method))

	dst := gocv.NewMat()

	switch cfg.Method {
	case DenoiseBilateral:
		diameter := clampInt(int(cfg.Strength), 5, 15)
		sigma := cfg.Strength * 7.5
		gocv.BilateralFilter(src, &dst, diameter, sigma, sigma)

	case DenoiseGaussian:
		ksize := forceOdd(int(cfg.Strength), 3)
		gocv.GaussianBlur(src, &dst, image.Pt(ksize, ksize), 0, 0, gocv.BorderDefault)

	default: // non-local means
		h := float32(clampFloat(cfg.Strength, 3, 30))
		const templateWindow, searchWindow = 7, 21
		if src.Channels() >= 3 {
			gocv.FastNlMeansDenoisingColoredWithParams(src, &dst, h, h, templateWindow, searchWindow)
		} else {
			gocv.FastNlMeansDenoisingWithParams(src, &dst, h, templateWindow, searchWindow)
		}
	}

	report.emit(1.0, "denoise complete")
	return dst, nil
}
