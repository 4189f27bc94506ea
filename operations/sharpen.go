package operations

import (
	"image"

	"gocv.io/x/gocv"
)

// Sharpen enhances text edges with an unsharp mask: the blurred image is
// subtracted from an amplified original, per channel, with saturation to
// the 0-255 range.
type Sharpen struct{}

// SharpenParams holds the resolved sharpen configuration. Amount is a
// fraction: 0 is the identity, 1 corresponds to the user-facing value 100.
// Radius is the Gaussian blur sigma in pixels.
type SharpenParams struct {
	Amount float64
	Radius float64
}

func (SharpenParams) isOperationParams() {}

func (Sharpen) Name() string { return "sharpen" }

func (Sharpen) Resolve(raw map[string]interface{}) Params {
	radius := floatParam(raw, "radius", 1.0)
	if radius < 0 {
		radius = 1.0
	}
	return SharpenParams{
		Amount: clampFloat(floatParam(raw, "amount", 50)/100.0, 0, 1),
		Radius: radius,
	}
}

func (Sharpen) Apply(src gocv.Mat, params Params, report Progress) (gocv.Mat, error) {
	cfg, ok := params.(SharpenParams)
	if !ok {
		cfg = SharpenParams{Amount: 0.5, Radius: 1.0}
	}

	if err := validateInput(src); err != nil {
		return gocv.NewMat(), err
	}

	report.emit(0.1, "preparing sharpening")

	if cfg.Amount <= 0 {
		report.emit(1.0, "no sharpening applied")
		return src.Clone(), nil
	}

	ksize := forceOdd(int(cfg.Radius*2), 3)

	report.emit(0.3, "creating blur mask")

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(ksize, ksize), cfg.Radius, cfg.Radius, gocv.BorderDefault)

	report.emit(0.6, "applying unsharp mask")

	// original*(1+amount) - blurred*amount, saturated per sample.
	dst := gocv.NewMat()
	gocv.AddWeighted(src, 1.0+cfg.Amount, blurred, -cfg.Amount, 0, &dst)

	report.emit(1.0, "sharpen complete")
	return dst, nil
}
