package operations

import (
	"image"

	"gocv.io/x/gocv"
)

// Contrast applies CLAHE (Contrast Limited Adaptive Histogram Equalization).
// Grayscale images are equalized directly; color images are converted to
// Lab, equalized on the L channel only and converted back, so chrominance
// is never touched.
type Contrast struct{}

// ContrastParams holds the resolved CLAHE configuration.
type ContrastParams struct {
	ClipLimit float64
	TileSize  int
}

func (ContrastParams) isOperationParams() {}

func (Contrast) Name() string { return "contrast" }

func (Contrast) Resolve(raw map[string]interface{}) Params {
	return ContrastParams{
		ClipLimit: floatParam(raw, "clipLimit", 2.0),
		TileSize:  clampInt(intParam(raw, "tileSize", 8), 2, 16),
	}
}

func (Contrast) Apply(src gocv.Mat, params Params, report Progress) (gocv.Mat, error) {
	cfg, ok := params.(ContrastParams)
	if !ok {
		cfg = ContrastParams{ClipLimit: 2.0, TileSize: 8}
	}

	if err := validateInput(src); err != nil {
		return gocv.NewMat(), err
	}

	report.emit(0.1, "preparing CLAHE")

	clahe := gocv.NewCLAHEWithParams(cfg.ClipLimit, image.Pt(cfg.TileSize, cfg.TileSize))
	defer clahe.Close()

	report.emit(0.3, "applying CLAHE")

	if src.Channels() == 1 {
		dst := gocv.NewMat()
		clahe.Apply(src, &dst)
		report.emit(1.0, "contrast enhancement complete")
		return dst, nil
	}

	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(src, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()

	report.emit(0.5, "enhancing luminance")

	enhanced := gocv.NewMat()
	defer enhanced.Close()
	clahe.Apply(channels[0], &enhanced)

	merged := gocv.NewMat()
	defer merged.Close()
	gocv.Merge([]gocv.Mat{enhanced, channels[1], channels[2]}, &merged)

	dst := gocv.NewMat()
	gocv.CvtColor(merged, &dst, gocv.ColorLabToBGR)

	report.emit(1.0, "contrast enhancement complete")
	return dst, nil
}
