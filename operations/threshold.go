package operations

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// Threshold method names.
const (
	ThresholdOtsu     = "otsu"
	ThresholdAdaptive = "adaptive"
	ThresholdSauvola  = "sauvola"
)

// Maximum standard deviation of an 8-bit image, the R term in Sauvola's
// threshold formula.
const sauvolaDynamicRange = 128.0

// Bias subtracted by the adaptive local mean method.
const adaptiveBias = 8

// Threshold binarizes the image. Otsu computes one global threshold,
// adaptive uses a Gaussian-weighted local mean, and Sauvola computes a
// per-pixel threshold from local mean and standard deviation, which holds
// up well on degraded documents.
type Threshold struct{}

// ThresholdParams holds the resolved binarization configuration. BlockSize
// is the local window for the adaptive and Sauvola methods, forced odd and
// at least 3. K is Sauvola's sensitivity parameter. An unrecognized method
// falls through to Otsu.
type ThresholdParams struct {
	Method    string
	BlockSize int
	K         float64
}

func (ThresholdParams) isOperationParams() {}

func (Threshold) Name() string { return "threshold" }

func (Threshold) Resolve(raw map[string]interface{}) Params {
	return ThresholdParams{
		Method:    stringParam(raw, "method", ThresholdOtsu),
		BlockSize: forceOdd(intParam(raw, "blockSize", 15), 3),
		K:         floatParam(raw, "k", 0.5),
	}
}

func (Threshold) Apply(src gocv.Mat, params Params, report Progress) (gocv.Mat, error) {
	cfg, ok := params.(ThresholdParams)
	if !ok {
		cfg = ThresholdParams{Method: ThresholdOtsu, BlockSize: 15, K: 0.5}
	}

	if err := validateInput(src); err != nil {
		return gocv.NewMat(), err
	}

	report.emit(0.1, "preparing binarization")

	gray, err := grayscaleOf(src)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer gray.Close()

	report.emit(0.3, fmt.Sprintf("applying %s thresholding", cfg.Method))

	dst := gocv.NewMat()

	switch cfg.Method {
	case ThresholdAdaptive:
		gocv.AdaptiveThreshold(gray, &dst, 255, gocv.AdaptiveThresholdGaussian,
			gocv.ThresholdBinary, cfg.BlockSize, adaptiveBias)

	case ThresholdSauvola:
		dst.Close()
		dst = sauvolaBinarize(gray, cfg.BlockSize, cfg.K, report)

	default: // otsu
		gocv.Threshold(gray, &dst, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	}

	report.emit(1.0, "binarization complete")
	return dst, nil
}

// sauvolaBinarize computes the per-pixel Sauvola threshold map. Local mean
// and variance come from box filtering the image and its square.
func sauvolaBinarize(gray gocv.Mat, windowSize int, k float64, report Progress) gocv.Mat {
	report.emit(0.4, "computing local statistics")

	values := gocv.NewMat()
	defer values.Close()
	gray.ConvertTo(&values, gocv.MatTypeCV64F)

	squared := gocv.NewMat()
	defer squared.Close()
	gocv.Multiply(values, values, &squared)

	window := image.Pt(windowSize, windowSize)

	mean := gocv.NewMat()
	defer mean.Close()
	gocv.Blur(values, &mean, window)

	squaredMean := gocv.NewMat()
	defer squaredMean.Close()
	gocv.Blur(squared, &squaredMean, window)

	report.emit(0.7, "computing threshold map")

	rows := gray.Rows()
	cols := gray.Cols()
	dst := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)

	report.emit(0.9, "applying threshold")

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			localMean := mean.GetDoubleAt(y, x)
			variance := squaredMean.GetDoubleAt(y, x) - localMean*localMean
			if variance < 0 {
				// box filter rounding can push variance slightly negative
				variance = 0
			}

			threshold := sauvolaThreshold(localMean, math.Sqrt(variance), k)
			if float64(gray.GetUCharAt(y, x)) > threshold {
				dst.SetUCharAt(y, x, 255)
			} else {
				dst.SetUCharAt(y, x, 0)
			}
		}
	}

	return dst
}

// sauvolaThreshold evaluates T = mean * (1 + k*(std/R - 1)).
func sauvolaThreshold(mean, std, k float64) float64 {
	return mean * (1.0 + k*(std/sauvolaDynamicRange-1.0))
}
