package operations

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Grayscale converts color images to single-channel grayscale. An input
// that is already grayscale is returned as a copy, not an error.
type Grayscale struct{}

// GrayscaleParams is empty: the conversion takes no parameters.
type GrayscaleParams struct{}

func (GrayscaleParams) isOperationParams() {}

func (Grayscale) Name() string { return "grayscale" }

func (Grayscale) Resolve(raw map[string]interface{}) Params {
	return GrayscaleParams{}
}

func (Grayscale) Apply(src gocv.Mat, params Params, report Progress) (gocv.Mat, error) {
	if err := validateInput(src); err != nil {
		return gocv.NewMat(), err
	}

	report.emit(0.2, "converting to grayscale")

	dst, err := grayscaleOf(src)
	if err != nil {
		return gocv.NewMat(), err
	}

	report.emit(1.0, "grayscale complete")
	return dst, nil
}

// grayscaleOf returns a single-channel copy of src. Shared by the
// operations that analyze or binarize on luminance.
func grayscaleOf(src gocv.Mat) (gocv.Mat, error) {
	gray := gocv.NewMat()

	switch src.Channels() {
	case 1:
		src.CopyTo(&gray)
	case 3:
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)
	default:
		gray.Close()
		return gocv.NewMat(), fmt.Errorf("unsupported number of channels: %d", src.Channels())
	}

	if gray.Empty() {
		gray.Close()
		return gocv.NewMat(), fmt.Errorf("grayscale conversion failed")
	}
	return gray, nil
}
