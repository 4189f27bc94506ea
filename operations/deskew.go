package operations

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"gocv.io/x/gocv"
)

// Rotations below this magnitude are skipped to avoid needless resampling.
const minSkewAngle = 0.1

// Deskew estimates the page skew angle and rotates the image to correct it.
// Estimation tries the minimum-area rectangle of the largest contour first
// and falls back to a probabilistic Hough line transform when the contour
// result is unavailable or outside the allowed range.
type Deskew struct{}

// DeskewParams holds the resolved deskew configuration. MaxAngle bounds the
// applied correction symmetrically, in degrees.
type DeskewParams struct {
	MaxAngle float64
}

func (DeskewParams) isOperationParams() {}

func (Deskew) Name() string { return "deskew" }

func (Deskew) Resolve(raw map[string]interface{}) Params {
	maxAngle := math.Abs(floatParam(raw, "maxAngle", 15))
	if maxAngle == 0 {
		maxAngle = 15
	}
	return DeskewParams{MaxAngle: maxAngle}
}

func (Deskew) Apply(src gocv.Mat, params Params, report Progress) (gocv.Mat, error) {
	cfg, ok := params.(DeskewParams)
	if !ok {
		cfg = DeskewParams{MaxAngle: 15}
	}

	if err := validateInput(src); err != nil {
		return gocv.NewMat(), err
	}

	report.emit(0.1, "preparing deskew analysis")

	gray, err := grayscaleOf(src)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer gray.Close()

	report.emit(0.2, "detecting skew angle")

	angle := estimateSkew(gray, cfg.MaxAngle, report)

	report.emit(0.6, fmt.Sprintf("rotating by %.2f degrees", angle))

	if math.Abs(angle) < minSkewAngle {
		report.emit(1.0, "no significant skew detected")
		return src.Clone(), nil
	}

	dst := rotateAboutCenter(src, angle)
	report.emit(1.0, "deskew complete")
	return dst, nil
}

// estimateSkew derives a correction angle from the grayscale page, clamped
// to the symmetric maxAngle range. The contour estimate wins unless it is
// missing or out of range, in which case the line transform decides.
func estimateSkew(gray gocv.Mat, maxAngle float64, report Progress) float64 {
	angle, found := skewFromContour(gray)
	if !found || math.Abs(angle) > maxAngle {
		report.emit(0.4, "using line detection")
		angle, found = skewFromLines(gray)
	}
	if !found {
		angle = 0
	}
	return clampFloat(angle, -maxAngle, maxAngle)
}

// skewFromContour binarizes the page, finds the largest external contour and
// derives an angle from its minimum-area bounding rectangle, normalized into
// (-45, 45] degrees.
func skewFromContour(gray gocv.Mat) (float64, bool) {
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinaryInv|gocv.ThresholdOtsu)

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return 0, false
	}

	largest := 0
	largestArea := -1.0
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > largestArea {
			largestArea = area
			largest = i
		}
	}

	angle := gocv.MinAreaRect(contours.At(largest)).Angle
	if angle < -45 {
		angle += 90
	} else if angle > 45 {
		angle -= 90
	}
	return angle, true
}

// skewFromLines runs edge detection plus a probabilistic line transform and
// takes the median angle of the near-horizontal segments.
func skewFromLines(gray gocv.Mat) (float64, bool) {
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 50, 150)

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(edges, &lines, 1, math.Pi/180, 100, float32(gray.Cols()/4), 10)

	if lines.Empty() || lines.Rows() == 0 {
		return 0, false
	}

	angles := make([]float64, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		segment := lines.GetVeciAt(i, 0)
		x1, y1 := float64(segment[0]), float64(segment[1])
		x2, y2 := float64(segment[2]), float64(segment[3])
		if x1 == x2 {
			continue
		}
		angle := math.Atan2(y2-y1, x2-x1) * 180 / math.Pi
		if math.Abs(angle) < 45 {
			angles = append(angles, angle)
		}
	}
	if len(angles) == 0 {
		return 0, false
	}

	sort.Float64s(angles)
	mid := len(angles) / 2
	if len(angles)%2 == 0 {
		return (angles[mid-1] + angles[mid]) / 2, true
	}
	return angles[mid], true
}

// rotateAboutCenter rotates with cubic interpolation and edge-replicated
// borders, preserving the original dimensions.
func rotateAboutCenter(src gocv.Mat, angle float64) gocv.Mat {
	width := src.Cols()
	height := src.Rows()
	center := image.Pt(width/2, height/2)

	rotation := gocv.GetRotationMatrix2D(center, angle, 1.0)
	defer rotation.Close()

	dst := gocv.NewMat()
	gocv.WarpAffineWithParams(src, &dst, rotation, image.Pt(width, height),
		gocv.InterpolationCubic, gocv.BorderReplicate, color.RGBA{})
	return dst
}
