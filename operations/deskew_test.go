package operations

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// newPageWithBar builds a white page with a black horizontal text-like bar.
func newPageWithBar(t *testing.T) gocv.Mat {
	t.Helper()
	const rows, cols = 200, 300
	mat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if y >= 90 && y < 110 && x >= 40 && x < 260 {
				mat.SetUCharAt(y, x, 0)
			} else {
				mat.SetUCharAt(y, x, 255)
			}
		}
	}
	return mat
}

func TestDeskewStableAtZeroSkew(t *testing.T) {
	src := newPageWithBar(t)
	defer src.Close()

	angle := estimateSkew(src, 15, nil)
	assert.Less(t, math.Abs(angle), minSkewAngle)

	op := Deskew{}
	dst, err := op.Apply(src, op.Resolve(nil), nil)
	require.NoError(t, err)
	defer dst.Close()

	// below the dead zone no rotation is applied at all
	requireMatsEqual(t, src, dst)
}

func TestDeskewClampsToMaxAngle(t *testing.T) {
	page := newPageWithBar(t)
	defer page.Close()

	skewed := rotateAboutCenter(page, 40)
	defer skewed.Close()

	angle := estimateSkew(skewed, 15, nil)
	assert.LessOrEqual(t, math.Abs(angle), 15.0)
}

func TestDeskewPreservesDimensions(t *testing.T) {
	page := newPageWithBar(t)
	defer page.Close()

	skewed := rotateAboutCenter(page, 5)
	defer skewed.Close()

	op := Deskew{}
	dst, err := op.Apply(skewed, op.Resolve(map[string]interface{}{"maxAngle": 15}), nil)
	require.NoError(t, err)
	defer dst.Close()

	assert.Equal(t, skewed.Rows(), dst.Rows())
	assert.Equal(t, skewed.Cols(), dst.Cols())
	assert.Equal(t, skewed.Channels(), dst.Channels())
}

func TestDeskewResolveDefaults(t *testing.T) {
	op := Deskew{}

	cfg := op.Resolve(nil).(DeskewParams)
	assert.Equal(t, 15.0, cfg.MaxAngle)

	cfg = op.Resolve(map[string]interface{}{"maxAngle": -20}).(DeskewParams)
	assert.Equal(t, 20.0, cfg.MaxAngle, "negative bound is taken as symmetric magnitude")

	cfg = op.Resolve(map[string]interface{}{"maxAngle": 0}).(DeskewParams)
	assert.Equal(t, 15.0, cfg.MaxAngle)
}
