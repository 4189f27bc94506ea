package operations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestRegistryCatalog(t *testing.T) {
	reg := NewRegistry()

	expected := []string{"normalize", "grayscale", "deskew", "denoise", "contrast", "sharpen", "threshold"}
	assert.Equal(t, expected, reg.Names())

	for _, name := range expected {
		op, ok := reg.Get(name)
		require.True(t, ok, "operation %s must be registered", name)
		assert.Equal(t, name, op.Name())
		assert.True(t, reg.Has(name))
	}
}

func TestRegistryUnknownName(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Get("binarize")
	assert.False(t, ok)
	assert.False(t, reg.Has("binarize"))
}

func TestRegistryNamesIsACopy(t *testing.T) {
	reg := NewRegistry()

	names := reg.Names()
	names[0] = "mutated"
	assert.Equal(t, "normalize", reg.Names()[0])
}

func TestNilProgressIsSafe(t *testing.T) {
	src := newGradientGray(t, 32, 32)
	defer src.Close()

	op := Grayscale{}
	dst, err := op.Apply(src, op.Resolve(nil), nil)
	require.NoError(t, err)
	defer dst.Close()

	assert.Equal(t, 1, dst.Channels())
}

func TestEmptyInputIsRejected(t *testing.T) {
	reg := NewRegistry()
	empty := gocv.NewMat()
	defer empty.Close()

	for _, name := range reg.Names() {
		op, _ := reg.Get(name)
		dst, err := op.Apply(empty, op.Resolve(nil), nil)
		assert.Error(t, err, "operation %s must reject an empty Mat", name)
		dst.Close()
	}
}

// newGradientGray builds a single-channel horizontal gradient.
func newGradientGray(t *testing.T, rows, cols int) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			mat.SetUCharAt(y, x, uint8(50+x*150/cols))
		}
	}
	return mat
}

// newGradientBGR builds a three-channel image with differing channel ramps.
func newGradientBGR(t *testing.T, rows, cols int) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			mat.SetUCharAt3(y, x, 0, uint8(x*255/cols))
			mat.SetUCharAt3(y, x, 1, uint8(y*255/rows))
			mat.SetUCharAt3(y, x, 2, 128)
		}
	}
	return mat
}

// requireMatsEqual asserts two Mats are byte-identical.
func requireMatsEqual(t *testing.T, want, got gocv.Mat) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows())
	require.Equal(t, want.Cols(), got.Cols())
	require.Equal(t, want.Channels(), got.Channels())

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(want, got, &diff)

	sum := diff.Sum()
	require.Zero(t, sum.Val1+sum.Val2+sum.Val3+sum.Val4, "Mats differ")
}
