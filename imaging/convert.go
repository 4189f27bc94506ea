package imaging

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// MatToImage converts a Mat to a standard Go image. Single-channel Mats
// become *image.Gray; three- and four-channel BGR(A) Mats become
// *image.RGBA.
func MatToImage(src gocv.Mat) (image.Image, error) {
	if src.Empty() {
		return nil, fmt.Errorf("source Mat is empty")
	}

	rows := src.Rows()
	cols := src.Cols()

	switch src.Channels() {
	case 1:
		img := image.NewGray(image.Rect(0, 0, cols, rows))
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				img.SetGray(x, y, color.Gray{Y: src.GetUCharAt(y, x)})
			}
		}
		return img, nil

	case 3:
		img := image.NewRGBA(image.Rect(0, 0, cols, rows))
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				img.SetRGBA(x, y, color.RGBA{
					R: src.GetUCharAt3(y, x, 2),
					G: src.GetUCharAt3(y, x, 1),
					B: src.GetUCharAt3(y, x, 0),
					A: 255,
				})
			}
		}
		return img, nil

	case 4:
		img := image.NewRGBA(image.Rect(0, 0, cols, rows))
		for y := 0; y < rows; y++ {
			for x := 0; x < cols; x++ {
				img.SetRGBA(x, y, color.RGBA{
					R: src.GetUCharAt3(y, x, 2),
					G: src.GetUCharAt3(y, x, 1),
					B: src.GetUCharAt3(y, x, 0),
					A: src.GetUCharAt3(y, x, 3),
				})
			}
		}
		return img, nil

	default:
		return nil, fmt.Errorf("unsupported channel count: %d", src.Channels())
	}
}

// ImageToMat converts a standard Go image to a Mat: grayscale images to a
// single-channel Mat, everything else to three-channel BGR.
func ImageToMat(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return gocv.NewMat(), fmt.Errorf("invalid image dimensions: %dx%d", width, height)
	}

	if gray, ok := img.(*image.Gray); ok {
		mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				mat.SetUCharAt(y, x, gray.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y)
			}
		}
		return mat, nil
	}

	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			mat.SetUCharAt3(y, x, 0, uint8(b>>8))
			mat.SetUCharAt3(y, x, 1, uint8(g>>8))
			mat.SetUCharAt3(y, x, 2, uint8(r>>8))
		}
	}
	return mat, nil
}
