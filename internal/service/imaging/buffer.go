package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ChannelOrder is the byte order of the three color channels in a buffer.
type ChannelOrder int

const (
	BGR ChannelOrder = iota
	RGB
)

func (o ChannelOrder) String() string {
	if o == RGB {
		return "RGB"
	}
	return "BGR"
}

// ImageBuffer is a decoded 8-bit, 3-channel raster.
type ImageBuffer struct {
	mat   gocv.Mat
	order ChannelOrder
}

// NewImageBuffer takes ownership of mat.
func NewImageBuffer(mat gocv.Mat, order ChannelOrder) ImageBuffer {
	return ImageBuffer{mat: mat, order: order}
}

func (b ImageBuffer) Width() int          { return b.mat.Cols() }
func (b ImageBuffer) Height() int         { return b.mat.Rows() }
func (b ImageBuffer) Channels() int       { return b.mat.Channels() }
func (b ImageBuffer) Order() ChannelOrder { return b.order }
func (b ImageBuffer) Empty() bool         { return b.mat.Empty() }

// Size returns width and height as a point.
func (b ImageBuffer) Size() image.Point {
	return image.Pt(b.Width(), b.Height())
}

// Pixels returns a copy of the raw pixel bytes, row-major.
func (b ImageBuffer) Pixels() []byte {
	return b.mat.ToBytes()
}

// Mat exposes the underlying matrix for drawing and encoding.
func (b ImageBuffer) Mat() *gocv.Mat {
	return &b.mat
}

// Clone returns a deep copy that must be closed separately.
func (b ImageBuffer) Clone() ImageBuffer {
	return ImageBuffer{mat: b.mat.Clone(), order: b.order}
}

// Convert returns a copy in the requested channel order.
func (b ImageBuffer) Convert(order ChannelOrder) (ImageBuffer, error) {
	if order == b.order {
		return b.Clone(), nil
	}

	code := gocv.ColorBGRToRGB
	if b.order == RGB {
		code = gocv.ColorRGBToBGR
	}

	dst := gocv.NewMat()
	if err := gocv.CvtColor(b.mat, &dst, code); err != nil {
		dst.Close()
		return ImageBuffer{}, fmt.Errorf("failed to convert %s to %s: %w", b.order, order, err)
	}
	return ImageBuffer{mat: dst, order: order}, nil
}

// Close releases the native memory.
func (b ImageBuffer) Close() error {
	return b.mat.Close()
}
