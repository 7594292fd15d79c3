package ubuf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upipe.go.dev/upipe/ubuf"
)

func yuv420pFormat(w, h int) ubuf.PictureFormat {
	return ubuf.PictureFormat{
		HSize: w, VSize: h, Macropixel: 1,
		Planes: []ubuf.PlaneDesc{
			{Chroma: "y8", HSub: 1, VSub: 1, MacroPixel: 1},
			{Chroma: "u8", HSub: 2, VSub: 2, MacroPixel: 1},
			{Chroma: "v8", HSub: 2, VSub: 2, MacroPixel: 1},
		},
	}
}

func fillPicture(t *testing.T, p *ubuf.Picture, y, u, v byte) {
	t.Helper()
	for i, val := range []byte{y, u, v} {
		w, err := p.WritePlane(i)
		require.NoError(t, err)
		for j := range w.Bytes() {
			w.Bytes()[j] = val
		}
		w.Unmap()
	}
}

func TestPictureBlitIdentity(t *testing.T) {
	mgr := ubuf.NewPictureManager(nil)

	dst, err := mgr.Alloc(yuv420pFormat(1280, 720))
	require.NoError(t, err)
	fillPicture(t, dst, 16, 128, 128)

	src, err := mgr.Alloc(yuv420pFormat(320, 180))
	require.NoError(t, err)
	fillPicture(t, src, 235, 128, 128)

	require.NoError(t, ubuf.Blit(dst, src, 64, 32, ubuf.BlitAlpha{Multiplier: 0xff}))

	yPlane, err := dst.ReadPlane(0)
	require.NoError(t, err)
	defer yPlane.Unmap()

	stride, _, _, _, err := dst.PlaneSize(0)
	require.NoError(t, err)

	for row := 0; row < 720; row++ {
		for col := 0; col < 1280; col++ {
			got := yPlane.Bytes()[row*stride+col]
			inRect := row >= 32 && row < 212 && col >= 64 && col < 384
			if inRect {
				assert.Equal(t, byte(235), got, "row %d col %d should be blitted", row, col)
			} else {
				assert.Equal(t, byte(16), got, "row %d col %d should be untouched", row, col)
			}
		}
	}
}

func TestPictureResizeCrop(t *testing.T) {
	mgr := ubuf.NewPictureManager(nil)
	p, err := mgr.Alloc(yuv420pFormat(64, 64))
	require.NoError(t, err)

	require.NoError(t, p.Resize(4, 4, 32, 32))
	f := p.Format()
	assert.Equal(t, 32, f.HSize)
	assert.Equal(t, 32, f.VSize)
}
