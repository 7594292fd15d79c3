// Package v210 implements a transcoding filter pipe around the V210
// pack/unpack math in internal/simd: Encoder turns planar 16-bit Y/U/V
// samples into V210-packed bytes, Decoder reverses it. Both sides carry
// their samples as a single ubuf.Block per uref (concatenated
// little-endian planes for the planar side, a raw V210 line for the
// packed side), so the filter composes with modules/genblk and
// modules/counter the same way any other linear filter does.
package v210

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/internal/simd"
	"upipe.go.dev/upipe/ubuf"
	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upump"
	"upipe.go.dev/upipe/uprobe"
)

func planarToBytes(y, u, v []uint16) []byte {
	out := make([]byte, 2*(len(y)+len(u)+len(v)))
	off := 0
	for _, samples := range [][]uint16{y, u, v} {
		for _, s := range samples {
			binary.LittleEndian.PutUint16(out[off:off+2], s)
			off += 2
		}
	}
	return out
}

func bytesToPlanar(data []byte, width int) (y, u, v []uint16, err error) {
	chromaWidth := width / 2
	want := 2 * (width + 2*chromaWidth)
	if len(data) != want {
		return nil, nil, nil, fmt.Errorf("v210: planar payload length %d, want %d for width %d: %w", len(data), want, width, uerror.ErrInvalid)
	}
	y = make([]uint16, width)
	u = make([]uint16, chromaWidth)
	v = make([]uint16, chromaWidth)
	off := 0
	for _, samples := range [][]uint16{y, u, v} {
		for i := range samples {
			samples[i] = binary.LittleEndian.Uint16(data[off : off+2])
			off += 2
		}
	}
	return y, u, v, nil
}

// Filter is a linear pipe transcoding between planar 16-bit Y/U/V and
// packed V210 bytes, in the direction fixed at construction.
type Filter struct {
	upipe.Base
	decode   bool
	width    int
	blockMgr *ubuf.BlockManager
	output   upipe.Pipe
}

// NewEncoder creates a Filter packing planar input into V210 output.
func NewEncoder(id string, probe uprobe.Probe, blockMgr *ubuf.BlockManager, width int) *Filter {
	f := &Filter{decode: false, width: width, blockMgr: blockMgr}
	upipe.Init(&f.Base, id, "upipe.v210enc", probe, f, func() {})
	return f
}

// NewDecoder creates a Filter unpacking V210 input into planar output.
func NewDecoder(id string, probe uprobe.Probe, blockMgr *ubuf.BlockManager, width int) *Filter {
	f := &Filter{decode: true, width: width, blockMgr: blockMgr}
	upipe.Init(&f.Base, id, "upipe.v210dec", probe, f, func() {})
	return f
}

// Input implements upipe.Pipe.
func (f *Filter) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	blk, ok := ref.Buf().(*ubuf.Block)
	if !ok {
		f.Throw(uprobe.Event{Kind: uprobe.KindError, Err: fmt.Errorf("v210: uref carries no block buffer")})
		ref.Free()
		return
	}

	mapped, err := blk.Read(0, blk.Size())
	if err != nil {
		f.Throw(uprobe.Event{Kind: uprobe.KindError, Err: fmt.Errorf("v210: mapping input block: %w", err)})
		ref.Free()
		return
	}
	out, err := f.transcode(mapped.Bytes())
	mapped.Unmap()
	if err != nil {
		f.Throw(uprobe.Event{Kind: uprobe.KindError, Err: err})
		ref.Free()
		return
	}

	outBlk, err := f.blockMgr.Alloc(len(out))
	if err != nil {
		f.Throw(uprobe.Event{Kind: uprobe.KindError, Err: fmt.Errorf("v210: allocating output block: %w", err)})
		ref.Free()
		return
	}
	w, err := outBlk.Write(0, len(out))
	if err != nil {
		f.Throw(uprobe.Event{Kind: uprobe.KindError, Err: fmt.Errorf("v210: mapping output block: %w", err)})
		ref.Free()
		return
	}
	copy(w.Bytes(), out)
	w.Unmap()

	// Fork shares ref's dict rather than copying it, so the original
	// block is released on its own here; calling ref.Free() would
	// release the dict forwarded is still using.
	forwarded := ref.Fork(outBlk)
	blk.Release()
	if f.output != nil {
		f.output.Input(ctx, forwarded, pump)
	} else {
		forwarded.Free()
	}
}

func (f *Filter) transcode(data []byte) ([]byte, error) {
	if f.decode {
		y, u, v, err := simd.UnpackV210(data, f.width)
		if err != nil {
			return nil, fmt.Errorf("v210: decode: %w", err)
		}
		return planarToBytes(y, u, v), nil
	}

	y, u, v, err := bytesToPlanar(data, f.width)
	if err != nil {
		return nil, fmt.Errorf("v210: encode: %w", err)
	}
	out, err := simd.PackV210(y, u, v, f.width)
	if err != nil {
		return nil, fmt.Errorf("v210: encode: %w", err)
	}
	return out, nil
}

// Control implements upipe.Pipe.
func (f *Filter) Control(cmd *upipe.Command) error {
	switch cmd.Kind {
	case upipe.CmdSetOutput:
		f.output = cmd.Output
		return nil
	case upipe.CmdGetOutput:
		if cmd.OutputOut != nil {
			*cmd.OutputOut = f.output
		}
		return nil
	case upipe.CmdSetOutputSize:
		f.width = cmd.Width
		return nil
	case upipe.CmdGetOutputSize:
		if cmd.WidthOut != nil {
			*cmd.WidthOut = f.width
		}
		return nil
	case upipe.CmdSetOption:
		if cmd.OptionKey != "width" {
			return uerror.ErrUnhandled
		}
		width, err := strconv.Atoi(cmd.OptionValue)
		if err != nil {
			return fmt.Errorf("v210: parsing width option %q: %w", cmd.OptionValue, err)
		}
		f.width = width
		return nil
	default:
		return uerror.ErrUnhandled
	}
}
