// Package genblk implements a block-generator source pipe: it allocates
// fixed-size blocks from a ubuf.BlockManager and pushes them downstream,
// optionally paced by a golang.org/x/time/rate.Limiter. It is the
// Go-native analogue of upipe's upipe_void_source/genblk test pipes used
// to drive a pipeline without any real I/O.
package genblk

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"upipe.go.dev/upipe"
	"upipe.go.dev/upipe/ubuf"
	"upipe.go.dev/upipe/udict"
	"upipe.go.dev/upipe/uerror"
	"upipe.go.dev/upipe/uref"
	"upipe.go.dev/upipe/upump"
	"upipe.go.dev/upipe/uprobe"
)

// Source generates blocks of BlockSize bytes and pushes them to output.
// A nil limiter means unpaced: every Produce call emits a block.
type Source struct {
	upipe.Base
	mgr       *ubuf.BlockManager
	limiter   *rate.Limiter
	blockSize int
	flowDef   string
	output    upipe.Pipe
	idler     upump.Pump
	seq       uint64
	produced  int64
}

// New creates a Source allocating blockSize-byte blocks from mgr, wired
// to probe. limiter may be nil to disable pacing.
func New(id string, probe uprobe.Probe, mgr *ubuf.BlockManager, blockSize int, limiter *rate.Limiter) *Source {
	s := &Source{mgr: mgr, blockSize: blockSize, limiter: limiter, flowDef: "block."}
	upipe.Init(&s.Base, id, "upipe.genblk", probe, s, func() {
		if s.idler != nil {
			s.idler.Stop()
		}
	})
	return s
}

// Input implements upipe.Pipe; a source has no upstream.
func (s *Source) Input(ctx context.Context, ref *uref.Ref, pump upump.Pump) {
	s.Throw(uprobe.Event{Kind: uprobe.KindError, Err: fmt.Errorf("genblk: source has no input side")})
}

// Produce allocates and pushes one block downstream, honoring the
// configured rate limiter. It reports whether a block was actually
// produced (false when the limiter denied the attempt or no output is
// wired yet).
func (s *Source) Produce(ctx context.Context) bool {
	if s.output == nil {
		return false
	}
	if s.limiter != nil && !s.limiter.Allow() {
		return false
	}

	blk, err := s.mgr.Alloc(s.blockSize)
	if err != nil {
		s.Throw(uprobe.Event{Kind: uprobe.KindError, Err: fmt.Errorf("genblk: alloc block: %w", err)})
		return false
	}

	r := uref.NewWithBuf(udict.New(), blk)
	r.SetFlowDef(s.flowDef)
	s.seq++
	r.SetSeqNum(s.seq)

	s.produced++
	s.output.Input(ctx, r, nil)
	return true
}

// Produced reports how many blocks have been emitted, for tests.
func (s *Source) Produced() int64 { return s.produced }

// Control implements upipe.Pipe.
func (s *Source) Control(cmd *upipe.Command) error {
	switch cmd.Kind {
	case upipe.CmdSetOutput:
		s.output = cmd.Output
		return nil
	case upipe.CmdGetOutput:
		if cmd.OutputOut != nil {
			*cmd.OutputOut = s.output
		}
		return nil
	case upipe.CmdSetFlowDef:
		s.flowDef = cmd.FlowDef
		return nil
	case upipe.CmdGetFlowDef:
		if cmd.FlowDefOut != nil {
			*cmd.FlowDefOut = s.flowDef
		}
		return nil
	case upipe.CmdSetOutputSize:
		s.blockSize = cmd.Width
		return nil
	case upipe.CmdGetOutputSize:
		if cmd.WidthOut != nil {
			*cmd.WidthOut = s.blockSize
		}
		return nil
	case upipe.CmdAttachUpumpMgr:
		if cmd.UpumpMgr == nil {
			return fmt.Errorf("genblk: attach_upump_mgr with nil manager: %w", uerror.ErrInvalid)
		}
		idler, err := cmd.UpumpMgr.AddIdler(func() { s.Produce(context.Background()) })
		if err != nil {
			return fmt.Errorf("genblk: registering idler: %w", err)
		}
		s.idler = idler
		return idler.Start()
	default:
		return uerror.ErrUnhandled
	}
}
