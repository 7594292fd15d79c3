package upipe

import (
	"upipe.go.dev/upipe/uclock"
	"upipe.go.dev/upipe/upump"
)

// CommandKind is the tagged-enum replacement for upipe's variadic
// control commands (DESIGN_NOTES: "variadic control commands. Replace
// with a tagged command enum whose variants carry typed parameters and
// explicit return variants").
type CommandKind int

const (
	// CmdAttachUpumpMgr attaches the upump.Manager this pipe's worker
	// loop should register pumps on.
	CmdAttachUpumpMgr CommandKind = iota
	// CmdAttachUclock attaches the uclock.Clock this pipe should use
	// for PTS/timing decisions.
	CmdAttachUclock
	// CmdSetFlowDef announces the flow definition of urefs this pipe
	// will receive or produce.
	CmdSetFlowDef
	// CmdGetFlowDef retrieves the pipe's current flow definition.
	CmdGetFlowDef
	// CmdGetOutput retrieves the pipe currently wired as output.
	CmdGetOutput
	// CmdSetOutput wires a downstream pipe as this pipe's output.
	CmdSetOutput
	// CmdGetOutputSize retrieves a size hint for buffers this pipe
	// produces (e.g. picture dimensions).
	CmdGetOutputSize
	// CmdSetOutputSize requests this pipe produce buffers of a given
	// size hint.
	CmdSetOutputSize
	// CmdGetURI retrieves a source/sink pipe's backing URI.
	CmdGetURI
	// CmdSetURI sets a source/sink pipe's backing URI.
	CmdSetURI
	// CmdSetOption sets a signature-private string option.
	CmdSetOption
	// CmdFlush discards any buffered state (e.g. held input, partial
	// frames) without tearing the pipe down.
	CmdFlush
	// CmdRegisterRequest registers a urequest.Request this pipe should
	// try to answer, or otherwise forward up its probe chain.
	CmdRegisterRequest
	// CmdUnregisterRequest cancels a previously registered request.
	CmdUnregisterRequest
	// CmdIterateSub iterates this pipe's subpipes, if it is a super
	// pipe.
	CmdIterateSub
	// CmdSubGetSuper retrieves a subpipe's super pipe.
	CmdSubGetSuper
)

func (k CommandKind) String() string {
	switch k {
	case CmdAttachUpumpMgr:
		return "attach_upump_mgr"
	case CmdAttachUclock:
		return "attach_uclock"
	case CmdSetFlowDef:
		return "set_flow_def"
	case CmdGetFlowDef:
		return "get_flow_def"
	case CmdGetOutput:
		return "get_output"
	case CmdSetOutput:
		return "set_output"
	case CmdGetOutputSize:
		return "get_output_size"
	case CmdSetOutputSize:
		return "set_output_size"
	case CmdGetURI:
		return "get_uri"
	case CmdSetURI:
		return "set_uri"
	case CmdSetOption:
		return "set_option"
	case CmdFlush:
		return "flush"
	case CmdRegisterRequest:
		return "register_request"
	case CmdUnregisterRequest:
		return "unregister_request"
	case CmdIterateSub:
		return "iterate_sub"
	case CmdSubGetSuper:
		return "sub_get_super"
	default:
		return "unknown"
	}
}

// Command is the tagged union carrying every control-command variant's
// typed payload. Only the fields relevant to Kind are meaningful.
type Command struct {
	Kind CommandKind

	UpumpMgr upump.Manager
	Uclock   uclock.Clock

	FlowDef string

	Output Pipe

	Width, Height int

	URI string

	OptionKey, OptionValue string

	Request interface{}

	// Sub is populated by CmdSubGetSuper's caller as the subpipe asking
	// for its super, and by a CmdIterateSub response as the next
	// subpipe in iteration order (nil ends iteration).
	Sub Pipe

	// FlowDefOut, OutputOut, URIOut, OptionValueOut, SuperOut, WidthOut,
	// HeightOut carry "get"-style results back to the caller after
	// Control returns.
	FlowDefOut     *string
	OutputOut      *Pipe
	URIOut         *string
	OptionValueOut *string
	SuperOut       *Pipe
	WidthOut       *int
	HeightOut      *int
}
