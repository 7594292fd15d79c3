package uref

import (
	"strings"

	"upipe.go.dev/upipe/udict"
)

// Flow definition attribute names.
const (
	attrFlowDef    = "f.def"
	attrFlowID     = "f.id"
	attrFlowName   = "f.name"
	attrFlowLatency = "f.latency"
	attrFlowRandom = "f.random"
	attrFlowLang   = "f.lang"
	attrFlowEnd    = "f.end"
)

// FlowDef returns the dot-separated flow definition string (e.g.
// "block.mpegts.", "pic.yuv420p.", "sound.s16le."), or ErrNotFound if this
// uref carries no flow definition.
func (r *Ref) FlowDef() (string, error) {
	return getString(r, attrFlowDef)
}

// SetFlowDef sets the flow definition string.
func (r *Ref) SetFlowDef(def string) {
	setString(r, attrFlowDef, def)
}

// FlowDefHasPrefix reports whether the flow definition starts with
// prefix, per upipe's "matching and narrowing use prefix
// comparison" - this is the one sanctioned way to reason about flow
// definition hierarchy; callers must not invent a parsed type hierarchy
// on top of it.
func (r *Ref) FlowDefHasPrefix(prefix string) bool {
	def, err := r.FlowDef()
	if err != nil {
		return false
	}
	return strings.HasPrefix(def, prefix)
}

// FlowID returns the numeric sub-flow id (used by demuxers to tag which
// logical stream a NEW_FLOW event or uref belongs to).
func (r *Ref) FlowID() (uint64, error) {
	return getUint64(r, attrFlowID)
}

// SetFlowID sets the sub-flow id.
func (r *Ref) SetFlowID(id uint64) {
	setUint64(r, attrFlowID, id)
}

// FlowName returns the human-readable flow name.
func (r *Ref) FlowName() (string, error) {
	return getString(r, attrFlowName)
}

// SetFlowName sets the human-readable flow name.
func (r *Ref) SetFlowName(name string) {
	setString(r, attrFlowName, name)
}

// FlowLatency returns the pipeline latency this flow introduces, in the
// same time base as clock attributes (see clock.go).
func (r *Ref) FlowLatency() (uint64, error) {
	return getUint64(r, attrFlowLatency)
}

// SetFlowLatency sets the flow latency.
func (r *Ref) SetFlowLatency(v uint64) {
	setUint64(r, attrFlowLatency, v)
}

// FlowRandom reports whether this flow definition uref marks a random
// access point flow (e.g. one that may be joined mid-stream).
func (r *Ref) FlowRandom() (bool, error) {
	return getBool(r, attrFlowRandom)
}

// SetFlowRandom sets the random-access flag.
func (r *Ref) SetFlowRandom(v bool) {
	setBool(r, attrFlowRandom, v)
}

// FlowLanguage returns the flow's language tag (e.g. "eng").
func (r *Ref) FlowLanguage() (string, error) {
	return getString(r, attrFlowLang)
}

// SetFlowLanguage sets the flow's language tag.
func (r *Ref) SetFlowLanguage(lang string) {
	setString(r, attrFlowLang, lang)
}

// FlowEnd reports whether this uref marks the end of its flow (the
// uref-level analogue of a SOURCE_END event, used when a demuxer knows a
// sub-flow terminated independently of the whole source).
func (r *Ref) FlowEnd() (bool, error) {
	return getBool(r, attrFlowEnd)
}

// SetFlowEnd marks this uref as ending its flow.
func (r *Ref) SetFlowEnd(v bool) {
	setBool(r, attrFlowEnd, v)
}

// HeadersAppend stores a block of out-of-band header/extradata bytes as
// an opaque attribute (e.g. SPS/PPS, codec private data).
func (r *Ref) HeadersAppend(headers []byte) {
	r.dict.Set("f.headers", udict.KindOpaque, headers)
}

// Headers returns previously stored header bytes.
func (r *Ref) Headers() ([]byte, error) {
	v, err := r.dict.Get("f.headers", udict.KindOpaque)
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
