package uref

import (
	"upipe.go.dev/upipe/udict"
	"upipe.go.dev/upipe/uerror"
)

// This file replaces upipe's token-pasted UREF_ATTR_* macro family (one
// macro invocation generating a get/set/delete trio per attribute) with a
// small set of generic helpers parameterized over udict.Kind, per the
// generalization. Each named attribute below is a thin call
// into one of these helpers rather than hand-written boilerplate.

func getString(r *Ref, name string) (string, error) {
	v, err := r.dict.Get(name, udict.KindString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func setString(r *Ref, name, v string) {
	r.dict.Set(name, udict.KindString, v)
}

func getUint64(r *Ref, name string) (uint64, error) {
	v, err := r.dict.Get(name, udict.KindUnsigned)
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}

func setUint64(r *Ref, name string, v uint64) {
	r.dict.Set(name, udict.KindUnsigned, v)
}

func getInt64(r *Ref, name string) (int64, error) {
	v, err := r.dict.Get(name, udict.KindInt)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func setInt64(r *Ref, name string, v int64) {
	r.dict.Set(name, udict.KindInt, v)
}

func getFloat(r *Ref, name string) (float64, error) {
	v, err := r.dict.Get(name, udict.KindFloat)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

func setFloat(r *Ref, name string, v float64) {
	r.dict.Set(name, udict.KindFloat, v)
}

func getBool(r *Ref, name string) (bool, error) {
	v, err := r.dict.Get(name, udict.KindBool)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

func setBool(r *Ref, name string, v bool) {
	r.dict.Set(name, udict.KindBool, v)
}

func getRational(r *Ref, name string) (udict.Rational, error) {
	v, err := r.dict.Get(name, udict.KindRational)
	if err != nil {
		return udict.Rational{}, err
	}
	return v.(udict.Rational), nil
}

func setRational(r *Ref, name string, v udict.Rational) {
	r.dict.Set(name, udict.KindRational, v)
}

// deleteAttr removes name/kind from the dict, matching the delete half of
// every accessor trio.
func deleteAttr(r *Ref, name string, kind udict.Kind) {
	r.dict.Delete(name, kind)
}

// cmpUint64 compares the same-named attribute between two refs, returning
// uerror.ErrInvalid if either is missing.
func cmpUint64(a, b *Ref, name string) (int, error) {
	av, err := getUint64(a, name)
	if err != nil {
		return 0, uerror.ErrInvalid
	}
	bv, err := getUint64(b, name)
	if err != nil {
		return 0, uerror.ErrInvalid
	}
	switch {
	case av < bv:
		return -1, nil
	case av > bv:
		return 1, nil
	default:
		return 0, nil
	}
}
