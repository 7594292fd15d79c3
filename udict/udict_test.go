package udict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"upipe.go.dev/upipe/udict"
)

func TestSetGetDelete(t *testing.T) {
	d := udict.New()

	_, err := d.Get("flow.def", udict.KindString)
	assert.ErrorIs(t, err, udict.ErrNotFound)

	d.Set("flow.def", udict.KindString, "block.mpegts.")
	v, err := d.Get("flow.def", udict.KindString)
	assert.NoError(t, err)
	assert.Equal(t, "block.mpegts.", v)

	d.Delete("flow.def", udict.KindString)
	_, err = d.Get("flow.def", udict.KindString)
	assert.ErrorIs(t, err, udict.ErrNotFound)
}

func TestSameNameDifferentKindAreDistinct(t *testing.T) {
	d := udict.New()
	d.Set("x", udict.KindString, "hello")
	d.Set("x", udict.KindInt, int64(42))

	s, err := d.Get("x", udict.KindString)
	assert.NoError(t, err)
	assert.Equal(t, "hello", s)

	i, err := d.Get("x", udict.KindInt)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), i)
}

func TestIterationPreservesInsertionOrder(t *testing.T) {
	d := udict.New()
	d.Set("a", udict.KindInt, int64(1))
	d.Set("b", udict.KindInt, int64(2))
	d.Set("c", udict.KindInt, int64(3))
	d.Set("a", udict.KindInt, int64(10)) // overwrite, should not move

	var names []string
	d.Iterate(func(a udict.Attr, v any) bool {
		names = append(names, a.Name)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestCloneIsIndependent(t *testing.T) {
	d := udict.New()
	d.Set("a", udict.KindInt, int64(1))

	clone := d.Clone()
	clone.Set("a", udict.KindInt, int64(2))

	v, _ := d.Get("a", udict.KindInt)
	assert.Equal(t, int64(1), v)

	v2, _ := clone.Get("a", udict.KindInt)
	assert.Equal(t, int64(2), v2)
}

func TestManagerPoolRecycles(t *testing.T) {
	mgr := udict.NewManager()
	d := mgr.Alloc()
	d.Set("x", udict.KindBool, true)
	d.Release()

	d2 := mgr.Alloc()
	assert.Equal(t, 0, d2.Len(), "recycled dict must come back empty")
}
