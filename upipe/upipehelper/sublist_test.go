package upipehelper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"upipe.go.dev/upipe/upipe/upipehelper"
)

func eqInt(a, b int) bool { return a == b }
func zeroInt(a int) bool  { return a == 0 }

func TestAddAllPreservesOrder(t *testing.T) {
	var l upipehelper.SubList[int]
	l.Add(1)
	l.Add(2)
	l.Add(3)
	assert.Equal(t, []int{1, 2, 3}, l.All())
	assert.Equal(t, 3, l.Len())
}

func TestRemoveDropsFirstMatch(t *testing.T) {
	var l upipehelper.SubList[int]
	l.Add(1)
	l.Add(2)
	l.Add(3)

	assert.True(t, l.Remove(2, eqInt))
	assert.Equal(t, []int{1, 3}, l.All())
	assert.False(t, l.Remove(2, eqInt))
}

func TestNextWalksEntireList(t *testing.T) {
	var l upipehelper.SubList[int]
	l.Add(10)
	l.Add(20)
	l.Add(30)

	first, ok := l.Next(0, eqInt, zeroInt)
	assert.True(t, ok)
	assert.Equal(t, 10, first)

	second, ok := l.Next(first, eqInt, zeroInt)
	assert.True(t, ok)
	assert.Equal(t, 20, second)

	third, ok := l.Next(second, eqInt, zeroInt)
	assert.True(t, ok)
	assert.Equal(t, 30, third)

	_, ok = l.Next(third, eqInt, zeroInt)
	assert.False(t, ok)
}
