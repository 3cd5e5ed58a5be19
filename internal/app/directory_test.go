package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baatlink/baatlink/internal/core"
)

func TestDirectoryJoinReturnsPreviousMembership(t *testing.T) {
	d := NewDirectory()

	prev := d.Join("abc", "a")
	assert.Empty(t, prev)

	prev = d.Join("abc", "b")
	assert.Equal(t, []core.ConnID{"a"}, prev)
	assert.Equal(t, 2, d.Size("abc"))
}

func TestDirectoryJoinIdempotent(t *testing.T) {
	d := NewDirectory()
	d.Join("abc", "a")
	first := d.Join("abc", "b")

	again := d.Join("abc", "b")

	assert.ElementsMatch(t, first, again)
	assert.Equal(t, 2, d.Size("abc"))
}

func TestDirectoryEmptyRoomIsNotRetained(t *testing.T) {
	d := NewDirectory()
	d.Join("abc", "a")
	d.Join("abc", "b")

	d.Leave("abc", "a")
	assert.Equal(t, 1, d.Size("abc"))

	d.Leave("abc", "b")
	assert.Zero(t, d.Size("abc"))
	assert.Empty(t, d.Members("abc"))
	assert.Empty(t, d.List())
}

func TestDirectoryLeaveUnknownIsNoOp(t *testing.T) {
	d := NewDirectory()
	d.Leave("nope", "a")

	d.Join("abc", "a")
	d.Leave("abc", "ghost")
	assert.Equal(t, 1, d.Size("abc"))
}

func TestDirectoryContains(t *testing.T) {
	d := NewDirectory()
	d.Join("abc", "a")

	assert.True(t, d.Contains("abc", "a"))
	assert.False(t, d.Contains("abc", "b"))
	assert.False(t, d.Contains("other", "a"))
}

func TestDirectoryList(t *testing.T) {
	d := NewDirectory()
	d.Join("abc", "a")
	d.Join("abc", "b")
	d.Join("xyz", "c")

	infos := d.List()
	assert.Len(t, infos, 2)
	counts := map[string]int{}
	for _, info := range infos {
		counts[string(info.Code)] = info.MemberCount
	}
	assert.Equal(t, map[string]int{"abc": 2, "xyz": 1}, counts)
}
