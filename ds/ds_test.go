package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestDivisibleByM(t *testing.T) {
	expected := map[int]int{
		0:   0,
		1:   8,
		7:   8,
		8:   8,
		9:   16,
		139: 144,
	}
	for n, rounded := range expected {
		assert.Equalf(t, rounded, NearestDivisibleByM(n, 8), "n = %d", n)
	}
	assert.Equal(t, 9, NearestDivisibleByM(7, 3))
	assert.Panics(t, func() { NearestDivisibleByM(1, 0) })
	assert.Panics(t, func() { NearestDivisibleByM(-1, 8) })
}

func TestShallowCopy(t *testing.T) {
	source := []int{1, 2, 3}
	copied := ShallowCopy(source)
	assert.Equal(t, source, copied)
	copied[0] = 9
	assert.Equal(t, 1, source[0])

	assert.Nil(t, ShallowCopy[int](nil))
	assert.NotNil(t, ShallowCopy([]int{}))
}

func TestDumpJSON(t *testing.T) {
	type sample struct {
		Name string `json:"name"`
	}
	assert.Equal(t, `{"name":"Ward"}`, DumpJSON(sample{Name: "Ward"}))
	assert.Contains(t, DumpJSON(make(chan int)), "DumpJSON error")
}

func TestErrUnreachableCode(t *testing.T) {
	assert.Equal(t, "cli.Run: unreachable code", ErrUnreachableCode{Caller: "cli.Run"}.Error())
	assert.Equal(
		t,
		"cli.Run: unreachable code: no subcommand",
		ErrUnreachableCode{Caller: "cli.Run", Reason: "no subcommand"}.Error(),
	)
}
