package lbutils

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/bmizerany/assert"
)

func TestRunPanicless(t *testing.T) {
	paniced := RunPanicless(func() {
		panic(1)
	})
	assert.T(t, paniced, "should panic")
	paniced = RunPanicless(func() {
		panic(fmt.Errorf("bad"))
	})
	assert.T(t, paniced, "should panic")
	paniced = RunPanicless(func() {})
	assert.T(t, !paniced, "should not panic")
}

func TestRepeatUntilPanicless(t *testing.T) {
	n := 0
	RepeatUntilPanicless(func() {
		n += 1
		if n < 3 {
			panic(n)
		}
	})
	assert.Equal(t, n, 3)
}

func TestMultiWriter(t *testing.T) {
	b1 := &bytes.Buffer{}
	b2 := &bytes.Buffer{}
	mw := NewMultiWriter(b1, b2)
	mw.Write([]byte("gamelb"))
	assert.Equal(t, b1.String(), "gamelb")
	assert.Equal(t, b2.String(), "gamelb")
}
