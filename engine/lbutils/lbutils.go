package lbutils

import (
	"io"

	"github.com/playnet/gamelb/engine/lblog"
)

// RunPanicless calls a function panic-freely
func RunPanicless(f func()) (paniced bool) {
	defer func() {
		err := recover()
		if err != nil {
			lblog.TraceError("%s panic: %s", f, err)
			paniced = true
		}
	}()

	f()
	return
}

// RepeatUntilPanicless runs the function repeatly until there is no panic
func RepeatUntilPanicless(f func()) {
	for !RunPanicless(f) {
	}
}

// MultiWriter writes to multiple writers
type MultiWriter struct {
	subwriters []io.Writer
}

// NewMultiWriter creates a writer that duplicates writes to all sub writers
func NewMultiWriter(writers ...io.Writer) io.Writer {
	mw := &MultiWriter{
		subwriters: writers,
	}
	return mw
}

func (mw *MultiWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	for _, subwriter := range mw.subwriters {
		subwriter.Write(p)
	}
	return
}
