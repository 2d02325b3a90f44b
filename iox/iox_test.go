package iox

import (
	"errors"
	"testing"
)

type recordingCloser struct {
	closed bool
}

func (r *recordingCloser) Close() error {
	r.closed = true
	return errors.New("close failed")
}

func TestDiscardClose(t *testing.T) {
	c := &recordingCloser{}
	DiscardClose(c)
	if !c.closed {
		t.Error("Close was not called")
	}
}

func TestDiscardErr(t *testing.T) {
	called := false
	DiscardErr(func() error {
		called = true
		return errors.New("flush failed")
	})
	if !called {
		t.Error("fn was not called")
	}
}
