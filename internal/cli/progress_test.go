package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	var out bytes.Buffer
	p := NewProgress(&out, 3, "Generating layout guides...")

	p.Step()
	p.Describe("board_b.net")
	p.Step()
	assert.Equal(t, int64(2), p.Current())
	assert.False(t, p.Done())

	p.Step()
	assert.True(t, p.Done())
}

func TestProgress_NilWriter(t *testing.T) {
	p := NewProgress(nil, 1, "single")
	p.Step()
	assert.True(t, p.Done())
}
