package helpers_test

import (
	"io"
	"testing"

	"github.com/cheggaaa/pb/v3"
	"github.com/stretchr/testify/assert"

	"repo-fetch/helpers"
)

func TestNewBarProgress(t *testing.T) {
	bar := pb.New64(0)
	bar.SetWriter(io.Discard)
	bar.Start()
	defer bar.Finish()

	update := helpers.NewBarProgress(bar)

	update(10, 100)
	assert.Equal(t, int64(10), bar.Current())
	assert.Equal(t, int64(100), bar.Total())

	update(100, 100)
	assert.Equal(t, int64(100), bar.Current())
}

func TestNewBarProgressIndeterminateTotal(t *testing.T) {
	bar := pb.New64(0)
	bar.SetWriter(io.Discard)
	bar.Start()
	defer bar.Finish()

	update := helpers.NewBarProgress(bar)

	update(42, 0)
	assert.Equal(t, int64(42), bar.Current())
	assert.Equal(t, int64(0), bar.Total())
}

func TestNopSinksDoNothing(t *testing.T) {
	assert.NotPanics(t, func() {
		helpers.NopProgress(10, 100)
		helpers.NopLogf("ignored %d", 1)
	})
}
