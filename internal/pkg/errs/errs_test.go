//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"fio-market/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark(t *testing.T) {
	marker := errs.New("not found")

	t.Run("keeps the specific message", func(t *testing.T) {
		err := errs.Mark(errs.New("Order not found"), marker)
		assert.Equal(t, "Order not found", err.Error())
	})

	t.Run("matches the marker under errors.Is", func(t *testing.T) {
		err := errs.Mark(errs.New("Order not found"), marker)
		assert.ErrorIs(t, err, marker)
	})

	t.Run("still matches the cause chain", func(t *testing.T) {
		cause := errs.New("row missing")
		err := errs.Mark(errs.Wrap(cause, "failed to load order"), marker)
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, marker)
	})

	t.Run("marks stack", func(t *testing.T) {
		second := errs.New("bad request")
		err := errs.Mark(errs.Mark(errs.New("boom"), marker), second)
		assert.ErrorIs(t, err, marker)
		assert.ErrorIs(t, err, second)
		assert.Equal(t, "boom", err.Error())
	})

	t.Run("wrapping a marked error keeps the marker", func(t *testing.T) {
		err := errs.Wrap(errs.Mark(errs.New("boom"), marker), "loading")
		assert.ErrorIs(t, err, marker)
	})

	t.Run("nil cause degrades to the marker", func(t *testing.T) {
		err := errs.Mark(nil, marker)
		require.NotNil(t, err)
		assert.True(t, errors.Is(err, marker))
	})
}
