package common

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestPlayerList(t *testing.T) {
	pl := PlayerList{}
	pl.Append("1")
	assert.T(t, len(pl) == 1, "wrong length")
	pl.Append("2")
	assert.T(t, len(pl) == 2, "wrong length")
	pl.Append("1")
	assert.T(t, len(pl) == 3, "wrong length")
	assert.Tf(t, pl.Find("1") == 0, "wrong index: %d", pl.Find("1"))
	assert.Tf(t, pl.Find("2") == 1, "wrong index: %d", pl.Find("2"))
	assert.Tf(t, pl.Find("3") == -1, "wrong index: %d", pl.Find("3"))

	cp := pl.Copy()
	cp.Append("4")
	assert.T(t, len(pl) == 3, "copy should not affect original")
	assert.T(t, len(cp) == 4, "wrong copy length")
}

func TestServerIDForIndex(t *testing.T) {
	assert.Equal(t, ServerIDForIndex(0), ServerID("Game_Server_1"))
	assert.Equal(t, ServerIDForIndex(2), ServerID("Game_Server_3"))
}
