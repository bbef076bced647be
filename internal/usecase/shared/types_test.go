//go:build unit

package shared_test

import (
	"testing"

	"tablebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOverlapping(t *testing.T) {
	held := func(slots ...[2]int) []shared.HeldSlot {
		out := make([]shared.HeldSlot, len(slots))
		for i, s := range slots {
			out[i] = shared.HeldSlot{BookingID: uuid.New(), StartMin: s[0], EndMin: s[1]}
		}
		return out
	}

	cases := []struct {
		name     string
		startMin int
		endMin   int
		held     []shared.HeldSlot
		want     bool
	}{
		{"部分的に重なる", 18 * 60, 20 * 60, held([2]int{19 * 60, 21 * 60}), true},
		{"完全に包含される", 19 * 60, 20 * 60, held([2]int{18 * 60, 21 * 60}), true},
		{"既存枠を包含する", 18 * 60, 22 * 60, held([2]int{19 * 60, 20 * 60}), true},
		{"終端が接するだけはOK", 18 * 60, 20 * 60, held([2]int{20 * 60, 22 * 60}), false},
		{"始端が接するだけはOK", 20 * 60, 22 * 60, held([2]int{18 * 60, 20 * 60}), false},
		{"離れている", 10 * 60, 12 * 60, held([2]int{18 * 60, 20 * 60}), false},
		{"保持枠なし", 18 * 60, 20 * 60, nil, false},
		{"複数のうち一つと衝突", 18 * 60, 20 * 60, held([2]int{12 * 60, 14 * 60}, [2]int{19*60 + 30, 21 * 60}), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, shared.Overlapping(c.startMin, c.endMin, c.held))
		})
	}
}
