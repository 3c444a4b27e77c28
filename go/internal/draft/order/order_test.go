package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSnakeSequence(t *testing.T) {
	cases := []struct {
		name      string
		teamCount int
		want      []int // team index for picks 1..len(want)
	}{
		{
			name:      "four teams two rounds",
			teamCount: 4,
			want:      []int{0, 1, 2, 3, 3, 2, 1, 0},
		},
		{
			name:      "three teams two rounds",
			teamCount: 3,
			want:      []int{0, 1, 2, 2, 1, 0},
		},
		{
			name:      "single team",
			teamCount: 1,
			want:      []int{0, 0, 0, 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for i, want := range tc.want {
				slot := Resolve(i+1, tc.teamCount)
				assert.Equal(t, want, slot.TeamIndex, "pick %d", i+1)
			}
		})
	}
}

func TestResolveRounds(t *testing.T) {
	assert.Equal(t, 1, Resolve(1, 4).Round)
	assert.Equal(t, 1, Resolve(4, 4).Round)
	assert.Equal(t, 2, Resolve(5, 4).Round)
	assert.Equal(t, 3, Resolve(9, 4).Round)
	assert.Equal(t, 10, Resolve(40, 4).Round)
}

// Every index in [0, teamCount) is visited exactly twice over picks 1..2N,
// forward then reverse.
func TestResolveVisitsEveryIndexTwicePerTwoRounds(t *testing.T) {
	for teamCount := 1; teamCount <= 12; teamCount++ {
		seen := make(map[int]int)
		for pick := 1; pick <= 2*teamCount; pick++ {
			slot := Resolve(pick, teamCount)
			assert.GreaterOrEqual(t, slot.TeamIndex, 0)
			assert.Less(t, slot.TeamIndex, teamCount)
			seen[slot.TeamIndex]++
		}
		for idx, n := range seen {
			assert.Equal(t, 2, n, "teamCount=%d index=%d", teamCount, idx)
		}
	}
}

func TestMaxPicks(t *testing.T) {
	assert.Equal(t, 40, MaxPicks(4, 10))
	assert.Equal(t, 0, MaxPicks(0, 10))
}
