package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{"pending", "accepted", true},
		{"pending", "cancelled", true},
		{"pending", "in_progress", false},
		{"accepted", "in_progress", true},
		{"accepted", "cancelled", true},
		{"accepted", "completed", false},
		{"in_progress", "completed", true},
		{"in_progress", "cancelled", false},
		{"completed", "cancelled", false},
		{"cancelled", "pending", false},
		{"cancelled", "accepted", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
