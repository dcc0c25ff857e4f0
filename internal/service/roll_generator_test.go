package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/slms-api/pkg/errors"
)

type rollSet map[string]bool

func (s rollSet) RollExists(ctx context.Context, roll string) (bool, error) {
	return s[roll], nil
}

func TestNextRollNumber(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name  string
		taken rollSet
		count int
		want  string
	}{
		{name: "first in scope", taken: rollSet{}, count: 0, want: "CST-2024-001"},
		{name: "sequential", taken: rollSet{}, count: 41, want: "CST-2024-042"},
		{name: "advances past collisions", taken: rollSet{"CST-2024-001": true, "CST-2024-002": true}, count: 0, want: "CST-2024-003"},
		{name: "four digits", taken: rollSet{}, count: 999, want: "CST-2024-1000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			roll, err := NextRollNumber(ctx, tc.taken, "cst", "2024", tc.count, 10)
			require.NoError(t, err)
			assert.Equal(t, tc.want, roll)
		})
	}
}

func TestNextRollNumberExhausted(t *testing.T) {
	taken := rollSet{"EEE-2024-001": true, "EEE-2024-002": true}
	_, err := NextRollNumber(context.Background(), taken, "EEE", "2024", 0, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}
