package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		size      int
		wantFrom  int
		wantLimit int
	}{
		{"first page", 1, 10, 0, 10},
		{"second page", 2, 10, 10, 10},
		{"zero page clamps to first", 0, 10, 0, 10},
		{"negative page clamps to first", -3, 10, 0, 10},
		{"zero size uses default", 1, 0, 0, DefaultPageSize},
		{"oversized size uses default", 1, 500, 0, DefaultPageSize},
		{"custom size", 3, 25, 50, 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from, limit := Calculate(tc.page, tc.size)
			require.Equal(t, tc.wantFrom, from)
			require.Equal(t, tc.wantLimit, limit)
		})
	}
}
