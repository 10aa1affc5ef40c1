package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextConsecutivo(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		year     int
		want     string
	}{
		{"first of year", nil, 2024, "2024-001"},
		{"continues max", []string{"2024-001", "2024-002"}, 2024, "2024-003"},
		{"uses max not count", []string{"2024-001", "2024-007"}, 2024, "2024-008"},
		{"ignores other years", []string{"2023-005", "2023-006"}, 2024, "2024-001"},
		{"ignores malformed", []string{"2024-abc", "2024-002"}, 2024, "2024-003"},
		{"grows past three digits", []string{"2024-999"}, 2024, "2024-1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextConsecutivo(tt.existing, tt.year))
		})
	}
}

func TestConsecutivoSuffix(t *testing.T) {
	n, ok := ConsecutivoSuffix("2023-042", 2023)
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = ConsecutivoSuffix("2023-042", 2024)
	assert.False(t, ok)
}
