package strings

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name   string
		input  []string
		key    func(string) string
		expect []string
	}{
		{name: "nil input", input: nil, expect: nil},
		{name: "empty input", input: []string{}, expect: []string{}},
		{name: "blank values dropped", input: []string{"", "  ", "\t"}, expect: []string{}},
		{name: "trims and keeps order", input: []string{" tax ", "audit", "tax"}, expect: []string{"tax", "audit"}},
		{name: "exact keys are case sensitive", input: []string{"Audit", "audit"}, expect: []string{"Audit", "audit"}},
		{
			name:   "custom key",
			input:  []string{"go-lang", "golang", "rust"},
			key:    func(s string) string { return strings.ReplaceAll(s, "-", "") },
			expect: []string{"go-lang", "rust"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Dedupe(tt.input, tt.key))
		})
	}
}

func TestDedupeFold(t *testing.T) {
	assert.Equal(t,
		[]string{"Tax Advisory", "audit"},
		DedupeFold([]string{" Tax Advisory", "audit", "tax advisory", "AUDIT", ""}),
	)
}
