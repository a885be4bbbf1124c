package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandFormats(t *testing.T) {
	tests := []struct {
		controls string
		want     []string
	}{
		{"(A,I,R)", []string{"A", "I", "R"}},
		{"(3A)", []string{"A", "A", "A"}},
		{"(2A(5))", []string{"A(5)", "A(5)"}},
		{"(b11,b14,2b11,3A,b11)", []string{"b11", "b14", "b11", "b11", "A", "A", "A", "b11"}},
		{"(A(2),2(b11,b24))", []string{"A(2)", "b11", "b24", "b11", "b24"}},
		{"(2(A,2(I)))", []string{"A", "I", "I", "A", "I", "I"}},
		{"( A , b12 )", []string{"A", "b12"}},
		{"()", nil},
		{"(12b14)", []string{"b14", "b14", "b14", "b14", "b14", "b14", "b14", "b14", "b14", "b14", "b14", "b14"}},
	}

	for _, tt := range tests {
		t.Run(tt.controls, func(t *testing.T) {
			got, err := ExpandFormats(tt.controls)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandFormats_Errors(t *testing.T) {
	for _, controls := range []string{
		"A,I",
		"(A,I",
		"",
		"(A,(I)",
		"(A),I)",
		"(3)",
		"(0A)",
		"(2(A,I)",
	} {
		t.Run(controls, func(t *testing.T) {
			_, err := ExpandFormats(controls)
			assert.Error(t, err)
		})
	}
}
