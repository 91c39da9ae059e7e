package rag

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{name: "empty", text: "  \n ", size: 50, want: nil},
		{name: "single paragraph", text: "Envíos en CABA.", size: 50, want: []string{"Envíos en CABA."}},
		{
			name: "paragraphs packed while they fit",
			text: "Uno.\n\nDos.\r\n\r\nTres tres tres tres.",
			size: 12,
			want: []string{"Uno.\n\nDos.", "Tres tres", "tres tres."},
		},
		{
			name: "oversized paragraph split on lines",
			text: "linea uno\nlinea dos",
			size: 12,
			want: []string{"linea uno", "linea dos"},
		},
		{name: "oversized word cut", text: "abcdefghij", size: 4, want: []string{"abcd", "efgh", "ij"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitText(tt.text, tt.size))
		})
	}
}

func TestSplitTextRespectsSize(t *testing.T) {
	text := strings.Repeat("La carne se despacha envasada al vacío. ", 60) + "\n\n" + strings.Repeat("Pagos en efectivo o transferencia.\n", 40)
	chunks := SplitText(text, 200)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 200)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestSplitTextDefaultSize(t *testing.T) {
	chunks := SplitText(strings.Repeat("a ", 500), 0)
	require.Len(t, chunks, 2)
	assert.LessOrEqual(t, utf8.RuneCountInString(chunks[0]), DefaultChunkSize)
}
