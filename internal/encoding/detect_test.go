package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/encoding"
)

func readAll(t *testing.T, in []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(in))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader(t *testing.T) {
	type testCase struct {
		name  string
		input []byte
		want  string
	}

	tests := []testCase{
		{
			name:  "UTF8Passthrough",
			input: []byte("Pagador;Descrição\n1;Café\n"),
			want:  "Pagador;Descrição\n1;Café\n",
		},
		{
			name:  "Windows1252",
			input: []byte{'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', '\n'},
			want:  "Descrição\n",
		},
		{
			name:  "UTF8BOMStripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, "payer;amount\n"...),
			want:  "payer;amount\n",
		},
		{
			name:  "UTF16LE",
			input: []byte{0xFF, 0xFE, 'o', 0x00, 'k', 0x00},
			want:  "ok",
		},
		{
			name:  "Empty",
			input: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.input))
		})
	}
}

func TestNewUTF8Reader_LargeInput(t *testing.T) {
	line := "1;2;10,00;Supermercado\n"
	input := bytes.Repeat([]byte(line), 1000)

	assert.Equal(t, string(input), readAll(t, input))
}

func TestDetect(t *testing.T) {
	assert.Equal(t, encoding.UTF8, encoding.Detect([]byte("plain ascii")))
	assert.Equal(t, encoding.UTF8BOM, encoding.Detect([]byte{0xEF, 0xBB, 0xBF, 'a'}))
	assert.Equal(t, encoding.UTF16BE, encoding.Detect([]byte{0xFE, 0xFF, 0x00, 'a'}))
}

func TestNewUTF8Reader_RuneAcrossSniffBoundary(t *testing.T) {
	input := append(bytes.Repeat([]byte("a"), 4095), "ção"...)

	assert.Equal(t, string(input), readAll(t, input))
}
