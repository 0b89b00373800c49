package tiled

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#ff8000", want: Color{R: 0xff, G: 0x80, B: 0x00, A: 0xff}},
		{in: "ff8000", want: Color{R: 0xff, G: 0x80, B: 0x00, A: 0xff}},
		{in: "#80ff0000", want: Color{A: 0x80, R: 0xff}},
		{in: "#854", want: Color{R: 0x88, G: 0x55, B: 0x44, A: 0xff}},
		{in: "#5ba", want: Color{R: 0x55, G: 0xbb, B: 0xaa, A: 0xff}},
		{in: "#8f00", want: Color{A: 0x88, R: 0xff}},
		{in: " #FFFFFF ", want: Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{in: "", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#zz0000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRGBA(t *testing.T) {
	got, err := ParseRGBA("#ff000080")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0xff, A: 0x80}, got)

	got, err = ParseRGBA("#f008")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0xff, A: 0x88}, got)
}

func TestColorFloatRoundTrip(t *testing.T) {
	c, err := ParseRGBA("#80e3b447")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0x80, G: 0xe3, B: 0xb4, A: 0x47}, c)

	r, g, b, a := c.Float()
	assert.InDelta(t, 0.28, a, 0.01)

	back := ColorFromFloat(r, g, b, a)
	assert.Equal(t, c, back)
	assert.Equal(t, "#80e3b447", back.RGBAHex())

	_, _, _, a = back.Float()
	assert.InDelta(t, 0.28, a, 0.01)
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#ff8000", Color{R: 0xff, G: 0x80, A: 0xff}.Hex())
	assert.Equal(t, "#80ff0000", Color{R: 0xff, A: 0x80}.Hex())
	assert.Equal(t, "#ff000080", Color{R: 0xff, A: 0x80}.RGBAHex())

	for _, s := range []string{"#ff8000", "#80ff0000", "#00000000"} {
		c, err := ParseColor(s)
		require.NoError(t, err)
		assert.Equal(t, s, c.Hex())
	}
}

func TestColorFloat(t *testing.T) {
	c := ColorFromFloat(1, 0.5, 0, 2)
	assert.Equal(t, Color{R: 0xff, G: 0x80, B: 0, A: 0xff}, c)

	r, g, b, a := Color{R: 0xff, A: 0xff}.Float()
	assert.Equal(t, []float64{1, 0, 0, 1}, []float64{r, g, b, a})
}

func TestExpandHex(t *testing.T) {
	got, err := ExpandHex("#854")
	require.NoError(t, err)
	assert.Equal(t, "#885544", got)

	got, err = ExpandHex("#5ba")
	require.NoError(t, err)
	assert.Equal(t, "#55bbaa", got)

	_, err = ExpandHex("#85")
	assert.Error(t, err)
}
