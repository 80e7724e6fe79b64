package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/IBM/generator-ibm-cloud-assets/internal/errors"
)

func TestMax(t *testing.T) {
	tests := []struct {
		a, b string
		want string
	}{
		{"256M", "1G", "1G"},
		{"512M", "256M", "512M"},
		{"", "128M", "128M"},
		{"128M", "", "128M"},
		{"1024M", "1G", "1024M"},
		{"1G", "1024m", "1G"},
		{"2048K", "1M", "2048K"},
		{"1023M", "1g", "1g"},
		{"64m", "64M", "64m"},
	}
	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			got, err := Max(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaxErrors(t *testing.T) {
	_, err := Max("", "")
	assert.ErrorIs(t, err, oerrors.ErrMissingQuantity)

	for _, pair := range [][2]string{
		{"abc", "128M"},
		{"128M", "12T"},
		{"-5M", "1G"},
		{"M", "1G"},
		{"1.5G", "1G"},
		{"", "lots"},
	} {
		_, err := Max(pair[0], pair[1])
		assert.ErrorIs(t, err, oerrors.ErrInvalidQuantityFormat, "%v", pair)
	}
}

func TestParseBytes(t *testing.T) {
	q, err := Parse("1G")
	require.NoError(t, err)
	assert.Equal(t, int64(1<<30), q.Value())

	q, err = Parse("3k")
	require.NoError(t, err)
	assert.Equal(t, int64(3*1024), q.Value())
}
