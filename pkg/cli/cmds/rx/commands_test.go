package rx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseText(t *testing.T) {
	testCases := []struct {
		args []string
		out  string
	}{
		{[]string{"OK"}, "OK"},
		{[]string{"a", "b"}, "a b"},
		{[]string{`line\r\n`}, "line\r\n"},
		{[]string{`\x02say "hi"`}, "\x02say \"hi\""},
	}
	for _, tc := range testCases {
		data, err := ParseText(tc.args)
		require.NoError(t, err)
		require.Equal(t, tc.out, string(data))
	}
	_, err := ParseText([]string{`\q`})
	require.Error(t, err)
}

func TestParseHex(t *testing.T) {
	data, err := ParseHex([]string{"aa55", "0d", "0A"})
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa, 0x55, 0x0d, 0x0a}, data)
	_, err = ParseHex([]string{"a"})
	require.Error(t, err)
}
