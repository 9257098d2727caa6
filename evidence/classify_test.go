package evidence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	items := Classify([]string{
		"https://cdn/a.png",
		"data:image/png;base64,AAAA",
		"  ",
		" http://cdn/b.png ",
		"AAAA",
	})

	require.Len(t, items, 4)
	assert.Equal(t, Item{Kind: Reference, Index: 0, Value: "https://cdn/a.png"}, items[0])
	assert.Equal(t, Item{Kind: Payload, Index: 1, Value: "data:image/png;base64,AAAA"}, items[1])
	assert.Equal(t, Item{Kind: Reference, Index: 3, Value: "http://cdn/b.png"}, items[2])
	assert.Equal(t, Item{Kind: Payload, Index: 4, Value: "AAAA"}, items[3])
}

func TestIsReference(t *testing.T) {
	assert.True(t, IsReference("https://x"))
	assert.True(t, IsReference("  http://x"))
	assert.True(t, IsReference("HTTPS://cdn/x.png"))
	assert.True(t, IsReference("Http://cdn/x.png"))
	assert.False(t, IsReference("ftp://x"))
	assert.False(t, IsReference("httpsAAAA"))
	assert.False(t, IsReference("data:image/png;base64,AAAA"))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{name: "data uri", in: "data:image/png;base64,aGVsbG8=", want: []byte("hello")},
		{name: "bare base64", in: "aGVsbG8=", want: []byte("hello")},
		{name: "unpadded base64", in: "aGVsbG8", want: []byte("hello")},
		{name: "three zero bytes", in: "AAAA", want: []byte{0, 0, 0}},
		{name: "not base64 data uri", in: "data:text/plain,hello", wantErr: true},
		{name: "data uri without comma", in: "data:image/png;base64", wantErr: true},
		{name: "garbage", in: "not base64 at all!", wantErr: true},
		{name: "empty data uri", in: "data:image/png;base64,", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUndecodable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeLargePayload(t *testing.T) {
	// 600000 zero bytes encode to 800000 'A's
	b, err := Decode("data:image/png;base64," + strings.Repeat("A", 800000))
	require.NoError(t, err)
	assert.Len(t, b, 600000)
}
