package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    Command
		wantErr error
	}{
		{name: "online 1s", token: "o1", want: Command{Kind: Online, Interval: 1000}},
		{name: "online 5s", token: "o5", want: Command{Kind: Online, Interval: 5000}},
		{name: "online 9s", token: "o9", want: Command{Kind: Online, Interval: 9000}},
		{name: "online zero", token: "o0", wantErr: ErrOnlineInterval},
		{name: "online letter", token: "ox", wantErr: ErrOnlineInterval},
		{name: "online missing digit", token: "o", wantErr: ErrOnlineInterval},
		{name: "online two digits", token: "o55", wantErr: ErrOnlineInterval},
		{name: "stop", token: "s", want: Command{Kind: Stop}},
		{name: "hour", token: "h", want: Command{Kind: Hour}},
		{name: "day", token: "d", want: Command{Kind: Day}},
		{name: "month", token: "m", want: Command{Kind: Month}},
		{name: "year", token: "y", want: Command{Kind: Year}},
		{name: "clear", token: "c", want: Command{Kind: Clear}},
		{name: "max", token: "max", want: Command{Kind: Max}},
		{name: "list", token: "l", want: Command{Kind: List}},
		{name: "unknown letter", token: "x", wantErr: ErrUnknown},
		{name: "upper case", token: "H", wantErr: ErrUnknown},
		{name: "partial max", token: "ma", wantErr: ErrUnknown},
		{name: "max with suffix", token: "maxx", wantErr: ErrUnknown},
		{name: "letter with suffix", token: "hh", wantErr: ErrUnknown},
		{name: "empty", token: "", wantErr: ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, Command{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "online", Online.String())
	assert.Equal(t, "list", List.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestBuffer_Take(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "newline", input: "h\n", want: "h", wantOK: true},
		{name: "carriage return", input: "max\r", want: "max", wantOK: true},
		{name: "crlf", input: "o5\r\n", want: "o5", wantOK: true},
		{name: "nul", input: "c\x00", want: "c", wantOK: true},
		{name: "no terminator", input: "d", wantOK: false},
		{name: "only terminators", input: "\r\n\r\n", wantOK: false},
		{name: "leading terminators", input: "\n\ny\n", want: "y", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(DefaultBufferSize)
			_, err := b.Write([]byte(tt.input))
			require.NoError(t, err)

			assert.Equal(t, tt.wantOK, b.Ready())
			got, ok := b.Take()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuffer_TakeClears(t *testing.T) {
	b := NewBuffer(8)
	b.Write([]byte("h\n"))

	_, ok := b.Take()
	require.True(t, ok)

	_, ok = b.Take()
	assert.False(t, ok)
	assert.False(t, b.Ready())

	b.Write([]byte("d\n"))
	got, ok := b.Take()
	assert.True(t, ok)
	assert.Equal(t, "d", got)
}

func TestBuffer_DropsWhileReady(t *testing.T) {
	b := NewBuffer(8)
	b.Write([]byte("h\nd\n"))

	got, ok := b.Take()
	assert.True(t, ok)
	assert.Equal(t, "h", got)
	assert.Equal(t, 2, b.Dropped())

	_, ok = b.Take()
	assert.False(t, ok)
}

func TestBuffer_Overflow(t *testing.T) {
	b := NewBuffer(4)
	b.Write([]byte("abcdefg\n"))

	got, ok := b.Take()
	assert.True(t, ok)
	assert.Equal(t, "abcd", got)
	assert.Equal(t, 3, b.Dropped())
}

func TestBuffer_DefaultSize(t *testing.T) {
	b := NewBuffer(0)
	for i := 0; i < 100; i++ {
		b.Feed('x')
	}
	b.Feed('\n')

	got, ok := b.Take()
	assert.True(t, ok)
	assert.Len(t, got, DefaultBufferSize)
}

func TestBuffer_ConcurrentFeed(t *testing.T) {
	b := NewBuffer(DefaultBufferSize)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			b.Write([]byte("l\n"))
		}
	}()

	taken := 0
	take := func() {
		if cmd, ok := b.Take(); ok {
			assert.Equal(t, "l", cmd)
			taken++
		}
	}

	for {
		select {
		case <-done:
			take()
			assert.Positive(t, taken)
			return
		default:
			take()
		}
	}
}
