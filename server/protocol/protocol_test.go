package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	v := VersionCreate(1, 2, 3)
	assert.Equal(t, 10203, v)
	assert.Equal(t, 1, VersionMajorOf(v))
	assert.Equal(t, 2, VersionMinorOf(v))

	assert.True(t, Compatible(Version))
	assert.True(t, Compatible(VersionCreate(VersionMajor, VersionMinor, 42)), "revision is ignored")
	assert.False(t, Compatible(VersionCreate(VersionMajor, VersionMinor+1, 0)))
	assert.False(t, Compatible(VersionCreate(VersionMajor+1, VersionMinor, 0)))
}

func TestReplies(t *testing.T) {
	assert.Equal(t, "OK 0", Ok(CodeOK, ""))
	assert.Equal(t, "OK 0 auth on -1", Ok(CodeOK, "auth on -1"))
	assert.Equal(t, "ERR 1 protocol error", Err(CodeProtocolError, "protocol error"))
	assert.Equal(t, "ERR 10 not implemented", Err(CodeNotImplemented, "not implemented"))
}

func TestPushes(t *testing.T) {
	assert.Equal(t, "PSERVER 100 7", Hello(7))
	assert.Equal(t, "MSG -1 foyer client 'bob' (2) joined foyer", ClientMessage(-1, "", "client 'bob' (2) joined foyer"))
	assert.Equal(t, "MSG 3 alice hi there", ClientMessage(3, "alice", "hi there"))
	assert.Equal(t, "MSG 0:-1 game You won!", GameMessage(0, -1, "You won!"))
	assert.Equal(t, "MSG 0:0 table Player 2 folded.", GameMessage(0, 0, "Player 2 folded."))
	assert.Equal(t, "SNAP 0:-1 0 start", Snapshot(0, -1, 0, "start"))
	assert.Equal(t, "CLIENTINFO 4 name:carol", ClientInfo(4, "carol"))
	assert.Equal(t, "GAMELIST 0:0:moreinfo 1:0:moreinfo", GameList([]GameInfo{{ID: 0}, {ID: 1}}))
	assert.Equal(t, "GAMELIST", GameList(nil))
	assert.Equal(t, "PLAYERLIST 0 1 2 3", PlayerList(0, []int{1, 2, 3}))
	assert.Equal(t, "PLAYERLIST 5", PlayerList(5, nil))
}

func TestTokenize(t *testing.T) {
	tok := Tokenize("ACTION  0 bet 40 ", "")
	require.Equal(t, 4, tok.Count())
	assert.Equal(t, "ACTION", tok.String(0))
	assert.Equal(t, 0, tok.Int(1))
	assert.Equal(t, 40, tok.Int(3))
	assert.Equal(t, "", tok.String(9))
	assert.Equal(t, 0, tok.Int(9))

	assert.Equal(t, 12, Tokenize("bet 12.75", " ").Int(1))
	assert.Equal(t, 0, Tokenize("bet lots", " ").Int(1))

	_, ok := Tokenize("CHAT x hi", " ").IntOK(1)
	assert.False(t, ok)

	assert.Equal(t, Tokens{"name", "Alice"}, Tokenize("name:Alice", ":"))
	assert.Equal(t, Tokens{"name"}, Tokenize("name:", ":"))
}

func TestTail(t *testing.T) {
	assert.Equal(t, "hello  there you", Tail("CHAT -1 hello  there you", 2))
	assert.Equal(t, "", Tail("CHAT -1", 2))
	assert.Equal(t, "CHAT -1", Tail("  CHAT -1", 0))
}

func TestLineBuffer(t *testing.T) {
	t.Run("splits lines", func(t *testing.T) {
		b := NewLineBuffer()

		lines, err := b.Feed([]byte("PCLIENT 100\r\nINFO na"))
		require.NoError(t, err)
		assert.Equal(t, []string{"PCLIENT 100 "}, lines)
		assert.Equal(t, 7, b.Pending())

		lines, err = b.Feed([]byte("me:bob\nQUIT\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"INFO name:bob", "QUIT"}, lines)
		assert.Zero(t, b.Pending())
	})

	t.Run("drops oversized line", func(t *testing.T) {
		b := NewLineBuffer()

		lines, err := b.Feed([]byte("CHAT -1 hi\n" + strings.Repeat("x", MaxLineLength+10)))
		assert.ErrorIs(t, err, ErrLineTooLong)
		assert.Equal(t, []string{"CHAT -1 hi"}, lines)
		assert.Zero(t, b.Pending())

		lines, err = b.Feed([]byte("yyy\nQUIT\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"QUIT"}, lines, "remainder of the long line is skipped")
	})

	t.Run("accepts a line at the limit", func(t *testing.T) {
		b := NewLineBuffer()
		long := strings.Repeat("x", MaxLineLength)

		lines, err := b.Feed([]byte(long + "\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{long}, lines)
	})
}
