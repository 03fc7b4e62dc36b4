package protocol

import (
	"strconv"
	"strings"
)

const (
	VersionMajor    = 0
	VersionMinor    = 1
	VersionRevision = 0
)

// Version is the server's protocol version as sent in the greeting
var Version = VersionCreate(VersionMajor, VersionMinor, VersionRevision)

// VersionCreate packs a version as major*10000 + minor*100 + revision
func VersionCreate(major, minor, revision int) int {
	return major*10000 + minor*100 + revision
}

func VersionMajorOf(v int) int { return v / 10000 }
func VersionMinorOf(v int) int { return (v / 100) % 100 }

// Compatible reports whether a client version can talk to this server.
// Only major and minor have to match.
func Compatible(v int) bool {
	return VersionMajorOf(v) == VersionMajor && VersionMinorOf(v) == VersionMinor
}

// Reply and error codes
const (
	CodeOK             = 0
	CodeProtocolError  = 1
	CodeNotImplemented = 10
)

// Ok formats a success reply
func Ok(code int, text string) string {
	return reply("OK", code, text)
}

// Err formats an error reply
func Err(code int, text string) string {
	return reply("ERR", code, text)
}

func reply(kind string, code int, text string) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(code))
	if text != "" {
		b.WriteByte(' ')
		b.WriteString(text)
	}
	return b.String()
}

// Hello is the greeting sent to every new connection
func Hello(clientID int) string {
	return "PSERVER " + strconv.Itoa(Version) + " " + strconv.Itoa(clientID)
}

// ClientMessage is a chat line between clients or from the foyer (from == -1)
func ClientMessage(from int, name, text string) string {
	if from == -1 {
		name = "foyer"
	}
	return "MSG " + strconv.Itoa(from) + " " + name + " " + text
}

// GameMessage is a chat line sent by a game (tableID == -1) or one of its tables
func GameMessage(gameID, tableID int, text string) string {
	source := "table"
	if tableID == -1 {
		source = "game"
	}
	return "MSG " + origin(gameID, tableID) + " " + source + " " + text
}

// Snapshot is a state push; sid 0 is the game state, 1 a table
func Snapshot(gameID, tableID, sid int, payload string) string {
	return "SNAP " + origin(gameID, tableID) + " " + strconv.Itoa(sid) + " " + payload
}

func ClientInfo(clientID int, name string) string {
	return "CLIENTINFO " + strconv.Itoa(clientID) + " name:" + name
}

// GameInfo is one entry of a game list
type GameInfo struct {
	ID   int
	Type int
}

func GameList(games []GameInfo) string {
	var b strings.Builder
	b.WriteString("GAMELIST")
	for _, g := range games {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(g.ID))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(g.Type))
		b.WriteString(":moreinfo")
	}
	return b.String()
}

func PlayerList(gameID int, clientIDs []int) string {
	var b strings.Builder
	b.WriteString("PLAYERLIST ")
	b.WriteString(strconv.Itoa(gameID))
	for _, id := range clientIDs {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}

func origin(gameID, tableID int) string {
	return strconv.Itoa(gameID) + ":" + strconv.Itoa(tableID)
}
