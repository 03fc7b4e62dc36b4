package connection

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lazharichir/nutsrv/server/protocol"
	"github.com/sirupsen/logrus"
)

// Conn is a line-oriented transport to one client
type Conn interface {
	// ReadLines calls handle with every complete line until the connection fails
	ReadLines(handle func(line string)) error
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}

// WritePump drains the client's queue into conn and closes conn once the
// queue is closed or a write fails
func WritePump(client *Client, conn Conn, logger logrus.FieldLogger) {
	defer conn.Close()

	for line := range client.Send {
		if err := conn.WriteLine(line); err != nil {
			logger.WithError(err).WithField("client", client.ID).Debug("write failed")
			return
		}
	}
}

// TCPConn speaks the protocol over a raw stream socket
type TCPConn struct {
	conn   net.Conn
	w      *bufio.Writer
	logger logrus.FieldLogger
}

func NewTCPConn(conn net.Conn, logger logrus.FieldLogger) *TCPConn {
	return &TCPConn{
		conn:   conn,
		w:      bufio.NewWriter(conn),
		logger: logger,
	}
}

func (c *TCPConn) ReadLines(handle func(line string)) error {
	buf := protocol.NewLineBuffer()
	chunk := make([]byte, protocol.MaxLineLength)

	for {
		n, err := c.conn.Read(chunk)
		if n > 0 {
			lines, ferr := buf.Feed(chunk[:n])
			if errors.Is(ferr, protocol.ErrLineTooLong) {
				c.logger.WithField("remote", c.RemoteAddr()).Warn("buffer size exceeded, input dropped")
			}
			for _, line := range lines {
				handle(line)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func (c *TCPConn) WriteLine(line string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	if _, err := c.w.WriteString(line + "\r\n"); err != nil {
		return err
	}
	return c.w.Flush()
}

func (c *TCPConn) Close() error {
	return c.conn.Close()
}

func (c *TCPConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// WSConn carries one protocol line per websocket text frame
type WSConn struct {
	conn *websocket.Conn
}

func NewWSConn(conn *websocket.Conn) *WSConn {
	conn.SetReadLimit(protocol.MaxLineLength)
	return &WSConn{conn: conn}
}

func (c *WSConn) ReadLines(handle func(line string)) error {
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return err
			}
			return nil
		}

		line := strings.TrimRight(string(message), "\r\n")
		handle(strings.ReplaceAll(line, "\r", " "))
	}
}

func (c *WSConn) WriteLine(line string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (c *WSConn) Close() error {
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
	return c.conn.Close()
}

func (c *WSConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
