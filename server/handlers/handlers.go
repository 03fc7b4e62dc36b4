package handlers

import (
	"fmt"

	"github.com/lazharichir/nutsrv/domain"
	"github.com/lazharichir/nutsrv/server/connection"
	"github.com/lazharichir/nutsrv/server/protocol"
	"github.com/sirupsen/logrus"
)

// foyer is the sender id of server announcements
const foyer = -1

// handlerFunc executes one command and reports whether the connection should close
type handlerFunc func(client *connection.Client, line string, args protocol.Tokens) bool

// CommandRouter routes incoming command lines to the appropriate handler
type CommandRouter struct {
	registry   *domain.Registry
	connMgr    *connection.Manager
	authSecret string
	logger     logrus.FieldLogger
	commands   map[string]handlerFunc
}

// NewCommandRouter creates a new command router
func NewCommandRouter(registry *domain.Registry, connMgr *connection.Manager, authSecret string, logger logrus.FieldLogger) *CommandRouter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	r := &CommandRouter{
		registry:   registry,
		connMgr:    connMgr,
		authSecret: authSecret,
		logger:     logger,
	}

	r.commands = map[string]handlerFunc{
		"INFO":     r.handleInfo,
		"CHAT":     r.handleChat,
		"REQUEST":  r.handleRequest,
		"REGISTER": r.handleRegister,
		"ACTION":   r.handleAction,
		"AUTH":     r.handleAuth,
		"QUIT":     r.handleQuit,
	}

	return r
}

// HandleLine executes one command line for the client. It returns true when
// the connection has to be closed after the queued replies are written.
func (r *CommandRouter) HandleLine(client *connection.Client, line string) bool {
	args := protocol.Tokenize(line, " ")
	if args.Count() == 0 {
		return false
	}

	r.logger.WithFields(logrus.Fields{
		"client": client.ID,
		"line":   line,
	}).Debug("executing command")

	command := args.String(0)

	if !client.State.Has(connection.Introduced) {
		if command != "PCLIENT" {
			r.reply(client, protocol.Err(protocol.CodeProtocolError, "protocol error"))
			return true
		}
		r.handleIntroduce(client, args)
		return false
	}

	handler, ok := r.commands[command]
	if !ok {
		r.reply(client, protocol.Err(protocol.CodeNotImplemented, "not implemented"))
		return false
	}

	return handler(client, line, args)
}

func (r *CommandRouter) reply(client *connection.Client, line string) {
	r.connMgr.SendTo(client.ID, line)
}

func (r *CommandRouter) ok(client *connection.Client) {
	r.reply(client, protocol.Ok(protocol.CodeOK, ""))
}

func (r *CommandRouter) fail(client *connection.Client) {
	r.reply(client, protocol.Err(protocol.CodeOK, ""))
}

// foyerChat announces text to every connected client
func (r *CommandRouter) foyerChat(text string) {
	r.connMgr.Broadcast(protocol.ClientMessage(foyer, "", text))
}

func (r *CommandRouter) handleIntroduce(client *connection.Client, args protocol.Tokens) {
	version := args.Int(1)
	if !protocol.Compatible(version) {
		r.logger.WithFields(logrus.Fields{
			"client":  client.ID,
			"version": version,
		}).Info("client version doesn't match")
		r.fail(client)
		return
	}

	client.Version = version
	client.State |= connection.Introduced
	r.ok(client)
}

func (r *CommandRouter) handleInfo(client *connection.Client, line string, args protocol.Tokens) bool {
	for _, info := range args[1:] {
		kv := protocol.Tokenize(info, ":")
		if kv.String(0) == "name" && kv.Count() > 1 {
			client.Name = kv.String(1)
		}
	}

	r.ok(client)

	if !client.State.Has(connection.SentInfo) {
		r.foyerChat(fmt.Sprintf("client '%s' (%d) joined foyer", client.Name, client.ID))
	}
	client.State |= connection.SentInfo

	return false
}

func (r *CommandRouter) handleChat(client *connection.Client, line string, args protocol.Tokens) bool {
	dest, ok := args.IntOK(1)
	if args.Count() < 3 || !ok {
		r.fail(client)
		return false
	}

	msg := protocol.ClientMessage(client.ID, client.Name, protocol.Tail(line, 2))
	if dest == -1 {
		r.connMgr.Broadcast(msg)
	} else if !r.connMgr.SendTo(dest, msg) {
		r.fail(client)
		return false
	}

	r.ok(client)
	return false
}

func (r *CommandRouter) handleRequest(client *connection.Client, line string, args protocol.Tokens) bool {
	switch args.String(1) {
	case "clientinfo":
		for _, scid := range args[2:] {
			cid := protocol.Tokens{scid}.Int(0)
			if other, ok := r.connMgr.Get(cid); ok {
				r.reply(client, protocol.ClientInfo(cid, other.Name))
			}
		}

	case "gamelist":
		games := r.registry.Games()
		infos := make([]protocol.GameInfo, 0, len(games))
		for _, g := range games {
			infos = append(infos, protocol.GameInfo{ID: g.ID(), Type: int(g.Type())})
		}
		r.reply(client, protocol.GameList(infos))

	case "playerlist":
		gid := args.Int(2)
		if g, err := r.registry.Get(gid); err == nil {
			r.reply(client, protocol.PlayerList(gid, g.PlayerList()))
		}

	default:
		r.fail(client)
		return false
	}

	r.ok(client)
	return false
}

func (r *CommandRouter) handleRegister(client *connection.Client, line string, args protocol.Tokens) bool {
	gid, ok := args.IntOK(1)
	if !ok {
		r.fail(client)
		return false
	}

	if err := r.registry.Register(client.ID, gid); err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"client": client.ID,
			"game":   gid,
		}).Info("register failed")
		r.fail(client)
		return false
	}

	g, _ := r.registry.Get(gid)
	msg := fmt.Sprintf("player %d joined game %d (%d/%d)", client.ID, gid, g.PlayerCount(), g.MaxPlayers())
	r.logger.WithField("game", gid).Info(msg)

	r.ok(client)
	r.foyerChat(msg)
	return false
}

func (r *CommandRouter) handleAction(client *connection.Client, line string, args protocol.Tokens) bool {
	what := protocol.Err(protocol.CodeOK, "what?")

	if args.Count() < 3 {
		r.reply(client, what)
		return false
	}

	g, err := r.registry.Get(args.Int(1))
	if err != nil {
		r.reply(client, what)
		return false
	}

	kind, err := domain.ParseAction(args.String(2))
	if err != nil {
		r.reply(client, what)
		return false
	}

	if err := g.SetPlayerAction(client.ID, kind, args.Int(3)); err != nil {
		r.reply(client, what)
		return false
	}

	r.reply(client, protocol.Ok(protocol.CodeOK, ""))
	return false
}

func (r *CommandRouter) handleAuth(client *connection.Client, line string, args protocol.Tokens) bool {
	if args.Count() < 3 || args.String(2) != r.authSecret {
		r.reply(client, protocol.Err(protocol.CodeOK, "auth failed"))
		return false
	}

	client.State |= connection.Authed
	r.reply(client, protocol.Ok(protocol.CodeOK, fmt.Sprintf("auth on %d", args.Int(1))))
	return false
}

func (r *CommandRouter) handleQuit(client *connection.Client, line string, args protocol.Tokens) bool {
	r.ok(client)
	return true
}
