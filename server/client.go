package server

import (
	"errors"
	"hash/fnv"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nathoo/templecore/engine"
	"github.com/nathoo/templecore/engine/events"
	"github.com/nathoo/templecore/engine/save"
	"github.com/nathoo/templecore/types"
	"github.com/sirupsen/logrus"
)

// Websocket settings.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	commandQueue   = 16
)

// client joins one websocket connection to one player engine. readPump
// owns the socket reads, writePump the writes, and play the engine.
type client struct {
	srv      *Server
	conn     *websocket.Conn
	id       string
	name     string
	eng      *engine.Engine
	commands chan string
	log      *logrus.Entry
}

func newClient(s *Server, conn *websocket.Conn) *client {
	id := uuid.NewString()
	return &client{
		srv:      s,
		conn:     conn,
		id:       id,
		commands: make(chan string, commandQueue),
		log:      s.log.WithField("session", id),
	}
}

// readPump performs the login handshake, starts the player's goroutines
// and then forwards commands until the connection drops.
func (c *client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var login ClientMessage
	if err := c.conn.ReadJSON(&login); err != nil {
		c.log.WithError(err).Warn("handshake failed")
		return
	}
	if login.Type != MsgLogin {
		c.reject("the first message must be a login")
		return
	}
	if err := validName(login.Name); err != nil {
		c.reject(err.Error())
		return
	}
	c.name = login.Name
	c.log = c.log.WithField("player", c.name)

	out, err := c.srv.Hub.Register(c.id, c.name)
	if err != nil {
		c.reject(err.Error())
		return
	}
	go c.writePump(out)

	resumed := c.start()
	c.srv.Hub.SendTo(c.id, Envelope{
		Type:    KindWelcome,
		Session: c.id,
		Payload: Welcome{Session: c.id, Name: c.name, Game: c.srv.Defs.Game.Title, Resumed: resumed},
	})
	c.deliver(c.eng.Intro())
	c.log.WithField("resumed", resumed).Info("player joined")

	go c.play()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("websocket read failed")
			}
			break
		}
		if msg.Type != MsgCommand {
			c.srv.Hub.SendTo(c.id, errorFrame("unknown message type "+msg.Type))
			continue
		}
		select {
		case c.commands <- msg.Text:
		default:
			c.srv.Hub.SendTo(c.id, errorFrame("too many commands queued"))
		}
	}
	close(c.commands)
}

// reject answers a failed handshake directly on the socket.
func (c *client) reject(msg string) {
	c.log.WithField("reason", msg).Info("login rejected")
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(errorFrame(msg)); err != nil {
		c.log.WithError(err).Debug("write rejection failed")
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, msg))
}

// start builds the player's engine and restores their save if one exists.
func (c *client) start() (resumed bool) {
	announce := events.NotifierFunc(func(n types.Notification) {
		if n.Kind == types.KindAnnouncement {
			c.srv.Hub.Broadcast(envelope(n))
		}
	})
	c.eng = engine.New(c.srv.Defs, c.name, engine.Options{
		Seed:       playerSeed(c.srv.cfg.Seed, c.name),
		Encounters: c.srv.Encounters,
		Sinks:      []events.Notifier{announce},
	})

	if c.srv.store == nil {
		return false
	}
	data, err := c.srv.store.Load(c.name)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			c.log.WithError(err).Warn("could not read save")
		}
		return false
	}
	sd, err := save.Load(data)
	if err != nil {
		c.log.WithError(err).Warn("ignoring unreadable save")
		return false
	}
	save.ApplySave(c.eng, sd)
	return true
}

// play is the player's goroutine: commands run one at a time, in arrival
// order, until the socket closes, the player idles out or the server stops.
func (c *client) play() {
	defer c.finish()

	idleTimeout := c.srv.cfg.Server.IdleTimeout
	var idle <-chan time.Time
	var timer *time.Timer
	if idleTimeout > 0 {
		timer = time.NewTimer(idleTimeout)
		defer timer.Stop()
		idle = timer.C
	}

	for {
		select {
		case <-c.srv.ctx.Done():
			c.deliverText(types.StyleWarning, "The server is shutting down.")
			return
		case <-idle:
			c.deliverText(types.StyleWarning, "You have been idle too long. Farewell, traveler.")
			c.log.WithField("timeout", idleTimeout).Info("idle timeout")
			return
		case cmd, ok := <-c.commands:
			if !ok {
				return
			}
			c.deliver(c.eng.Step(cmd))
			if timer != nil {
				timer.Reset(idleTimeout)
			}
		}
	}
}

// finish saves the player and releases the session. Unregister closes
// the outbound channel, which makes writePump close the socket.
func (c *client) finish() {
	if c.srv.store != nil {
		data, err := save.Save(c.eng)
		switch {
		case errors.Is(err, save.ErrInCombat):
			c.log.Info("player left mid-fight; progress since last save is lost")
		case err != nil:
			c.log.WithError(err).Error("save failed")
		default:
			if err := c.srv.store.Save(c.name, data); err != nil {
				c.log.WithError(err).Error("save failed")
			}
		}
	}
	c.srv.Hub.Unregister(c.id)
	c.log.WithField("turns", c.eng.TurnCount).Info("player left")
}

// deliver pushes a step's notifications to the player. Announcements are
// skipped here because the broadcast already reached this player.
func (c *client) deliver(res types.Result) {
	for _, n := range res.Notifications {
		if n.Kind == types.KindAnnouncement {
			continue
		}
		if !c.srv.Hub.SendTo(c.id, envelope(n)) {
			c.log.WithField("kind", n.Kind).Debug("outbound queue full; frame dropped")
		}
	}
}

func (c *client) deliverText(style types.Style, msg string) {
	c.srv.Hub.SendTo(c.id, envelope(events.Text(style, msg)))
}

// writePump sends queued frames and keepalive pings.
func (c *client) writePump(out <-chan Envelope) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-out:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				c.log.WithError(err).Debug("write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

// playerSeed derives a stable per-player RNG seed from the world seed.
func playerSeed(base int64, name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return base ^ int64(h.Sum64())
}
