package signal

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/baatlink/baatlink/internal/app"
	"github.com/baatlink/baatlink/internal/config"
	"github.com/baatlink/baatlink/internal/core"
)

// TokenResolver is the identity provider boundary: it turns an opaque
// login token into a username.
type TokenResolver interface {
	Lookup(token string) (string, error)
}

// Controller bridges WebSocket connections and the router. It owns the
// connection table and all transport resources; the router only ever
// sees connection ids.
type Controller struct {
	router   *app.Router
	policy   app.Policy
	tokens   TokenResolver
	cfg      *config.Config
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[core.ConnID]*wsSignalConn
}

func NewController(router *app.Router, policy app.Policy, tokens TokenResolver, cfg *config.Config) *Controller {
	return &Controller{
		router: router,
		policy: policy,
		tokens: tokens,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin checks happen in the CORS layer; the socket
			// endpoint accepts whatever got that far.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[core.ConnID]*wsSignalConn),
	}
}

// HandleSignal upgrades the request and runs the connection until the
// peer goes away.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	identity := ctl.resolveIdentity(c)

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Debug().Str("module", "adapters.signal").Err(err).Msg("ws upgrade failed")
		return
	}

	id := core.ConnID(uuid.NewString())
	ctl.runConnection(ctx, id, newWSSignalConn(ws, ctl.cfg.WriteWait), identity)
}

// runConnection registers the connection, announces it to the router
// and runs the pumps until the peer goes away.
func (ctl *Controller) runConnection(ctx context.Context, id core.ConnID, conn *wsSignalConn, identity string) {
	ctl.mu.Lock()
	ctl.conns[id] = conn
	ctl.mu.Unlock()

	log.Info().Str("module", "adapters.signal").Str("conn", string(id)).Str("identity", identity).Msg("connection accepted")
	ctl.deliver(ctl.router.Dispatch(core.Connect{ID: id, Identity: identity}))

	// On shutdown, closing the socket unblocks the read pump; without
	// this, open connections would linger until the read deadline.
	stop := context.AfterFunc(ctx, conn.Close)
	defer stop()

	go conn.writePump(ctx, ctl.cfg.PingPeriod)
	ctl.readPump(ctx, id, conn)
}

// resolveIdentity looks the login token up with the identity provider.
// The token comes from the query string or the cookie session; without
// a valid one the connection is anonymous.
func (ctl *Controller) resolveIdentity(c *gin.Context) string {
	token := c.Query("token")
	if token == "" {
		if v, ok := sessions.Default(c).Get("token").(string); ok {
			token = v
		}
	}
	if token == "" {
		return ""
	}
	identity, err := ctl.tokens.Lookup(token)
	if err != nil {
		log.Debug().Str("module", "adapters.signal").Err(err).Msg("token lookup failed, treating as anonymous")
		return ""
	}
	return identity
}

func (ctl *Controller) readPump(ctx context.Context, id core.ConnID, conn *wsSignalConn) {
	defer ctl.drop(id)

	pongWait := ctl.cfg.PingPeriod * 10 / 9
	conn.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.conn.SetPongHandler(func(string) error {
		return conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Str("module", "adapters.signal").Str("conn", string(id)).Err(err).Msg("read error")
			}
			return
		}

		ev, err := decodeEvent(id, data)
		if err != nil {
			log.Debug().Str("module", "adapters.signal").Str("conn", string(id)).Err(err).Msg("dropping frame")
			continue
		}
		ctl.deliver(ctl.router.Dispatch(ev))
	}
}

// deliver fans the router output out to the addressed connections. A
// missing entry means the peer vanished between dispatch and delivery,
// which is fine. A send failure is handed to the policy; the default
// treats it as an implicit disconnect.
func (ctl *Controller) deliver(out core.Output) {
	for _, env := range out.Events {
		ctl.mu.RLock()
		conn, ok := ctl.conns[env.To]
		ctl.mu.RUnlock()
		if !ok {
			continue
		}

		data, err := json.Marshal(env.Msg)
		if err != nil {
			log.Error().Str("module", "adapters.signal").Err(err).Msg("marshal outbound message")
			continue
		}
		if err := conn.TrySend(data); err != nil {
			log.Warn().Str("module", "adapters.signal").Str("conn", string(env.To)).Err(err).Msg("send failed")
			if ctl.policy.OnBackPressure(env.To) == app.KickConnection {
				ctl.drop(env.To)
			}
		}
	}
	for _, id := range out.Hangup {
		ctl.drop(id)
	}
}

// drop tears one connection down: evict it from the table, run the
// router's disconnect cleanup, close the socket. Idempotent, so it is
// safe when a read error races an explicit hangup.
func (ctl *Controller) drop(id core.ConnID) {
	ctl.mu.Lock()
	conn, ok := ctl.conns[id]
	if ok {
		delete(ctl.conns, id)
	}
	ctl.mu.Unlock()
	if !ok {
		return
	}

	log.Info().Str("module", "adapters.signal").Str("conn", string(id)).Msg("connection closed")
	out := ctl.router.Dispatch(core.Disconnect{ID: id})
	conn.Close()
	ctl.deliver(out)
}
