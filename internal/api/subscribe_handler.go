package api

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/taskplanner/planner-api/internal/api/shared"
	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/platform/logger"
	"github.com/taskplanner/planner-api/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// SubscribeHandler streams an owner's task set over a websocket.
type SubscribeHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
	upgrader    websocket.Upgrader

	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewSubscribeHandler creates a new SubscribeHandler. Browser origins are
// checked against allowedOrigins; "*" allows any.
func NewSubscribeHandler(
	taskService service.TaskService,
	allowedOrigins []string,
	logger *slog.Logger,
) *SubscribeHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for SubscribeHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SubscribeHandler")
	}

	return &SubscribeHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "subscribe_handler")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		shutdown: make(chan struct{}),
	}
}

// Shutdown sends a going-away close frame on every open subscription and
// ends them. http.Server.Shutdown does not track hijacked connections, so
// register this with RegisterOnShutdown.
func (h *SubscribeHandler) Shutdown() {
	h.shutdownOnce.Do(func() { close(h.shutdown) })
}

// Subscribe handles GET /tasks/subscribe. Every message is the complete task
// set as a JSON array; clients replace their local state with it.
func (h *SubscribeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	ownerID := shared.GetOwner(r.Context()).ID

	snapshots := make(chan []*domain.Task, 1)
	unsubscribe, err := h.taskService.Subscribe(r.Context(), ownerID, func(tasks []*domain.Task) {
		offerLatest(snapshots, tasks)
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	defer unsubscribe()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		log.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close() }()

	log.Info("subscriber connected", slog.String("owner_id", ownerID))

	closed := make(chan struct{})
	go readLoop(conn, closed, log)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case tasks := <-snapshots:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(tasksToResponse(tasks)); err != nil {
				log.Debug("websocket write failed", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			log.Info("subscriber disconnected", slog.String("owner_id", ownerID))
			return
		case <-h.shutdown:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
				log.Debug("websocket close failed", slog.String("error", err.Error()))
			}
			log.Info("subscriber closed for shutdown", slog.String("owner_id", ownerID))
			return
		case <-r.Context().Done():
			return
		}
	}
}

// readLoop drains client frames so pongs and close frames are processed. It
// closes done when the connection fails.
func readLoop(conn *websocket.Conn, done chan<- struct{}, log *slog.Logger) {
	defer close(done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("websocket closed unexpectedly", slog.String("error", err.Error()))
			}
			return
		}
	}
}

// offerLatest puts tasks in the single-slot channel, replacing a snapshot
// that was not yet written. It has one producer.
func offerLatest(ch chan []*domain.Task, tasks []*domain.Task) {
	select {
	case ch <- tasks:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- tasks:
	default:
	}
}

// originChecker returns a CheckOrigin func. Requests without an Origin
// header are non-browser clients and always pass.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}
