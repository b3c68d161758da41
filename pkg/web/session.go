package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/datedmemo/datedmemo/internal/errors"
	"github.com/datedmemo/datedmemo/pkg/binder"
	"github.com/datedmemo/datedmemo/pkg/form"
	"github.com/datedmemo/datedmemo/pkg/middleware"
	"github.com/datedmemo/datedmemo/pkg/picker"
)

// MessageType is the type field of binder WebSocket messages.
type MessageType string

const (
	// Client to server.
	MsgEvent  MessageType = "event"
	MsgInput  MessageType = "input"
	MsgToday  MessageType = "today"
	MsgSelect MessageType = "select"
	MsgClear  MessageType = "clear"

	// Server to client.
	MsgState MessageType = "state"
	MsgError MessageType = "error"
)

// selectLayout is the value format of a native datetime-local input.
const selectLayout = "2006-01-02T15:04"

// ClientMessage is sent by the page.
type ClientMessage struct {
	Type  MessageType `json:"type"`
	Event string      `json:"event,omitempty"`
	Field string      `json:"field,omitempty"`
	Value string      `json:"value,omitempty"`
}

// ServerMessage is pushed to the page.
type ServerMessage struct {
	Type  MessageType   `json:"type"`
	State *binder.State `json:"state,omitempty"`
	Error string        `json:"error,omitempty"`
}

const (
	maxMessageSize = 8 << 10
	writeWait      = 5 * time.Second
)

// session owns one binder for the lifetime of one WebSocket. Only the
// goroutine running run touches the binder.
type session struct {
	conn    *websocket.Conn
	binder  *binder.Binder
	logger  *slog.Logger
	metrics *middleware.Metrics
}

func (s *Server) handleBinder(w http.ResponseWriter, r *http.Request) {
	loc, err := s.viewerZone(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("binder upgrade failed", "error", err)
		if s.metrics != nil {
			s.metrics.RecordWebSocketError("upgrade")
		}
		return
	}
	defer conn.Close()

	sess := &session{
		conn:    conn,
		logger:  s.logger.With("remote", r.RemoteAddr),
		metrics: s.metrics,
	}
	opts := []binder.Option{
		binder.WithClock(s.clock),
		binder.WithLocation(loc),
		binder.WithLogger(sess.logger),
	}
	if s.metrics != nil {
		opts = append(opts, binder.OnStatus(func(st form.FieldState) {
			if st.Status != form.StatusValidating {
				s.metrics.RecordRevalidation(st.Field, string(st.Status))
			}
		}))
	}
	sess.binder = binder.New(opts...)

	if s.metrics != nil {
		s.metrics.RecordSessionOpen()
		defer s.metrics.RecordSessionClose()
	}

	// Unblock the read loop on server shutdown.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-r.Context().Done():
			conn.Close()
		case <-done:
		}
	}()

	sess.run()
}

func (s *session) run() {
	if err := s.binder.Bind(); err != nil {
		s.logger.Error("bind failed", "error", err)
		return
	}
	s.logger.Debug("binder session opened", "offset", s.binder.Offset())
	if err := s.pushState(); err != nil {
		return
	}

	s.conn.SetReadLimit(maxMessageSize)
	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if isDecodeError(err) {
				s.recordError("protocol")
				if s.pushError(errors.New("E600").Wrap(err)) != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.recordError("read")
				s.logger.Debug("binder session read failed", "error", err)
			}
			return
		}

		if err := s.handle(msg); err != nil {
			s.recordError("protocol")
			if s.pushError(err) != nil {
				return
			}
			continue
		}
		if err := s.pushState(); err != nil {
			return
		}
	}
}

// handle applies one client message to the binder.
func (s *session) handle(msg ClientMessage) error {
	switch msg.Type {
	case MsgEvent:
		return s.binder.Event(picker.EventKind(msg.Event), msg.Value)
	case MsgInput:
		_, err := s.binder.Input(msg.Field, msg.Value)
		return err
	case MsgToday:
		return s.binder.Today()
	case MsgClear:
		return s.binder.Clear()
	case MsgSelect:
		t, err := time.ParseInLocation(selectLayout, msg.Value, s.binder.Location())
		if err != nil {
			return errors.New("E600").WithDetail(fmt.Sprintf("%q is not a %s value.", msg.Value, selectLayout))
		}
		s.binder.Picker().Select(t)
		return nil
	}
	return errors.New("E600").WithDetail(fmt.Sprintf("Unknown message type %q.", msg.Type))
}

func (s *session) pushState() error {
	st := s.binder.Snapshot()
	return s.write(ServerMessage{Type: MsgState, State: &st})
}

func (s *session) pushError(err error) error {
	return s.write(ServerMessage{Type: MsgError, Error: err.Error()})
}

func (s *session) write(msg ServerMessage) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.recordError("write")
		s.logger.Debug("binder session write failed", "error", err)
		return err
	}
	return nil
}

func (s *session) recordError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordWebSocketError(kind)
	}
}

func isDecodeError(err error) bool {
	switch err.(type) {
	case *json.SyntaxError, *json.UnmarshalTypeError:
		return true
	}
	return false
}
