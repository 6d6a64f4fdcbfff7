package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"learning-quiz-engine/internal/app"
	"learning-quiz-engine/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer domain.Answer `json:"answer"`
}

type identifyPayload struct {
	Learner domain.Learner `json:"learner"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type rejectedPayload struct {
	Action string `json:"action"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// emitFunc queues an outbound message; it drops the message once the connection is closing.
type emitFunc func(msgType string, payload any)

// ServeWS upgrades HTTP requests to websockets and drives one quiz session per connection.
// Query: quizId (required), learnerId, name, contact.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}
	learner := learnerFromQuery(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	session := h.service.Start(ctx, quizID, learner)
	updates, cancel := session.Subscribe()
	defer cancel()

	serveConn(ctx, conn, updates, func() { h.service.End(session.ID()) }, func(inbound inboundMessage, emit emitFunc, enqueue func(func())) {
		reject := func() { emit("rejected", rejectedPayload{Action: inbound.Type}) }
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Answer.IsZero() {
				emit("error", errorPayload{Message: "invalid answer payload"})
				return
			}
			enqueue(func() {
				if !session.Answer(payload.Answer) {
					reject()
				}
			})
		case "check":
			enqueue(func() {
				if _, ok := session.Check(ctx); !ok {
					reject()
				}
			})
		case "next":
			enqueue(func() {
				if !session.Next(ctx) {
					reject()
				}
			})
		case "previous":
			enqueue(func() {
				if !session.Previous() {
					reject()
				}
			})
		case "reset":
			// Bypasses the queue so it can overtake a check or submission still in flight.
			session.Reset()
		case "load":
			enqueue(func() {
				if ok, err := h.service.Reload(ctx, session.ID()); err != nil || !ok {
					reject()
				}
			})
		case "identify":
			var payload identifyPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || !payload.Learner.Known() {
				emit("error", errorPayload{Message: "invalid identify payload"})
				return
			}
			enqueue(func() { session.Identify(payload.Learner) })
		default:
			emit("error", errorPayload{Message: "unsupported message type"})
		}
	})
}

// ServeActivity drives one sequential activity per connection.
// Query: activityId (required), learnerId, name, contact.
func (h *WSHandler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	activityID := r.URL.Query().Get("activityId")
	if activityID == "" {
		http.Error(w, "missing activityId", http.StatusBadRequest)
		return
	}
	learner := learnerFromQuery(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	activity := h.service.StartActivity(ctx, activityID, learner)
	updates, cancel := activity.Subscribe()
	defer cancel()

	serveConn(ctx, conn, updates, func() { h.service.EndActivity(activity.ID()) }, func(inbound inboundMessage, emit emitFunc, enqueue func(func())) {
		reject := func() { emit("rejected", rejectedPayload{Action: inbound.Type}) }
		switch inbound.Type {
		case "begin":
			enqueue(func() {
				if !activity.Begin() {
					reject()
				}
			})
		case "complete":
			enqueue(func() {
				if !activity.Complete(ctx) {
					reject()
				}
			})
		case "reset":
			activity.Reset()
		case "identify":
			var payload identifyPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || !payload.Learner.Known() {
				emit("error", errorPayload{Message: "invalid identify payload"})
				return
			}
			enqueue(func() { activity.Identify(payload.Learner) })
		default:
			emit("error", errorPayload{Message: "unsupported message type"})
		}
	})
}

func learnerFromQuery(r *http.Request) domain.Learner {
	q := r.URL.Query()
	return domain.Learner{
		ID:          q.Get("learnerId"),
		DisplayName: q.Get("name"),
		Contact:     q.Get("contact"),
	}
}

// serveConn runs the connection: a single writer goroutine owns conn writes, snapshots from
// updates are forwarded as "state" messages, and inbound actions are applied one at a time, in
// arrival order, by a worker goroutine. dispatch may also act directly on the read loop; reset
// does so to overtake queued work. end is called once the client goes away, before the worker
// is drained.
func serveConn[T any](ctx context.Context, conn *websocket.Conn, updates <-chan T, end func(), dispatch func(inboundMessage, emitFunc, func(func()))) {
	send := make(chan outboundMessage[any], 16)
	actions := make(chan func(), 64)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	workerDone := make(chan struct{})

	emit := func(msgType string, payload any) {
		select {
		case send <- outboundMessage[any]{Type: msgType, Payload: payload}:
		case <-closeSignals:
		}
	}
	enqueue := func(fn func()) {
		actions <- fn
	}

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.DebugContext(ctx, "ws write error", "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				emit("state", update)
			case <-closeSignals:
				return
			}
		}
	}()

	go func() {
		defer close(workerDone)
		for fn := range actions {
			select {
			case <-closeSignals:
				// Client is gone; queued actions are dropped.
				continue
			default:
			}
			fn()
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		dispatch(inbound, emit, enqueue)
	}

	close(closeSignals)
	end()
	close(actions)
	<-workerDone
	<-updatesDone
	close(send)
	<-writerDone
}
