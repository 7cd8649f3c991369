package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericogr/duel-arena/internal/battle"
	"github.com/ericogr/duel-arena/internal/constants"
	"github.com/ericogr/duel-arena/internal/logging"
	"github.com/ericogr/duel-arena/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamBuffer     = 64
	streamMaxMessage = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tokens authenticate the stream; any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamReply is sent back for every decision read from the socket.
type streamReply struct {
	Kind  string `json:"kind"`
	Turn  int    `json:"turn"`
	Error string `json:"error,omitempty"`
}

// Stream upgrades to a websocket that pushes battle events and accepts
// decisions. A socket that breaks while the battle runs counts as a
// transport failure for the caller; a clean close does not.
func (h *BattleHandler) Stream(c *gin.Context) {
	battleID := c.Param(constants.ParamBattleID)
	playerID, _ := playerFromContext(c)

	side, events, unsubscribe, err := h.svc.Subscribe(battleID, playerID, streamBuffer)
	if err != nil {
		writeError(c, err, constants.ErrInternal)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		unsubscribe()
		logging.Warn("websocket upgrade failed", logging.Fields{
			constants.LogFieldBattleID: battleID,
			constants.LogFieldReason:   err.Error(),
		})
		return
	}
	logging.Info("battle stream opened", logging.Fields{
		constants.LogFieldBattleID: battleID,
		constants.LogFieldPlayerID: playerID,
		constants.LogFieldSide:     side,
	})

	replies := make(chan streamReply, 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		writeLoop(conn, events, replies)
	}()

	readErr := readLoop(conn, func(req service.DecisionRequest, decodeErr error) {
		reply := streamReply{Kind: "ack", Turn: req.Turn}
		if decodeErr != nil {
			reply = streamReply{Kind: "rejected", Error: constants.ErrInvalidRequest}
		} else if err := h.svc.SubmitDecision(battleID, playerID, req); err != nil {
			_, msg := statusFor(err, constants.ErrInternal)
			reply = streamReply{Kind: "rejected", Turn: req.Turn, Error: msg}
		}
		select {
		case replies <- reply:
		default:
		}
	})

	unsubscribe()
	<-writerDone
	_ = conn.Close()

	// A client that closes cleanly may reconnect or go on over REST; only
	// a broken socket loses the decision source. Reporting is a no-op once
	// the session left the registry.
	if !websocket.IsCloseError(readErr, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		h.svc.ReportTransportFailure(battleID, playerID, readErr)
	}
	logging.Info("battle stream closed", logging.Fields{
		constants.LogFieldBattleID: battleID,
		constants.LogFieldPlayerID: playerID,
	})
}

// readLoop hands every text frame to submit until the socket fails, and
// returns that failure.
func readLoop(conn *websocket.Conn, submit func(service.DecisionRequest, error)) error {
	conn.SetReadLimit(streamMaxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var req service.DecisionRequest
		err = json.Unmarshal(data, &req)
		submit(req, err)
	}
}

func writeLoop(conn *websocket.Conn, events <-chan battle.Event, replies <-chan streamReply) {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case e, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !ok {
				// Session finished or the reader unsubscribed.
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "battle over"))
				return
			}
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case r := <-replies:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(r); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
