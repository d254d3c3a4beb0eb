package orderControllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/autoparts-api/checkout"
	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/models"
	log "github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Frame is one message on the order watch stream.
type Frame struct {
	Type   string             `json:"type"` // watching, approved, timeout, error
	Ref    models.OrderRef    `json:"ref"`
	Status models.OrderStatus `json:"status,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// GET /orders/watch?ledger_path=&order_id=
//
// Streams a single "approved" frame once the order is approved or paid, then
// closes. A "timeout" frame is sent if that does not happen in time.
func WatchOrderHandler(watcher *checkout.Watcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := models.OrderRef{LedgerPath: c.Query("ledger_path"), OrderID: c.Query("order_id")}
		if _, err := models.ParseLedgerPath(ref.LedgerPath); err != nil || ref.OrderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ledger_path and order_id are required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		approved := make(chan models.OrderStatus, 1)
		sub, err := watcher.Watch(ctx, ref, func(s models.OrderStatus) { approved <- s })
		if err != nil {
			msg := "Failed to watch order"
			if errors.Is(err, models.ErrNotFound) {
				msg = "Order not found"
			}
			writeFrame(conn, Frame{Type: "error", Ref: ref, Error: msg})
			return
		}
		defer sub.Unsubscribe()

		// client hang-up ends the watch
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					sub.Unsubscribe()
					return
				}
			}
		}()

		writeFrame(conn, Frame{Type: "watching", Ref: ref})

		select {
		case s := <-approved:
			writeFrame(conn, Frame{Type: "approved", Ref: ref, Status: s})
		case <-sub.Done():
			select {
			case s := <-approved:
				writeFrame(conn, Frame{Type: "approved", Ref: ref, Status: s})
			default:
				if errors.Is(sub.Err(), checkout.ErrWatchTimeout) {
					writeFrame(conn, Frame{Type: "timeout", Ref: ref})
				}
			}
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	}
}

// GET /admin/orders/feed streams every order and approval event to admins.
func OrderFeedHandler(hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		feed, cancel := hub.SubscribeAll()
		defer cancel()

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case e, ok := <-feed:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(e); err != nil {
					log.WithError(err).Debug("Order feed client write failed")
					return
				}
			case <-closed:
				return
			}
		}
	}
}

func writeFrame(conn *websocket.Conn, f Frame) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(f); err != nil {
		log.WithError(err).WithField("order_id", f.Ref.OrderID).Debug("Watch frame write failed")
	}
}
