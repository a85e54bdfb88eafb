package kds

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/snooker-app/models"
	"github.com/yeremiapane/snooker-app/utils"
)

// Event types
const (
	EventSessionUpdate      = "session_update"
	EventBillCreated        = "bill_created"
	EventBillPaymentUpdated = "bill_payment_updated"
	EventBillDeleted        = "bill_deleted"
	EventLedgerCleared      = "ledger_cleared"
	EventDashboardUpdate    = "dashboard_update"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 64
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client is one display. Its writePump is the only writer of conn.
type client struct {
	conn *websocket.Conn
	addr string
	send chan []byte
}

// Hub holds every connected display (counter screen, dashboard) and pushes
// table and ledger events to them. Broadcast never waits on the network: a
// display whose buffer is full is dropped.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds conn to the broadcast set and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		addr: conn.RemoteAddr().String(),
		send: make(chan []byte, sendBuffer),
	}

	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	utils.InfoLogger.WithField("client", c.addr).Info("display connected")
	go h.writePump(c)
}

// Unregister drops conn; its writer closes the connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeLocked(conn)
}

func (h *Hub) removeLocked(conn *websocket.Conn) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(c.send)
	utils.InfoLogger.WithField("client", c.addr).Info("display disconnected")
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()

	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithField("client", c.addr).Errorf("send to display: %v", err)
			h.Unregister(c.conn)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (h *Hub) Len() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// SessionChanged forwards a table session snapshot to all displays. It is
// meant to be subscribed to the session registry.
func (h *Hub) SessionChanged(session models.TableSession) {
	h.Broadcast(Message{Event: EventSessionUpdate, Data: session})
}

func (h *Hub) BroadcastBillCreated(bill models.BillRecord) {
	h.Broadcast(Message{Event: EventBillCreated, Data: bill})
}

func (h *Hub) BroadcastBillPaymentUpdated(bill models.BillRecord) {
	h.Broadcast(Message{Event: EventBillPaymentUpdated, Data: bill})
}

func (h *Hub) BroadcastBillDeleted(billID string) {
	h.Broadcast(Message{Event: EventBillDeleted, Data: map[string]string{"id": billID}})
}

func (h *Hub) BroadcastLedgerCleared() {
	h.Broadcast(Message{Event: EventLedgerCleared, Data: nil})
}

// BroadcastDashboardUpdate -> fresh ledger totals for dashboards
func (h *Hub) BroadcastDashboardUpdate(summary models.LedgerSummary) {
	h.Broadcast(Message{Event: EventDashboardUpdate, Data: summary})
}

// Broadcast queues msg for every client. Clients that cannot keep up are
// dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("marshal %s message: %v", msg.Event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.WithFields(logrus.Fields{
				"client": c.addr,
				"event":  msg.Event,
			}).Error("display too slow, dropping it")
			h.removeLocked(conn)
		}
	}
}
