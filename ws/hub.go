package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub memegang koneksi konsol admin yang memantau status dokumen
type Hub struct {
	Clients map[*websocket.Conn]*Client
	Mutex   sync.RWMutex
}

var H = Hub{
	Clients: make(map[*websocket.Conn]*Client),
}

// DocumentStatusUpdate dikirim saat status satu dokumen berubah
type DocumentStatusUpdate struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

func (h *Hub) Register(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.Clients[conn] = client

	go h.readPump(conn)
	go h.writePump(conn)
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.Clients[conn]; ok {
		close(client.Send)
		delete(h.Clients, conn)
		conn.Close()
	}
}

func (h *Hub) Broadcast(data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.Clients {
		select {
		case client.Send <- data:
		default:
			// Client lambat: lewati daripada memblokir broadcast
		}
	}
}

func (h *Hub) readPump(conn *websocket.Conn) {
	defer h.Unregister(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn) {
	client := h.client(conn)
	if client == nil {
		return
	}
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (h *Hub) client(conn *websocket.Conn) *Client {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()
	return h.Clients[conn]
}

// GetStats untuk endpoint health
func (h *Hub) GetStats() map[string]interface{} {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()
	return map[string]interface{}{
		"connected_clients": len(h.Clients),
	}
}

// SendStatusUpdate menyiarkan perubahan status satu dokumen
func SendStatusUpdate(docID, status, errorMsg string) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": "document_status",
		"data": DocumentStatusUpdate{
			DocumentID: docID,
			Status:     status,
			Error:      errorMsg,
		},
	})
	if err != nil {
		log.Printf("Gagal menyusun pesan status: %v", err)
		return
	}
	H.Broadcast(payload)
}

// BroadcastDocumentListChanged memberi tahu konsol admin agar memuat ulang daftar
func BroadcastDocumentListChanged() {
	payload, _ := json.Marshal(map[string]interface{}{
		"type": "document_list_changed",
	})
	H.Broadcast(payload)
}
