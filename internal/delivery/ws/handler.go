package ws

import (
	"log"
	"net/http"
)

// Handler subscribes a client to one session's progress events. The client
// only listens; transcription is started over the HTTP API.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := r.URL.Query().Get("session")
		if room == "" {
			http.Error(w, "session query parameter is required", http.StatusBadRequest)
			return
		}

		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		log.Printf("[ws] connect session=%s", room)
		hub.Register(room, conn)
		defer func() {
			hub.Unregister(room, conn)
			log.Printf("[ws] disconnect session=%s", room)
		}()

		// Drain until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
