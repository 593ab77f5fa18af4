package watch

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mapsnap/backend/internal/platform/auth"
	applog "github.com/mapsnap/backend/internal/platform/logging"
	acctsvc "github.com/mapsnap/backend/internal/service/account"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 90 * time.Second
	pingInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// CORS for WebSocket is handled at the HTTP layer.
		return true
	},
}

// Snapshot is the JSON payload pushed on every committed mutation.
type Snapshot struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Birthday       string   `json:"birthday"`
	PictureRef     string   `json:"pictureRef"`
	FriendIDs      []string `json:"friendIds"`
	SnapIDs        []string `json:"snapIds"`
	StarredSnapIDs []string `json:"starredSnapIds"`
	Private        bool     `json:"private"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	LocationName   string   `json:"locationName"`
}

// Handler streams live Account snapshots for the authenticated user over
// a WebSocket: the current state on connect, then every subsequent state
// committed through the account service. Only the most recent state is
// buffered for slow consumers.
func Handler(verifier auth.Verifier, svc acctsvc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ExtractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			// Browser WebSocket clients cannot set headers; allow the
			// token as a query parameter.
			token = r.URL.Query().Get("token")
			if token == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
		}

		user, err := verifier.Verify(r.Context(), token)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		watch, err := svc.Observe(r.Context(), user.UID)
		if err != nil {
			if errors.Is(err, acctsvc.ErrNotFound) {
				http.Error(w, "account not found", http.StatusNotFound)
				return
			}
			applog.LogError(r.Context(), "account watch failed", err,
				zap.String("user_id", user.UID))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		defer watch.Stop()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		// Reader loop only services control frames; any read error tears
		// the connection down.
		conn.SetReadLimit(4 * 1024)
		_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongTimeout))
		})
		readerDone := make(chan struct{})
		go func() {
			defer close(readerDone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ping := time.NewTicker(pingInterval)
		defer ping.Stop()

		for {
			select {
			case acct, ok := <-watch.Updates():
				if !ok {
					// Account deleted or watch ended.
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream ended"),
						time.Now().Add(writeTimeout))
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteJSON(toSnapshot(acct)); err != nil {
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil,
					time.Now().Add(writeTimeout)); err != nil {
					return
				}
			case <-readerDone:
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}

func toSnapshot(a acctsvc.Account) Snapshot {
	return Snapshot{
		ID:             a.ID,
		Username:       a.Username,
		Birthday:       a.Birthday,
		PictureRef:     a.PictureRef,
		FriendIDs:      a.FriendIDs,
		SnapIDs:        a.SnapIDs,
		StarredSnapIDs: a.StarredSnapIDs,
		Private:        a.Private,
		Latitude:       a.Location.Latitude,
		Longitude:      a.Location.Longitude,
		LocationName:   a.Location.Name,
	}
}
