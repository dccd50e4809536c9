// Command client is a terminal room follower. It rehydrates a session from
// the saved (player id, room code) pair and then keeps a local view of the
// room converged through both channels the server offers: websocket change
// notices and the polling fallback.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"word-imposter/internal/config"
	"word-imposter/internal/db"
	"word-imposter/internal/session"

	"github.com/gorilla/websocket"
)

func main() {
	playerID := flag.String("player", "", "player id issued when joining the room")
	roomCode := flag.String("room", "", "room code")
	wsBase := flag.String("ws", "ws://localhost:8080", "server base url for push notices")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	fetcher := session.NewFetcher(conn)

	view, ok := session.Restore(fetcher, *playerID, *roomCode)
	if !ok {
		log.Fatalf("no session for player %s in room %s", *playerID, *roomCode)
	}
	view.OnChange(func() {
		snapshot := view.Snapshot()
		log.Printf("room_code=%s phase=%s round=%d players=%d clues=%d votes=%d",
			snapshot.Room.Code, snapshot.Room.Phase, snapshot.Round.Number,
			len(snapshot.Players), len(snapshot.Clues), len(snapshot.Votes))
	})

	reconciler := session.NewReconciler(fetcher, view, *roomCode,
		time.Duration(cfg.PollIntervalMillis)*time.Millisecond)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go listenNotices(ctx, *wsBase+"/ws/rooms/"+*roomCode, reconciler)
	reconciler.Run(ctx)
}

// listenNotices feeds push notifications into the reconciler, redialing on
// any socket failure. The poll loop covers the gaps, so a dropped connection
// only costs latency.
func listenNotices(ctx context.Context, url string, reconciler *session.Reconciler) {
	for ctx.Err() == nil {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			log.Printf("notice subscribe failed url=%s error=%v", url, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
			continue
		}
		readNotices(conn, reconciler)
	}
}

func readNotices(conn *websocket.Conn, reconciler *session.Reconciler) {
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var notice session.Notice
		if err := json.Unmarshal(data, &notice); err != nil {
			continue
		}
		reconciler.HandleNotice(notice)
	}
}
