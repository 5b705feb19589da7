package http

import (
	"context"
	"log"
	"net/http"

	"compboard/internal/domain"
	"github.com/google/uuid"
)

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type boardsPayload struct {
	Task1    []domain.LeaderboardEntry         `json:"task1"`
	Task2    []domain.LeaderboardEntry         `json:"task2"`
	Combined []domain.CombinedLeaderboardEntry `json:"combined"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// handleBoardStream upgrades to a websocket and pushes a full board snapshot on
// connect and again whenever standings change, replacing client-side polling.
func (s *Server) handleBoardStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	clientID := uuid.NewString()

	snapshot, err := s.boardSnapshot(r.Context())
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	if err := conn.WriteJSON(outboundMessage[boardsPayload]{Type: "boards", Payload: snapshot}); err != nil {
		return
	}

	events, cancel := s.hub.Subscribe()
	defer cancel()

	// Drain client frames so closes are noticed; inbound content is ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			snapshot, err := s.boardSnapshot(r.Context())
			if err != nil {
				log.Printf("ws %s: snapshot after %s: %v", clientID, event.Reason, err)
				continue
			}
			if err := conn.WriteJSON(outboundMessage[boardsPayload]{Type: "boards", Payload: snapshot}); err != nil {
				return
			}
		}
	}
}

func (s *Server) boardSnapshot(ctx context.Context) (boardsPayload, error) {
	task1, err := s.boards.TaskBoard(ctx, 1)
	if err != nil {
		return boardsPayload{}, err
	}
	task2, err := s.boards.TaskBoard(ctx, 2)
	if err != nil {
		return boardsPayload{}, err
	}
	combined, err := s.boards.CombinedBoard(ctx)
	if err != nil {
		return boardsPayload{}, err
	}
	return boardsPayload{Task1: task1, Task2: task2, Combined: combined}, nil
}
