package service

import (
	"fmt"
	"sync"
	"time"
)

type QueuedPlayer struct {
	ID       string
	JoinedAt time.Time
}

// Queue is the matchmaking queue, oldest entry first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
	now     func() time.Time
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
		now:     time.Now,
	}
}

func (q *Queue) AddPlayer(playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.ID == playerID {
			return fmt.Errorf("%w: %s", ErrAlreadyQueued, playerID)
		}
	}
	q.players = append(q.players, QueuedPlayer{ID: playerID, JoinedAt: q.now()})
	return nil
}

// RemovePlayer reports whether playerID was waiting.
func (q *Queue) RemovePlayer(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// GetNextPair pops the two players who have waited longest.
func (q *Queue) GetNextPair() (QueuedPlayer, QueuedPlayer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return QueuedPlayer{}, QueuedPlayer{}, false
	}
	p1, p2 := q.players[0], q.players[1]
	q.players = q.players[2:]
	return p1, p2, true
}

// requeue puts p back at the head of the queue, keeping its JoinedAt.
func (q *Queue) requeue(p QueuedPlayer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, queued := range q.players {
		if queued.ID == p.ID {
			return
		}
	}
	q.players = append([]QueuedPlayer{p}, q.players...)
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
