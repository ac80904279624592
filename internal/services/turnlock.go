package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TurnLocker serializes turns against the same conversation across all
// running instances. Without it two concurrent turns can read the same
// history and interleave their appends.
type TurnLocker struct {
	client *redis.Client
}

const (
	lockTTL       = 30 * time.Second
	lockPollEvery = 50 * time.Millisecond
)

// releaseScript deletes the lock only if this holder still owns it, so a
// holder that outlived its TTL cannot release someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func NewTurnLocker(client *redis.Client) *TurnLocker {
	return &TurnLocker{client: client}
}

// Acquire blocks until the lock for the conversation is held or ctx ends.
// The returned func releases the lock.
func (l *TurnLocker) Acquire(ctx context.Context, conversationID string) (func(), error) {
	key := "chatlock:" + conversationID
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollEvery):
		}
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		releaseScript.Run(ctx, l.client, []string{key}, token)
	}
	return release, nil
}
