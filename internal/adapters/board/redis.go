package board

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/okian/fcleague/internal/domain/types"
	"github.com/okian/fcleague/pkg/logger"
	"github.com/okian/fcleague/pkg/metrics"
)

// RedisBoard keeps each leaderboard as a sorted set of bettor ids plus a
// hash holding the full entries.
type RedisBoard struct {
	client redis.Cmdable
	prefix string
	log    logger.Logger
}

// Dial connects to redis and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis %s: %w", addr, err)
	}
	return client, nil
}

// NewRedisBoard creates a board on top of an existing client.
func NewRedisBoard(client redis.Cmdable, opts ...Option) *RedisBoard {
	b := &RedisBoard{
		client: client,
		prefix: defaultKeyPrefix,
		log:    logger.Named("board"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetKey names the sorted set for a tournament.
func (b *RedisBoard) SetKey(tournamentID string) string {
	return fmt.Sprintf("%s:tournament:%s:bettors", b.prefix, tournamentID)
}

// EntriesKey names the hash of encoded entries for a tournament.
func (b *RedisBoard) EntriesKey(tournamentID string) string {
	return b.SetKey(tournamentID) + ":entries"
}

// Score orders equal points by rank: the integer part is the total, the
// fraction shrinks with position so ZREVRANGE keeps first-seen order.
func Score(e types.BettorEntry, index, total int) float64 {
	return float64(e.TotalPoints) + float64(total-index)/float64(total+1)
}

// Publish replaces the board in a single pipeline.
func (b *RedisBoard) Publish(ctx context.Context, tournamentID string, entries []types.BettorEntry) error {
	setKey, entriesKey := b.SetKey(tournamentID), b.EntriesKey(tournamentID)

	members := make([]redis.Z, 0, len(entries))
	fields := make([]any, 0, 2*len(entries))
	for i, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encoding entry %s: %w", e.PlayerID, err)
		}
		members = append(members, redis.Z{Score: Score(e, i, len(entries)), Member: e.PlayerID})
		fields = append(fields, e.PlayerID, string(raw))
	}

	_, err := b.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, setKey, entriesKey)
		if len(members) > 0 {
			pipe.ZAdd(ctx, setKey, members...)
			pipe.HSet(ctx, entriesKey, fields...)
		}
		return nil
	})
	if err != nil {
		metrics.RecordBoardError()
		b.log.Error(ctx, "board publish failed",
			logger.String("tournament_id", tournamentID),
			logger.Error(err))
		return fmt.Errorf("publishing board %s: %w", tournamentID, err)
	}

	metrics.RecordBoardPublish()
	b.log.Debug(ctx, "board published",
		logger.String("tournament_id", tournamentID),
		logger.Int("entries", len(entries)))
	return nil
}
