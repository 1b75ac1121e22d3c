package board

import "github.com/okian/fcleague/pkg/logger"

const defaultKeyPrefix = "fcleague"

// Option applies a configuration option to the RedisBoard.
type Option func(*RedisBoard)

// WithKeyPrefix sets the namespace of every key the board writes.
func WithKeyPrefix(prefix string) Option {
	return func(b *RedisBoard) {
		if prefix != "" {
			b.prefix = prefix
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(b *RedisBoard) {
		if l != nil {
			b.log = l
		}
	}
}
