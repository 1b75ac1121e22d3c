package kafka

import "github.com/okian/fcleague/pkg/logger"

// Option applies a configuration option to the SaramaPublisher.
type Option func(*SaramaPublisher)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(p *SaramaPublisher) {
		if l != nil {
			p.log = l
		}
	}
}
