package source

import (
	"agd/internal/providers"
	"agd/internal/structures"
	"fmt"
)

// NewSourceProvider builds the configured source. Remote sources sit behind a circuit breaker.
func NewSourceProvider(conf *structures.Config, logger providers.Logger) (SourceInterface, error) {
	switch conf.Source.Kind {
	case structures.SourceKindGitLab:
		return NewBreakerSource(NewGitLabSource(conf, logger), logger), nil
	case structures.SourceKindDir:
		return NewDirSource(conf.Source.Dir), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", conf.Source.Kind)
	}
}
