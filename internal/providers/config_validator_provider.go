package providers

import (
	"agd/internal/structures"
	"errors"
	"fmt"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %w", v.Errors)
	}

	// rules that depend on the selected source kind
	switch c.conf.Source.Kind {
	case structures.SourceKindGitLab:
		if c.conf.Source.ApiBaseUrl == "" || c.conf.Source.RawBaseUrl == "" {
			return errors.New("invalid config: source.apiBaseUrl and source.rawBaseUrl are required for gitlab source")
		}
		if c.conf.Source.ProjectID <= 0 {
			return errors.New("invalid config: source.projectId must be positive")
		}
	case structures.SourceKindDir:
		if c.conf.Source.Dir == "" {
			return errors.New("invalid config: source.dir is required for dir source")
		}
	}
	if c.conf.Source.RetryMax < 0 {
		return errors.New("invalid config: source.retryMax must not be negative")
	}
	return nil
}
