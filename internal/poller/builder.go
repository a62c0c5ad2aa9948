// internal/poller/builder.go
package poller

import (
	cfg "github.com/tamzrod/rosterwatch/internal/config"
	"github.com/tamzrod/rosterwatch/internal/provider"
	"github.com/tamzrod/rosterwatch/internal/status"
)

// Build constructs a Poller backed by the HTTP status provider.
// Config must already be validated and normalized.
func Build(c *cfg.Config, store *status.Store, classifier *status.Classifier, opts ...Option) (*Poller, error) {
	rw := c.Rosterwatch

	client, err := provider.New(provider.Config{
		BaseURL: rw.Provider.BaseURL,
		APIKey:  rw.Provider.APIKey,
		Timeout: rw.Provider.Timeout(),
	})
	if err != nil {
		return nil, err
	}

	return New(
		Config{
			Interval:    rw.Poll.Interval(),
			Groups:      rw.Groups,
			Concurrency: rw.Poll.Concurrency,
		},
		client,
		store,
		classifier,
		opts...,
	)
}
