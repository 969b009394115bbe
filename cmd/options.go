// Copyright © 2024 The ELPS authors

package cmd

import (
	"net/http"

	"github.com/luthersystems/jml/jml"
)

// Option configures the command tree returned by NewRootCommand.
type Option func(*cmdConfig)

type cmdConfig struct {
	envOpts    []jml.Config
	httpClient *http.Client
}

func newCmdConfig(opts ...Option) *cmdConfig {
	c := &cmdConfig{
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithEnvConfig applies additional configuration to every environment the
// commands create.  Embedders use it to bind their own native functions.
func WithEnvConfig(opts ...jml.Config) Option {
	return func(c *cmdConfig) { c.envOpts = append(c.envOpts, opts...) }
}

// WithHTTPClient sets the client used to fetch variables given as URLs.
func WithHTTPClient(client *http.Client) Option {
	return func(c *cmdConfig) { c.httpClient = client }
}
