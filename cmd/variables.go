// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/jml/jmllib/libjson"
	"github.com/luthersystems/jml/jml/jmllib/libyaml"
	"github.com/luthersystems/jml/parser/literal"
)

// maxVariableSize bounds the size of a document fetched over HTTP.
var maxVariableSize = 64 << 20

// splitAssignment splits a "name=value" flag argument.
func splitAssignment(flag, arg string) (string, string, error) {
	name, value, ok := strings.Cut(arg, "=")
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid --%s %q: expected name=value", flag, arg)
	}
	return name, value, nil
}

// loadVariable reads the document named by location, a file path or an http
// or https URL.  Documents with a .yaml or .yml extension are decoded as
// YAML, all others as JSON.
func (c *cli) loadVariable(ctx context.Context, location string) (*jml.Value, error) {
	var (
		data []byte
		ext  string
		err  error
	)
	if u, perr := url.Parse(location); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		data, err = c.fetch(ctx, u.String())
		ext = path.Ext(u.Path)
	} else {
		data, err = os.ReadFile(location) //#nosec G304
		ext = filepath.Ext(location)
	}
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return libyaml.Load(data)
	default:
		return libjson.Load(data)
	}
}

func (c *cli) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.cfg.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxVariableSize)+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxVariableSize {
		return nil, fmt.Errorf("GET %s: document exceeds %d MiB", u, maxVariableSize>>20)
	}
	return data, nil
}

// bindVariables binds each --variable document and --set literal in env.
// Later assignments to the same name replace earlier ones.
func (c *cli) bindVariables(ctx context.Context, env *jml.Env, variables, sets []string) error {
	for _, arg := range variables {
		name, location, err := splitAssignment("variable", arg)
		if err != nil {
			return err
		}
		c.logger.Debug("loading variable", "name", name, "location", location)
		v, err := c.loadVariable(ctx, location)
		if err != nil {
			return fmt.Errorf("variable %s: %w", name, err)
		}
		env.BindValue(name, v)
	}
	for _, arg := range sets {
		name, text, err := splitAssignment("set", arg)
		if err != nil {
			return err
		}
		v, err := literal.ParseString(text)
		if err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
		env.BindValue(name, v)
	}
	return nil
}
