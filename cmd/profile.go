// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"

	"github.com/pkg/profile"
)

var profileModes = map[string]func(*profile.Profile){
	"cpu":       profile.CPUProfile,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"block":     profile.BlockProfile,
	"goroutine": profile.GoroutineProfile,
	"trace":     profile.TraceProfile,
}

func profileMode(name string) (func(*profile.Profile), error) {
	mode, ok := profileModes[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile mode: %q", name)
	}
	return mode, nil
}

// startProfile starts the Go profiler selected by --profile.  Only one
// profile can be collected per process.
func (c *cli) startProfile() error {
	name := c.v.GetString("profile")
	if name == "" {
		return nil
	}
	mode, err := profileMode(name)
	if err != nil {
		return err
	}
	c.logger.Debug("starting profile", "mode", name, "dir", c.v.GetString("profile-dir"))
	p := profile.Start(mode,
		profile.ProfilePath(c.v.GetString("profile-dir")),
		profile.NoShutdownHook,
		profile.Quiet)
	c.cleanup = append(c.cleanup, func() error {
		p.Stop()
		return nil
	})
	return nil
}
