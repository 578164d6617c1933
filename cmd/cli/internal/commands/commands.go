package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/subhasish93/Timetable/internal/client"
)

type Globals struct {
	Debug    bool
	Version  string
	Server   string
	Timeout  time.Duration
	Wait     time.Duration
	CacheDir string
	Cache    bool

	// Stdout receives command output; nil means os.Stdout.
	Stdout io.Writer
}

// NewClient creates a backend client and, when Wait is set, blocks until
// the backend is reachable.
func (g *Globals) NewClient(ctx context.Context) (*client.Client, error) {
	c, err := client.New(client.Config{
		ServerURL: g.Server,
		Timeout:   g.Timeout,
		CacheDir:  g.CacheDir,
		Cache:     g.Cache,
		Debug:     g.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if g.Wait > 0 {
		if err := c.WaitReady(ctx, g.Wait); err != nil {
			return nil, fmt.Errorf("backend at %s is not reachable: %w", c.BaseURL(), err)
		}
	}

	return c, nil
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}

// requireText trims v and fails when nothing is left.
func requireText(label, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	return v, nil
}

func requireID(label string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s must be a positive id", label)
	}
	return nil
}
