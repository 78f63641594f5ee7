// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package powershell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/poiesic/wayfind/platform"
)

const defaultExecutable = "powershell.exe"

// Runner executes a PowerShell script and returns its standard output.
type Runner func(ctx context.Context, script string) ([]byte, error)

// Client implements the platform collaborators by running PowerShell scripts.
type Client struct {
	run     Runner
	retry   platform.RetryPolicy
	timeout time.Duration
	logger  *slog.Logger
}

var (
	_ platform.PackageEnumerator = (*Client)(nil)
	_ platform.IconExtractor     = (*Client)(nil)
	_ platform.ProcessLauncher   = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the process runner. Used by tests.
func WithRunner(run Runner) Option {
	return func(c *Client) {
		c.run = run
	}
}

// WithExecutable runs scripts with a different PowerShell binary, e.g. pwsh.
func WithExecutable(path string) Option {
	return func(c *Client) {
		c.run = execRunner(path)
	}
}

// WithRetryPolicy sets the retry policy for enumeration calls.
func WithRetryPolicy(policy platform.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithTimeout bounds a single script invocation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewClient creates a PowerShell-backed platform client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		run:     execRunner(defaultExecutable),
		retry:   platform.DefaultRetryPolicy(),
		timeout: 30 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func execRunner(executable string) Runner {
	return func(ctx context.Context, script string) ([]byte, error) {
		cmd := exec.CommandContext(ctx, executable, "-NoProfile", "-NonInteractive", "-Command", script)
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		out, err := cmd.Output()
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				return nil, platform.Permanent(err)
			}
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%w: %s", err, msg)
			}
			return nil, err
		}
		return out, nil
	}
}

// runScript runs script once under the client timeout.
func (c *Client) runScript(ctx context.Context, script string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.run(ctx, script)
}

// runScriptWithRetry runs script under the retry policy.
func (c *Client) runScriptWithRetry(ctx context.Context, script string) ([]byte, error) {
	var out []byte
	err := platform.Retry(ctx, c.retry, func() error {
		var err error
		out, err = c.runScript(ctx, script)
		return err
	})
	return out, err
}

// quote renders s as a single-quoted PowerShell string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
