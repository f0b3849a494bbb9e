package ghibli

import (
	"context"
	"fmt"
	"io"
)

// CheckReachable probes the films endpoint and writes a one-line report to w.
// An unreachable source is not fatal: the screens surface fetch errors themselves.
func CheckReachable(ctx context.Context, c *Client, w io.Writer) bool {
	if err := c.Ping(ctx); err != nil {
		fmt.Fprintf(w, "source %s: %v\n", c.URL(), err)
		return false
	}
	fmt.Fprintf(w, "source %s: ready\n", c.URL())
	return true
}
