package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// remoteFlags — адрес работающего сервиса и таймаут запроса.
type remoteFlags struct {
	addr    string
	timeout time.Duration
}

func (f *remoteFlags) bind(c *cobra.Command) {
	c.Flags().StringVar(&f.addr, "addr", "http://localhost:8080", "base URL of the running service")
	c.Flags().DurationVar(&f.timeout, "timeout", 90*time.Second, "request timeout")
}

func newSyncCmd() *cobra.Command {
	var (
		rf    remoteFlags
		force bool
	)
	c := &cobra.Command{
		Use:   "sync <restaurant-id>",
		Short: "Trigger a spreadsheet → local store sync on the running service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if force {
				q.Set("force", "true")
			}
			return rf.post(cmd, "/restaurants/"+url.PathEscape(args[0])+"/sync", q)
		},
	}
	rf.bind(c)
	c.Flags().BoolVar(&force, "force", false, "ignore the minimum sync interval and drop cached sheets")
	return c
}

func newReleaseCmd() *cobra.Command {
	var rf remoteFlags
	c := &cobra.Command{
		Use:   "release <restaurant-id>",
		Short: "Release tables whose occupation window has expired",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rf.post(cmd, "/restaurants/"+url.PathEscape(args[0])+"/release", nil)
		},
	}
	rf.bind(c)
	return c
}

// post — POST на сервис; тело ответа печатается как есть (с отступами).
// Статус ≥ 400 превращается в ошибку.
func (f *remoteFlags) post(cmd *cobra.Command, path string, q url.Values) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	target := strings.TrimRight(f.addr, "/") + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var pretty bytes.Buffer
	if json.Indent(&pretty, body, "", "  ") == nil {
		body = pretty.Bytes()
	}
	fmt.Fprintln(out(cmd), string(body))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: %s", target, resp.Status)
	}
	return nil
}
