package cmd

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	statusadapter "github.com/bnema/pairline/internal/adapters/render/status"
	"github.com/bnema/pairline/internal/application"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var serverURL string
	var asJSON bool
	var staleAfter time.Duration
	var width int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show who is waiting and which sessions are running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if serverURL == "" {
				cfg, err := app.loadConfig()
				if err != nil {
					return err
				}
				serverURL = "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Server.Port))
			}

			stats, err := fetchStats(cmd, app, serverURL)
			if err != nil {
				return err
			}
			return writeStatsOutput(cmd, app, stats, statusadapter.RenderOptions{
				StaleAfter: staleAfter,
				Width:      width,
			}, asJSON)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Server base URL (default http://127.0.0.1:<configured port>)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().DurationVar(&staleAfter, "stale-after", 30*time.Second, "Flag snapshots older than this")
	cmd.Flags().IntVar(&width, "width", 0, "Cut lines to this many columns (0 keeps them whole)")

	return cmd
}

func fetchStats(cmd *cobra.Command, app *app, serverURL string) (application.Stats, error) {
	url := strings.TrimRight(serverURL, "/") + "/stats"
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
	if err != nil {
		return application.Stats{}, fmt.Errorf("build stats request: %w", err)
	}

	resp, err := app.httpClient.Do(req)
	if err != nil {
		return application.Stats{}, fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return application.Stats{}, fmt.Errorf("fetch stats: unexpected status %s", resp.Status)
	}

	var stats application.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return application.Stats{}, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}

func writeStatsOutput(cmd *cobra.Command, app *app, stats application.Stats, opts statusadapter.RenderOptions, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	opts.Now = app.now()
	rendered, err := app.statusRenderer(stats, opts)
	if err != nil {
		return fmt.Errorf("render status: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
