package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

type pingResult struct {
	OK       bool   `json:"ok"`
	Endpoint string `json:"endpoint"`
	Status   int    `json:"status"`
	Latency  string `json:"latency"`
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the Spot API endpoint answers",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}

			start := time.Now()
			resp, err := client.Util().Ping(cmd.Context())
			if err != nil {
				return err
			}
			result := pingResult{
				OK:       resp.OK(),
				Endpoint: client.Store.Snapshot().BaseURL,
				Status:   resp.Status,
				Latency:  time.Since(start).Round(time.Millisecond).String(),
			}

			if isJSON(cmd) {
				return printJSON(cmd, result)
			}
			printText(cmd, "%s answered in %s", result.Endpoint, result.Latency)
			return nil
		}),
	}
}
