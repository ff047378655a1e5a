package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	"tpsearch/lib/configutil"
	"tpsearch/lib/ipaddr"
	"tpsearch/lib/osutil"
	"tpsearch/lib/platforms/aviasales"
	"tpsearch/lib/platforms/core"
	"tpsearch/lib/telemetry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var flightsCmd = &cobra.Command{
	Use:   "flights",
	Short: "Flight searches and clicks through the aviasales API.",
}

var (
	flightConfig       *string
	flightOut          *string
	flightBaseUrl      *string
	flightIpUrl        *string
	flightWait         *time.Duration
	flightPoll         *bool
	flightPollInterval *time.Duration
	flightMaxAttempts  *int
)

func init() {
	flags := flightsSearchCmd.Flags()
	flightConfig = flags.String("config", "flight_search.json5", "The search parameters, overridden by <name>.local.json5 when present.")
	flightOut = flags.String("out", "results.json", "Where to write the search results.")
	flightBaseUrl = flags.String("base-url", aviasales.DefaultBaseUrl, "The base url of the aviasales API.")
	flightIpUrl = flags.String("ip-url", ipaddr.IdentV4Endpoint, "Where the user ip is looked up when the config leaves it empty.")
	flightWait = flags.Duration("wait", 15*time.Second, "How long to wait before fetching the results.")
	flightPoll = flags.Bool("poll", false, "Fetch the results repeatedly until every gate has answered instead of fetching once.")
	flightPollInterval = flags.Duration("poll-interval", 5*time.Second, "The wait between fetches when polling.")
	flightMaxAttempts = flags.Int("max-attempts", 20, "The most fetches to make when polling.")

	flightsCmd.AddCommand(flightsSearchCmd)
	rootCmd.AddCommand(flightsCmd)
}

func readCredentials() (aviasales.Credentials, error) {
	err := configutil.LoadEnv()
	if err != nil {
		return aviasales.Credentials{}, err
	}
	env, err := configutil.RequireEnv("TP_API_TOKEN", "TP_AFFILIATE_MARKER", "TP_HOST")
	if err != nil {
		return aviasales.Credentials{}, err
	}
	return aviasales.Credentials{
		Token:  env[0],
		Marker: env[1],
		Host:   env[2],
	}, nil
}

var flightsSearchCmd = &cobra.Command{
	Use:   "search [--config flight_search.json5] [--out results.json] [--wait 15s | --poll]",
	Short: "Starts a flight search, waits for it and writes the results.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if *flightPoll && *flightMaxAttempts < 1 {
			return fmt.Errorf("--max-attempts must be at least 1, got %d", *flightMaxAttempts)
		}

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		creds, err := readCredentials()
		if err != nil {
			return err
		}
		params, err := configutil.ReadConfig[aviasales.SearchParams](*flightConfig)
		if err != nil {
			return fmt.Errorf("read %s: %w", *flightConfig, err)
		}

		if params.Ip == "" {
			ipClient := core.NewHttpClient(core.ClientOptions{
				Tracer: telemetry.Tracer("tpsearch.cmd.tp-cli/ip"),
				Output: debugOutput("ip-lookup"),
			})
			params.Ip, err = ipaddr.Lookup(ctx, ipClient, *flightIpUrl)
			if err != nil {
				return err
			}
		}

		client := aviasales.NewClient(aviasales.ClientOptions{
			BaseUrl: *flightBaseUrl,
			Output:  debugOutput("flights-search"),
		})
		start, err := client.StartSearch(ctx, creds, params)
		if start.Signature.String != "" {
			t := newTable(out)
			t.AppendRows([]table.Row{
				{"Signature string", start.Signature.String},
				{"Signature MD5", start.Signature.MD5},
				{"search_id", start.SearchId},
			})
			t.Render()
		}
		if err != nil {
			return err
		}

		var results aviasales.Results
		if *flightPoll {
			results, err = client.PollResults(ctx, start.SearchId, aviasales.PollOptions{
				Interval:    *flightPollInterval,
				MaxAttempts: *flightMaxAttempts,
				OnAttempt: func(attempt, chunks int) {
					slog.Info("polled results", "attempt", attempt, "chunks", chunks)
				},
			})
			if errors.Is(err, aviasales.ErrSearchIncomplete) {
				slog.Warn("writing incomplete results", "err", err)
				err = nil
			}
		} else {
			fmt.Fprintf(out, "Waiting for %d seconds...\n", int(flightWait.Seconds()))
			results, err = client.WaitResults(ctx, start.SearchId, *flightWait)
		}
		if err != nil {
			return err
		}

		path, err := outputPath(*flightOut)
		if err != nil {
			return err
		}
		err = osutil.WriteJSONFile(path, results)
		if err != nil {
			return err
		}
		slog.Info("wrote search results", "path", path)
		return nil
	},
}
