package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"tpsearch/lib/configutil"
	"tpsearch/lib/ipaddr"
	"tpsearch/lib/osutil"
	"tpsearch/lib/platforms/hotellook"

	"github.com/spf13/cobra"
)

var hotelsCmd = &cobra.Command{
	Use:   "hotels",
	Short: "Hotel searches through the hotellook engine API.",
}

var (
	hotelConfig   *string
	hotelRequest  *string
	hotelResponse *string
	hotelBaseUrl  *string
	hotelIpUrl    *string
)

func init() {
	flags := hotelsSearchCmd.Flags()
	hotelConfig = flags.String("config", "config.json", "The search config.")
	hotelRequest = flags.String("request", "request.txt", "Where to write how the requests were signed and sent.")
	hotelResponse = flags.String("response", "response.json", "Where to write the search results.")
	hotelBaseUrl = flags.String("base-url", hotellook.DefaultBaseUrl, "The base url of the hotellook engine.")
	hotelIpUrl = flags.String("ip-url", ipaddr.IdentEndpoint, "Where the customer ip is looked up when the config has none.")

	hotelsCmd.AddCommand(hotelsSearchCmd)
	rootCmd.AddCommand(hotelsCmd)
}

var hotelsSearchCmd = &cobra.Command{
	Use:   "search [--config config.json] [--request request.txt] [--response response.json]",
	Short: "Starts a hotel search, waits for it and writes the results along with a request trail.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		raw, err := configutil.ReadConfig[map[string]any](*hotelConfig)
		if err != nil {
			return fmt.Errorf("read %s: %w", *hotelConfig, err)
		}
		cfg, err := hotellook.ParseConfig(raw)
		if err != nil {
			return err
		}

		client := hotellook.NewClient(hotellook.ClientOptions{
			BaseUrl:    *hotelBaseUrl,
			IpEndpoint: *hotelIpUrl,
			Output:     debugOutput("hotels-search"),
		})
		outcome, searchErr := client.Search(cmd.Context(), cfg, hotellook.SearchOptions{
			Progress: func(int) {
				fmt.Fprint(out, ".")
			},
		})
		if cfg.Sleep > 0 && outcome.SearchId != "" {
			fmt.Fprintln(out)
		}
		if apiErr, ok := hotellook.AsAPIError(searchErr); ok {
			fmt.Fprintf(out, "Error message:\t\t%s\n\n", apiErr.Message)
		}

		if outcome.Trail.InitUrl != "" {
			var trail bytes.Buffer
			err = outcome.Trail.Render(&trail)
			if err != nil {
				return err
			}
			path, err := outputPath(*hotelRequest)
			if err != nil {
				return err
			}
			err = osutil.WriteFile(path, trail.Bytes())
			if err != nil {
				return err
			}
		}
		if searchErr != nil {
			return searchErr
		}

		path, err := outputPath(*hotelResponse)
		if err != nil {
			return err
		}
		err = osutil.WriteJSONFile(path, outcome.Result)
		if err != nil {
			return err
		}
		slog.Info("wrote search results", "path", path, "search_id", outcome.SearchId)
		return nil
	},
}
