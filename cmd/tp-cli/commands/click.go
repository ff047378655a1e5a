package commands

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"tpsearch/lib/osutil"
	"tpsearch/lib/platforms/aviasales"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	clickSearchId *string
	clickProposal *string
	clickGate     *string
	clickOut      *string
	clickBaseUrl  *string
)

func init() {
	flags := flightsClickCmd.Flags()
	clickSearchId = flags.String("search-id", "", "The search the proposal came from.")
	clickProposal = flags.String("proposal", "proposal.json", "A single proposal taken from the search results.")
	clickGate = flags.String("gate", "", "The gate to book through, the first gate of the proposal when empty.")
	clickOut = flags.String("out", "ticket_link.html", "Where to write the ticket page.")
	clickBaseUrl = flags.String("base-url", aviasales.DefaultBaseUrl, "The base url of the aviasales API.")
	_ = flightsClickCmd.MarkFlagRequired("search-id")

	flightsCmd.AddCommand(flightsClickCmd)
}

var flightsClickCmd = &cobra.Command{
	Use:   "click --search-id <id> [--proposal proposal.json] [--gate <gate_id>] [--out ticket_link.html]",
	Short: "Resolves a proposal into a deeplink and writes a page that opens it with the tracking pixel.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		proposal, err := os.ReadFile(*clickProposal)
		if err != nil {
			return err
		}
		term, err := aviasales.SelectTerm(proposal, *clickGate)
		if err != nil {
			return fmt.Errorf("read %s: %w", *clickProposal, err)
		}

		client := aviasales.NewClient(aviasales.ClientOptions{
			BaseUrl: *clickBaseUrl,
			Output:  debugOutput("flights-click"),
		})
		click, err := client.Click(cmd.Context(), *clickSearchId, term)
		if err != nil {
			return err
		}

		t := newTable(cmd.OutOrStdout())
		t.AppendRows([]table.Row{
			{"Ticket link", click.TicketLink},
			{"Deeplink", click.Deeplink},
			{"click_id", click.ClickId},
			{"gate_id", term.GateId},
		})
		t.Render()

		var page bytes.Buffer
		err = aviasales.RenderTicketPage(&page, aviasales.PixelUrl(click.ClickId, term.GateId), click.Deeplink)
		if err != nil {
			return err
		}
		path, err := outputPath(*clickOut)
		if err != nil {
			return err
		}
		err = osutil.WriteFile(path, page.Bytes())
		if err != nil {
			return err
		}
		slog.Info("wrote ticket page", "path", path)
		return nil
	},
}
