package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/billed-app/billed/internal/bill"
	"github.com/billed-app/billed/internal/listing"
	"github.com/billed-app/billed/internal/ui"
	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your expense notes",
	Long: `List your submitted expense notes, newest first, with localized
dates and statuses.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	controller := listing.NewController(newStore(), navigate, terminalModal{}, logger)

	// The three listing states are exclusive: loading while the fetch is in
	// flight, then either the error view or the populated table.
	render(ui.StateLoading, nil, nil)

	bills, err := controller.GetBills(cmd.Context())
	if err != nil {
		render(ui.StateError, nil, err)
		return err
	}
	render(ui.StatePopulated, bills, nil)
	return nil
}

func render(state ui.ViewState, bills []bill.Bill, err error) {
	switch state {
	case ui.StateLoading:
		fmt.Println("Chargement...")
	case ui.StateError:
		fmt.Fprintf(os.Stderr, "Erreur: %v\n", err)
	case ui.StatePopulated:
		if len(bills) == 0 {
			fmt.Println("Aucune note de frais")
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tNOM\tDATE\tMONTANT\tSTATUT")
		for _, b := range bills {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d €\t%s\n", b.Type, b.Name, b.Date, b.Amount, b.Status)
		}
		_ = w.Flush()
	}
}
