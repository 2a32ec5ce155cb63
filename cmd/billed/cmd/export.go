package cmd

import (
	"fmt"

	"github.com/billed-app/billed/internal/export"
	"github.com/billed-app/billed/internal/listing"
	"github.com/spf13/cobra"
)

var exportOut string

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your expense notes to an Excel file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	controller := listing.NewController(newStore(), navigate, terminalModal{}, logger)

	bills, err := controller.GetBills(cmd.Context())
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = cfg.Export.OutputPath
	}

	writer := export.NewExcelWriter(logger)
	if err := writer.Write(bills, out); err != nil {
		return err
	}

	fmt.Printf("%d notes de frais exportées vers %s\n", len(bills), out)
	return nil
}
