package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/billed-app/billed/internal/newbill"
	"github.com/spf13/cobra"
)

var (
	newFile       string
	newType       string
	newName       string
	newAmount     string
	newDate       string
	newVAT        string
	newPct        string
	newCommentary string
)

// newCmd represents the new command.
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a new expense note",
	Long: `Create a new expense note: the receipt image is uploaded first,
then the completed record is submitted.

Accepted receipt formats: jpg, jpeg, png.

Example:
  billed new --file receipt.png --type Transports --name "Vol Paris Londres" \
    --amount 348 --date 2024-04-01 --vat 70 --pct 20`,
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&newFile, "file", "", "receipt image (jpg, jpeg or png)")
	newCmd.Flags().StringVar(&newType, "type", "", "expense category")
	newCmd.Flags().StringVar(&newName, "name", "", "expense label")
	newCmd.Flags().StringVar(&newAmount, "amount", "", "amount (TTC)")
	newCmd.Flags().StringVar(&newDate, "date", "", "expense date (YYYY-MM-DD)")
	newCmd.Flags().StringVar(&newVAT, "vat", "", "VAT amount")
	newCmd.Flags().StringVar(&newPct, "pct", "", "VAT percentage")
	newCmd.Flags().StringVar(&newCommentary, "commentary", "", "free commentary")
}

func runNew(cmd *cobra.Command, args []string) error {
	controller := newbill.NewController(newStore(), navigate, newSession(), logger)

	if newFile != "" {
		f, err := os.Open(newFile)
		if err != nil {
			return fmt.Errorf("failed to open receipt: %w", err)
		}
		defer f.Close()

		err = controller.HandleChangeFile(cmd.Context(), newbill.FileEvent{
			FileName: filepath.Base(newFile),
			File:     f,
		})
		if err != nil {
			return err
		}
		if controller.State() == newbill.StateRejected {
			return fmt.Errorf("unaccepted receipt format %q: use jpg, jpeg or png", filepath.Ext(newFile))
		}
	}

	form := newbill.Form{
		Type:       newType,
		Name:       newName,
		Amount:     newAmount,
		Date:       newDate,
		VAT:        newVAT,
		Pct:        newPct,
		Commentary: newCommentary,
	}
	if err := controller.HandleSubmit(cmd.Context(), form); err != nil {
		fmt.Fprintf(os.Stderr, "Erreur: %v\n", err)
		return err
	}

	fmt.Println("Note de frais envoyée")
	return nil
}
