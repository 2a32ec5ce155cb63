// Package cmd provides the CLI commands of the billed client.
package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/billed-app/billed/internal/config"
	"github.com/billed-app/billed/internal/session"
	"github.com/billed-app/billed/internal/store"
	"github.com/billed-app/billed/internal/ui"
	"github.com/billed-app/billed/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "billed",
	Short: "Manage your expense notes",
	Long: `billed is the employee client for the Billed expense-notes backend.

It lists your submitted expense notes and creates new ones with an
attached receipt image.

Example:
  billed list
  billed new --file receipt.png --type Transports --name "Vol Paris Londres" --amount 348 --date 2024-04-01
  billed export --out bills.xlsx`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "config file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(exportCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	// A local .env may carry BILLED_TOKEN and friends.
	_ = gotenv.Load()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err = utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func newStore() store.Store {
	s := store.NewHTTPStore(cfg.Store.BaseURL, cfg.Store.Token, logger)
	if cfg.Store.Timeout > 0 {
		s.SetHTTPClient(&http.Client{Timeout: cfg.Store.Timeout})
	}
	return s
}

func newSession() session.Session {
	return session.Session{
		Email: cfg.Session.Email,
		Token: cfg.Store.Token,
	}
}

// navigate is the CLI rendition of route changes: it just announces the
// destination view.
func navigate(route ui.Route) {
	fmt.Fprintf(os.Stdout, "→ %s\n", route)
}

// terminalModal renders the receipt preview as a printed URL.
type terminalModal struct{}

func (terminalModal) Show(imageURL string) {
	if imageURL == "" {
		fmt.Println("Justificatif: (aucun fichier)")
		return
	}
	fmt.Printf("Justificatif: %s\n", imageURL)
}
