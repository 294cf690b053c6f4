package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"concertcloud-cli/config"
	"concertcloud-cli/logger"
	"concertcloud-cli/service"
	"concertcloud-cli/tui"
)

var (
	Version = "dev"
	Commit  = "none"
)

// NewRootCmd builds the command tree. With no subcommand it starts the
// interactive browser.
func NewRootCmd() *cobra.Command {
	global := &globalFlags{}
	root := &cobra.Command{
		Use:           "concertcloud",
		Short:         "ConcertCloud tickets in the terminal",
		Long:          `Browse event listings and the venue seat map from the terminal.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, global)
		},
	}
	global.AddFlags(root.PersistentFlags())
	root.AddCommand(newListingsCmd(global), newMapCmd(global), newVersionCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, global *globalFlags) error {
	cfg, err := global.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	defer logger.Sync()

	filters := global.filters(cmd.Flags(), cfg)
	log := logger.WithComponent("tui")
	log.Info("session start", zap.String("api_url", cfg.APIURL), zap.Int("event_id", filters.EventID))

	model := tui.New(newClient(cfg), filters, log)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	return err
}

func newClient(cfg config.Config) *service.Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return service.NewClient(httpClient, cfg.APIURL).WithLogger(logger.WithComponent("service"))
}
