package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/ovumcy-insights/internal/cli"
	"github.com/terraincognita07/ovumcy-insights/internal/services"
)

func newAnalyzeCommand() *cobra.Command {
	var inputPath string

	command := &cobra.Command{
		Use:   "analyze",
		Short: "Predict a cycle from a JSON history file without a database",
		Example: `  ovumcy analyze --input history.json
  cat history.json | ovumcy analyze --input -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if inputPath != "-" {
				file, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("open history: %w", err)
				}
				defer file.Close()
				in = file
			}
			return cli.RunAnalyzeCommand(in, cmd.OutOrStdout(), services.CalendarDay(time.Now(), cfg.Location))
		},
	}
	command.Flags().StringVarP(&inputPath, "input", "i", "", "history file, or - for stdin")
	_ = command.MarkFlagRequired("input")
	return command
}
