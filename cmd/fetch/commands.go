package fetch

import (
	"github.com/spf13/cobra"
)

// Actions defines the preload operations.
type Actions interface {
	Fetch(cmd *cobra.Command, args []string) error
}

// Command builds the "fetch" command.
func Command(h Actions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [flags] LOCATOR...",
		Short: "Preload images from URLs or local paths and report the outcome",
		Long: `Fetch every locator in parallel, showing a progress overlay while they load.
Locators are http(s) URLs, file:// URLs or local paths. Individual failures are
reported in the summary and never change the exit code.`,
		RunE: h.Fetch,
	}
	cmd.Flags().StringP("output", "o", "", "export loaded images and a manifest into this directory")
	cmd.Flags().StringP("list", "f", "", "read additional locators from file, one per line (- for stdin)")
	cmd.Flags().Bool("tui", false, "force the terminal overlay")
	cmd.Flags().Bool("no-tui", false, "never draw the terminal overlay, log progress instead")
	cmd.Flags().Duration("idle", 0, "delay between the last settlement and completion (negative: none)")
	cmd.Flags().String("loading-message", "", "loading text, {total} is replaced by the image count")
	cmd.Flags().String("failure-message", "", "failure text, {total} is replaced by the failure count")
	cmd.Flags().String("max-size", "", "largest accepted image, e.g. 64MiB")
	cmd.Flags().Duration("timeout", 0, "per-request HTTP timeout")
	cmd.Flags().Bool("quiet", false, "suppress the summary table")
	cmd.MarkFlagsMutuallyExclusive("tui", "no-tui")
	return cmd
}
