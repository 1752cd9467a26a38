package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"

	cmdcore "github.com/projecteru2/preload/cmd/core"
	"github.com/projecteru2/preload/config"
	"github.com/projecteru2/preload/export"
	"github.com/projecteru2/preload/fetch"
	filefetch "github.com/projecteru2/preload/fetch/file"
	httpfetch "github.com/projecteru2/preload/fetch/http"
	"github.com/projecteru2/preload/preload"
	"github.com/projecteru2/preload/presenter"
	logpresenter "github.com/projecteru2/preload/presenter/log"
	"github.com/projecteru2/preload/presenter/tui"
	"github.com/projecteru2/preload/progress"
	fetchProgress "github.com/projecteru2/preload/progress/fetch"
	preloadProgress "github.com/projecteru2/preload/progress/preload"
	"github.com/projecteru2/preload/types"
)

type Handler struct {
	cmdcore.BaseHandler
}

func (h Handler) Fetch(cmd *cobra.Command, args []string) error {
	ctx, conf, err := h.Init(cmd)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, conf); err != nil {
		return err
	}

	locators := args
	if list, _ := cmd.Flags().GetString("list"); list != "" {
		extra, err := cmdcore.ReadLocators(list)
		if err != nil {
			return err
		}
		locators = append(locators, extra...)
	}
	if len(locators) == 0 {
		return fmt.Errorf("no locators given")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := log.WithFunc("cmd.fetch")
	tracker := progress.Multi(
		progress.NewTracker(func(e fetchProgress.Event) {
			if e.Done {
				logger.Debugf(ctx, "read %s: %d bytes", e.Locator, e.BytesDone)
			}
		}),
		progress.NewTracker(func(e preloadProgress.Event) {
			if e.Phase == preloadProgress.PhaseSettle {
				logger.Debugf(ctx, "session %s: %d%% (%d/%d settled)", e.Session, e.Percent, e.Loaded+e.Failed, e.Total)
			}
		}),
	)

	pres := h.presenter(ctx, cmd, cancel)
	loader := preload.New(fetch.Mux{
		HTTP:  httpfetch.New(conf.Fetch, nil),
		Local: filefetch.New(conf.Fetch),
	}, pres, conf.Preload, preload.WithTracker(tracker))

	res, err := run(ctx, loader, locators)
	loader.Hide()
	loader.Remove()
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		// An interrupted run still exports what settled.
		m, err := export.Write(context.WithoutCancel(ctx), out, res)
		if err != nil {
			return fmt.Errorf("export to %s: %w", out, err)
		}
		logger.Infof(ctx, "exported %d images to %s", m.Loaded, out)
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		printSummary(cmd.OutOrStdout(), res)
	}
	return nil
}

// run starts the session and waits for its completion regardless of ctx:
// canceling ctx fails the unsettled fetches, it does not abandon the session.
func run(ctx context.Context, loader *preload.Loader, locators []string) (preload.Result, error) {
	done := make(chan preload.Result, 1)
	if err := loader.Preload(ctx, locators, func(all, loaded, failed []*types.Image) {
		done <- preload.Result{All: all, Loaded: loaded, Failed: failed}
	}); err != nil {
		return preload.Result{}, err
	}
	return <-done, nil
}

// presenter picks the overlay when stderr is a terminal, unless a flag overrides it.
func (h Handler) presenter(ctx context.Context, cmd *cobra.Command, interrupt func()) presenter.Presenter {
	useTUI := cmdcore.IsTerminal(os.Stderr)
	if cmd.Flags().Changed("tui") {
		useTUI, _ = cmd.Flags().GetBool("tui")
	}
	if noTUI, _ := cmd.Flags().GetBool("no-tui"); noTUI {
		useTUI = false
	}
	if !useTUI {
		return logpresenter.New(ctx, 0)
	}
	return tui.New(tui.Options{Output: os.Stderr, OnInterrupt: interrupt})
}

// applyFlags layers explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, conf *config.Config) error {
	flags := cmd.Flags()
	var patch config.Options
	if flags.Changed("idle") {
		d, _ := flags.GetDuration("idle")
		if d == 0 {
			// zero means "use the default" in Options; an explicit 0 means no wait.
			d = -1
		}
		patch.CompleteIdleTime = d
	}
	if flags.Changed("loading-message") {
		patch.LoadingMessage, _ = flags.GetString("loading-message")
	}
	if flags.Changed("failure-message") {
		patch.LoadingFailureMessage, _ = flags.GetString("failure-message")
	}
	conf.Preload = conf.Preload.Merge(patch)

	if flags.Changed("max-size") {
		s, _ := flags.GetString("max-size")
		n, err := cmdcore.ParseSize(s)
		if err != nil {
			return err
		}
		if n <= 0 {
			return fmt.Errorf("--max-size must be positive")
		}
		conf.Fetch.MaxBytes = n
	}
	if flags.Changed("timeout") {
		conf.Fetch.Timeout, _ = flags.GetDuration("timeout")
	}
	conf.Normalize()
	return nil
}

func printSummary(out io.Writer, res preload.Result) {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0) //nolint:mnd
	_, _ = fmt.Fprintln(w, "STATUS\tLOCATOR\tFORMAT\tSIZE\tDIMENSIONS\tDETAIL")
	for _, img := range res.All {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			status(img), img.Locator, orDash(img.Format), size(img), dimensions(img), detail(img))
	}
	_ = w.Flush()
	_, _ = fmt.Fprintf(out, "\n%d loaded, %d failed, %d total\n", len(res.Loaded), len(res.Failed), len(res.All))
}

func status(img *types.Image) string {
	if img.Loaded() {
		return "loaded"
	}
	return "failed"
}

func size(img *types.Image) string {
	if !img.Loaded() {
		return "-"
	}
	return cmdcore.FormatSize(img.Size)
}

func dimensions(img *types.Image) string {
	if !img.Loaded() {
		return "-"
	}
	return fmt.Sprintf("%dx%d", img.Width, img.Height)
}

func detail(img *types.Image) string {
	switch {
	case img.Err == nil:
		return img.Digest.Short()
	case errors.Is(img.Err, context.Canceled):
		return "canceled"
	default:
		return strings.ReplaceAll(img.Err.Error(), "\t", " ")
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
