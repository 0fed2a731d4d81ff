package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ironsheep/frame-recognizer/internal/recognizer"
)

func topicIDs() string {
	var ids []string
	for _, t := range recognizer.Topics() {
		ids = append(ids, t.String())
	}
	return strings.Join(ids, ", ")
}

func newTopicsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List recognisable topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := pterm.TableData{{"ID", "Title", "Model", "Classifier", "Hint"}}
			for _, t := range recognizer.Topics() {
				info := t.Info()
				uses := "no"
				if t.UsesClassifier() {
					uses = "yes (" + a.cfg.Classifier.Backend + ")"
				}
				rows = append(rows, []string{info.ID, info.Title, info.ModelPath, uses, info.Hint})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// No configuration needed.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "frame-recognizer %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
