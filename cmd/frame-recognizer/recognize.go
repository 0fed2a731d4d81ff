package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ironsheep/frame-recognizer/internal/capture"
	"github.com/ironsheep/frame-recognizer/internal/classifier"
	"github.com/ironsheep/frame-recognizer/internal/config"
	"github.com/ironsheep/frame-recognizer/internal/imaging"
	"github.com/ironsheep/frame-recognizer/internal/recognizer"
)

// errNotRecognized makes the process exit with exitNotRecognized.
var errNotRecognized = errors.New("frame not recognized")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newRecognizeCmd(a *app) *cobra.Command {
	var (
		topicName string
		wait      time.Duration
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "recognize --topic <topic> <image>",
		Short: "Run one recognition attempt against an image file",
		Long: `Treat an image file as the live camera frame and check it against a topic.

Exits 0 when the frame is recognised and 2 when it is not.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := recognizeFile(cmd.Context(), a.cfg, recognizer.ParseTopic(topicName), args[0], wait)
			if err != nil {
				return err
			}

			if jsonOut {
				out, err := json.MarshalIndent(recognizeOutput{Result: res, Message: res.Message()}, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to encode result")
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			} else {
				printResult(res)
			}

			if !res.Matched {
				return errNotRecognized
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&topicName, "topic", "t", "", "Topic id or title (earth, brain, heart)")
	cmd.Flags().DurationVar(&wait, "wait-classifier", 0, "Wait up to this long for the classifier to load before scanning")
	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

type recognizeOutput struct {
	recognizer.Result
	Message string `json:"message"`
}

// recognizeFile opens a session on path, optionally waits for the
// classifier, and scans once.
func recognizeFile(ctx context.Context, cfg *config.Config, topic recognizer.Topic, path string, wait time.Duration) (recognizer.Result, error) {
	if !topic.Known() {
		pterm.Warning.Printf("Unknown topic; known topics are %s\n", topicIDs())
	}

	loader, err := classifier.LoaderFor(cfg.Classifier)
	if err != nil {
		return recognizer.Result{}, err
	}
	opts := []recognizer.Option{recognizer.WithTopK(cfg.Classifier.TopK)}
	if loader != nil {
		opts = append(opts, recognizer.WithClassifierLoader(loader))
	}

	sess := recognizer.NewSession(topic,
		capture.NewFileSource(path, nil),
		imaging.NewPreprocessor(cfg.Capture.CropSize, cfg.Capture.JPEGQuality),
		opts...,
	)
	defer sess.Close()
	sess.Open()

	if wait > 0 && topic.UsesClassifier() && sess.Classifier() != nil {
		waitForClassifier(ctx, sess.Classifier(), wait)
	}

	return sess.Scan(ctx)
}

func waitForClassifier(ctx context.Context, models *classifier.Session, wait time.Duration) {
	spinner, _ := pterm.DefaultSpinner.Start("Loading classifier...")

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	if _, err := models.Wait(ctx); err != nil {
		spinner.Warning(fmt.Sprintf("Classifier not ready, using shape analysis only: %v", err))
		return
	}
	spinner.Success("Classifier ready")
}

func printResult(res recognizer.Result) {
	switch {
	case res.Matched:
		pterm.Success.Println(res.Message())
	case res.Outcome == recognizer.OutcomeNoContent:
		pterm.Warning.Println(res.Message())
	default:
		pterm.Info.Println(res.Message())
	}

	d := res.Diagnostics
	rows := pterm.TableData{
		{"Measure", "Value"},
		{"Attempt", res.AttemptID},
		{"Topic", res.Topic.Title()},
		{"Outcome", string(res.Outcome)},
		{"Confidence", fmt.Sprintf("%.1f%%", res.Confidence)},
		{"Content std dev", fmt.Sprintf("%.2f", d.ContentStdDev)},
	}
	if d.Earth != nil {
		rows = append(rows,
			[]string{"Blue", fmt.Sprintf("%.1f%%", d.Earth.BluePercent)},
			[]string{"Green", fmt.Sprintf("%.1f%%", d.Earth.GreenPercent)},
		)
	}
	if d.Heart != nil {
		rows = append(rows,
			[]string{"Bright red", fmt.Sprintf("%.1f%%", d.Heart.BrightRedPercent)},
			[]string{"Dark red", fmt.Sprintf("%.1f%%", d.Heart.DarkRedPercent)},
			[]string{"Skin", fmt.Sprintf("%.1f%%", d.Heart.SkinPercent)},
			[]string{"Blue", fmt.Sprintf("%.1f%%", d.Heart.BluePercent)},
		)
	}
	if d.OrganColorPercent != nil {
		rows = append(rows, []string{"Organ colour", fmt.Sprintf("%.1f%%", *d.OrganColorPercent)})
	}
	if d.Shape != nil {
		rows = append(rows,
			[]string{"Edge density", fmt.Sprintf("%.3f", d.Shape.EdgeDensity)},
			[]string{"Roundness", fmt.Sprintf("%.3f", d.Shape.Roundness)},
			[]string{"Complexity", fmt.Sprintf("%.1f", d.Shape.Complexity)},
		)
	}
	if d.ClassifierStatus != "" {
		rows = append(rows, []string{"Classifier", d.ClassifierStatus})
	}
	for _, p := range d.Predictions {
		rows = append(rows, []string{"  " + p.Label, fmt.Sprintf("%.1f%%", p.Probability*100)})
	}
	if res.ModelPath != "" {
		rows = append(rows, []string{"Model", res.ModelPath})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
