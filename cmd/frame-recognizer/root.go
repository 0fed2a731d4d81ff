package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/frame-recognizer/internal/config"
	"github.com/ironsheep/frame-recognizer/internal/logger"
)

// app carries state shared by the subcommands.
type app struct {
	configPath string
	v          *viper.Viper
	cfg        *config.Config
}

// flagBindings maps global flags onto configuration keys.
var flagBindings = map[string]string{
	"crop-size":  "capture.crop_size",
	"classifier": "classifier.backend",
	"log-level":  "log.level",
	"log-json":   "log.json",
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "frame-recognizer",
		Short: "Recognise topic images in camera frames",
		Long: `frame-recognizer decides whether a camera frame shows one of a fixed set of
educational topics (Planet Earth, Human Brain, Human Heart) and reports the
3D model to present when it does.

Recognition crops the centre of the frame, rejects blank input, and runs
colour, edge and optional classifier checks for the selected topic.

Examples:
  frame-recognizer recognize --topic earth photo.jpg
  frame-recognizer recognize --topic brain --wait-classifier 10s diagram.png
  frame-recognizer serve                 # MCP server on stdio
  frame-recognizer topics`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default ./"+config.DefaultConfigName+" if present)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.Bool("log-json", false, "Write logs as JSON")
	flags.Int("crop-size", config.DefaultCropSize, "Side of the analysed centre square, in pixels")
	flags.String("classifier", config.BackendNone, "Classifier backend: none, gemini, ocr")

	root.AddCommand(
		newServeCmd(a),
		newRecognizeCmd(a),
		newTopicsCmd(a),
		newVersionCmd(),
	)
	return root
}

// load binds the global flags, reads configuration and sets up logging.
// Flags only override the file and environment when set explicitly.
func (a *app) load(cmd *cobra.Command) error {
	for flag, key := range flagBindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := a.v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "failed to bind --%s", flag)
		}
	}

	cfg, err := config.LoadInto(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Initialize(cfg.Log.Level, cfg.Log.JSON); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}
