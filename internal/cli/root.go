package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ndtracks/pkg/config"
	"ndtracks/pkg/dataset"
	"ndtracks/pkg/tracks"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	verbose    bool
	configPath string
}

// Execute runs the ndtracks CLI
func Execute() error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background())
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "ndtracks",
		Short:        "Inspect and render space-time track data",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(stderr, level)))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "ndtracks.yaml", "configuration file")

	root.AddCommand(newInfoCmd(opts))
	root.AddCommand(newSliceCmd(opts))
	root.AddCommand(newLineageCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newConfigCmd())

	return root
}

// loadLayer reads the config and the track file and builds the layer
func loadLayer(cmd *cobra.Command, opts *rootOptions, path string) (*tracks.Layer, *config.Config, error) {
	logger := loggerFromContext(cmd.Context())

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Output.Verbose {
		logger.SetLevel(charmlog.DebugLevel)
	}

	prog := newProgress(logger)
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, nil, err
	}
	params := cfg.LayerParams()
	params.Logger = logger
	layer, err := ds.NewLayer(params)
	if err != nil {
		return nil, nil, fmt.Errorf("error building tracks layer: %w", err)
	}
	prog.done(fmt.Sprintf("Loaded %d observations in %d tracks", layer.Len(), len(layer.TrackIDs())))
	return layer, cfg, nil
}
