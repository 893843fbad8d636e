package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ndtracks/pkg/config"
	"ndtracks/pkg/dataset"
	"ndtracks/pkg/visualization"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a track file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, _, err := loadLayer(cmd, opts, args[0])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(dataset.Summarize(layer))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newSliceCmd(opts *rootOptions) *cobra.Command {
	var at float64
	cmd := &cobra.Command{
		Use:   "slice <file>",
		Short: "List the observations at one time value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, _, err := loadLayer(cmd, opts, args[0])
			if err != nil {
				return err
			}
			span, ok := layer.Lookup(at)
			if !ok {
				return fmt.Errorf("no observations at time %v", at)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "time %v: %d observations, %d visible segments\n", at, span.Len(), len(layer.Segments(at)))
			labels, pos := layer.TrackLabels(at)
			for i, lbl := range labels {
				fmt.Fprintf(w, "%s\t%v\n", lbl, pos[i][1:])
			}
			return nil
		},
	}
	cmd.Flags().Float64VarP(&at, "time", "t", 0, "time value to slice at")
	return cmd
}

func newLineageCmd(opts *rootOptions) *cobra.Command {
	var id int
	cmd := &cobra.Command{
		Use:   "lineage <file>",
		Short: "Show parents, ancestors and descendants of a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, _, err := loadLayer(cmd, opts, args[0])
			if err != nil {
				return err
			}
			known := false
			for _, tid := range layer.TrackIDs() {
				known = known || tid == id
			}
			if !known {
				return fmt.Errorf("track %d not found", id)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "track %d\n", id)
			fmt.Fprintf(w, "parents:     %v\n", layer.Graph()[id])
			fmt.Fprintf(w, "ancestors:   %v\n", layer.Ancestors(id))
			fmt.Fprintf(w, "descendants: %v\n", layer.Descendants(id))
			return nil
		},
	}
	cmd.Flags().IntVar(&id, "track", 0, "track id")
	return cmd
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		outDir  string
		at      string
		colorBy string
	)
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render frames of a track file as PNG images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layer, cfg, err := loadLayer(cmd, opts, args[0])
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			if colorBy != "" {
				if err := layer.SetColorBy(colorBy); err != nil {
					return err
				}
			}
			if outDir == "" {
				outDir = cfg.Render.OutputDir
			}

			viewer, err := visualization.NewViewer(layer, &visualization.Options{
				Width:       cfg.Render.Width,
				Height:      cfg.Render.Height,
				PointRadius: cfg.Render.PointRadius,
				Background:  cfg.Render.Background,
				ShowGraph:   cfg.Render.ShowGraph,
				ShowLabels:  cfg.Render.ShowLabels,
			})
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			if at != "" {
				t, err := strconv.ParseFloat(at, 64)
				if err != nil {
					return fmt.Errorf("invalid --time: %w", err)
				}
				img, err := viewer.RenderFrame(t)
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, fmt.Sprintf("frame_t%s.png", at))
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return err
				}
				if err := viewer.SaveFrame(img, path); err != nil {
					return err
				}
				prog.done("Saved " + path)
				return nil
			}

			n, err := viewer.SaveFrameSequence(outDir)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Saved %d frames to %s", n, outDir))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	cmd.Flags().StringVarP(&at, "time", "t", "", "render only this time value")
	cmd.Flags().StringVar(&colorBy, "color-by", "", "property used for colouring")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init <path>",
		Short: "Write a configuration file with default values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CreateDefaultConfigFile(args[0]); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("Wrote default configuration", "path", args[0])
			return nil
		},
	})
	return cmd
}
