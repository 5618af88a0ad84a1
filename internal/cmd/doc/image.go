package doc

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/richtext-cli/internal/script"
	"github.com/open-cli-collective/richtext-cli/internal/workspace"
)

type mediaOptions struct {
	globalOptions
	sel  selectorFlags
	step script.MediaStep
}

// NewCmdImage creates the doc image command.
func NewCmdImage() *cobra.Command {
	return newMediaCmd("image", "Insert an image", `  # Insert an image, height follows the probed aspect ratio
  rte doc image notes.html --src https://example.com/cat.png --width 320

  # Fix both dimensions
  rte doc image notes.html --src cat.png --width 320 --height 100 --no-lock`)
}

// NewCmdMedia creates the doc media command.
func NewCmdMedia() *cobra.Command {
	return newMediaCmd("media", "Insert an embedded media object", `  # Embed a video
  rte doc media notes.html --src https://example.com/clip.mp4 --width 640 --height 360 --no-lock`)
}

func newMediaCmd(kind, short, example string) *cobra.Command {
	opts := &mediaOptions{}

	cmd := &cobra.Command{
		Use:   kind + " <file>",
		Short: short,
		Long: short + ` at the selection. Without selector flags it goes at the
end of the document.

Remote and data: sources are probed for their natural size. While the
aspect ratio is locked, setting one dimension derives the other.`,
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.bind(cmd)
			return runMedia(cmd.Context(), kind, args[0], opts, nil)
		},
	}

	opts.sel.register(cmd)
	cmd.Flags().StringVar(&opts.step.Src, "src", "", "Source URL (required)")
	cmd.Flags().StringVar(&opts.step.Alt, "alt", "", "Alternative text")
	cmd.Flags().StringVar(&opts.step.Width, "width", "", "Width in pixels")
	cmd.Flags().StringVar(&opts.step.Height, "height", "", "Height in pixels")
	cmd.Flags().BoolVar(&opts.step.NoLock, "no-lock", false, "Do not keep the aspect ratio")
	_ = cmd.MarkFlagRequired("src")

	return cmd
}

func runMedia(ctx context.Context, kind, path string, opts *mediaOptions, ws *workspace.Workspace) error {
	ws, err := opts.open(ctx, path, ws)
	if err != nil {
		return err
	}
	sel, err := opts.sel.caret(ws.Doc)
	if err != nil {
		return err
	}

	media := opts.step
	step := script.Step{Image: &media}
	if kind == "media" {
		step = script.Step{Media: &media}
	}
	applied, err := apply(ctx, ws, sel, step)
	if err != nil {
		return err
	}
	return commit(ctx, ws, &opts.globalOptions, kind+" "+media.Src, applied)
}
