package cmd

import (
	"fmt"
	"image/png"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Beastly713/shadowshare/pkg/bitmap"
	"github.com/Beastly713/shadowshare/pkg/stego"
)

// inspectSlots is how many hidden bytes inspect prints.
const inspectSlots = 16

var inspectPNG string

var inspectCmd = &cobra.Command{
	Use:   "inspect [file.bmp]",
	Short: "Show the header and shadow metadata of a BMP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := bitmap.Load(appFS, args[0])
		if err != nil {
			return err
		}
		h := &img.Header

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "File:\t%s\n", args[0])
		fmt.Fprintf(w, "Dimensions:\t%dx%d\n", h.Width, h.Height)
		fmt.Fprintf(w, "Bits per pixel:\t%d\n", h.BitsPerPixel)
		fmt.Fprintf(w, "Compression:\t%d\n", h.Compression)
		fmt.Fprintf(w, "Pixel data:\t%d bytes at offset %d\n", len(img.Pixels), h.PixelOffset)
		fmt.Fprintf(w, "Colors used:\t%d (%d important)\n", h.ColorsUsed, h.ColorsImportant)
		fmt.Fprintf(w, "Shadow index:\t%d\n", h.ShadowIndex())
		fmt.Fprintf(w, "Seed:\t%d\n", h.Seed())
		fmt.Fprintf(w, "Secret:\t%dx%d (%d bytes)\n", h.SecretWidth(), h.SecretHeight(), h.SecretSize())
		fmt.Fprintf(w, "Slot capacity:\t%d\n", stego.Capacity(img.Pixels))
		head, err := stego.Extract(img.Pixels, min(inspectSlots, stego.Capacity(img.Pixels)))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "First slots:\t% x\n", head)
		if err := w.Flush(); err != nil {
			return err
		}

		if inspectPNG != "" {
			if err := writePNG(img, inspectPNG); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote preview %s\n", inspectPNG)
		}
		return nil
	},
}

func writePNG(img *bitmap.Image, path string) (err error) {
	m, err := img.Decoded()
	if err != nil {
		return err
	}

	f, err := appFS.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	logger.Debug("encoding preview", zap.String("path", path))
	if err := png.Encode(f, m); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectPNG, "png", "", "Also write the image as PNG to this path")
}
