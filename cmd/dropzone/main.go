// Command dropzone serves and renders the dropzone upload widget.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vango-dev/dropzone/internal/config"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "dropzone",
		Short: "Drag-and-drop upload widget",
		Long: `dropzone serves a drag-and-drop upload widget backed by local disk
or S3, and renders the widget's HTML for embedding elsewhere.

Settings come from flags, DROPZONE_* environment variables and an
optional config file, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (JSON, YAML or TOML)")

	root.AddCommand(
		serveCmd(&configPath),
		renderCmd(&configPath),
		versionCmd(),
	)
	return root
}

// loadConfig binds cmd's flags and loads the configuration.
func loadConfig(cmd *cobra.Command, path string) (config.Config, error) {
	v := viper.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, err
	}
	return config.Load(v, path)
}

// widgetFlags registers the flags shared by serve and render.
func widgetFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("multiple", true, "Accept more than one file per drop")
	f.Bool("upload-immediately", false, "Upload as soon as files are dropped")
	f.String("label", "", "Label text")
	f.String("subtitle", "", "Hint shown under the label")
	f.StringSlice("accept", nil, `Accepted types, e.g. "image/*" or "application/pdf=.pdf"`)
	f.Int64("max-file-size", 10<<20, "Largest accepted file in bytes")
}
