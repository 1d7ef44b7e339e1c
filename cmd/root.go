package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/photostudio/photostudio/internal/api"
	"github.com/photostudio/photostudio/internal/auth"
	"github.com/photostudio/photostudio/internal/config"
	"github.com/photostudio/photostudio/internal/i18n"
)

// rootOptions carries the persistent flags and the loaded configuration
type rootOptions struct {
	configPath string
	apiURL     string
	lang       string
	verbose    bool

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "photostudio",
		Short: "Command line client for the photo processing studio",
		Long: `Photostudio uploads images to the photo processing server and collects the results.

It supports background removal, collages, frames, retouching, person swap,
smart cropping and social media versions, one processing mode per run.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogger(opts.verbose)
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Processing server URL (overrides PHOTOSTUDIO_API_URL)")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", "", "Message language: ru or en (overrides PHOTOSTUDIO_LANG)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newModesCmd())
	cmd.AddCommand(newProcessCmd(opts))
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newLoginCmd(opts))
	cmd.AddCommand(newRegisterCmd(opts))
	cmd.AddCommand(newLogoutCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))

	return cmd
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	))
}

func (o *rootOptions) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.apiURL != "" {
		cfg.APIURL = o.apiURL
	}
	if o.lang != "" {
		cfg.Lang = o.lang
	}
	o.cfg = cfg
	slog.Debug("Loaded configuration", "api_url", cfg.APIURL, "lang", cfg.Lang, "token_file", cfg.TokenFile)
	return nil
}

func (o *rootOptions) printer() *i18n.Printer {
	return i18n.New(o.cfg.Lang)
}

func (o *rootOptions) tokenStore() (*auth.Store, error) {
	store, err := auth.NewStore(o.cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	return store, nil
}

func (o *rootOptions) client() (*api.Client, *auth.Store, error) {
	store, err := o.tokenStore()
	if err != nil {
		return nil, nil, err
	}
	return api.NewClient(o.cfg.APIURL, store), store, nil
}
