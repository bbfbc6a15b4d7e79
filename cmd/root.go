package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"nfogen/internal/config"
	"nfogen/internal/correct"
	"nfogen/internal/generator"
	"nfogen/internal/nfoerr"
	"nfogen/internal/sites/ckdownload"
	"nfogen/internal/sites/gaytorrents"
	"nfogen/internal/sites/trancevideo"
)

var (
	flagSite         string
	flagOutput       string
	flagMode         string
	flagNoManual     bool
	flagConfig       string
	flagCreateConfig bool
	flagVerbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "nfogen [url]",
	Short: "Generate NFO metadata files from content site product pages",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGenerate,
}

func init() {
	rootCmd.Flags().StringVarP(&flagSite, "site", "s", "", "site key (default: detect from URL)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output filename (default: derived from the title)")
	rootCmd.Flags().StringVarP(&flagMode, "mode", "m", "", "run mode: auto, manual or interactive")
	rootCmd.Flags().BoolVar(&flagNoManual, "no-manual", false, "skip manual correction (implies auto mode)")
	rootCmd.Flags().BoolVar(&flagCreateConfig, "create-config", false, "create the default config file and exit")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "config.json", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// newRegistry builds the site table. Registration order is the URL
// dispatch tie-break; keep the more specific tokens where they need to be
// tried.
func newRegistry(deps generator.Deps) *generator.Registry {
	reg := generator.NewRegistry(deps)
	reg.Register("ck-download", deps.Config.SiteOrDefault("ck-download").Domain, ckdownload.New)
	reg.Register("trance-video", deps.Config.SiteOrDefault("trance-video").Domain, trancevideo.New)
	reg.Register("gay-torrents", deps.Config.SiteOrDefault("gay-torrents").Domain, gaytorrents.New)
	return reg
}

func loadDeps() (generator.Deps, error) {
	cfg, err := config.LoadMerged(flagConfig, config.Options{
		Mode:     flagMode,
		NoManual: flagNoManual,
	})
	if err != nil {
		return generator.Deps{}, err
	}

	log := newLogger()
	fetch := generator.NewFetcher(generator.FetcherOptions{
		UserAgent:     cfg.General.UserAgent,
		Timeout:       time.Duration(cfg.General.Timeout) * time.Second,
		RetryAttempts: cfg.General.RetryAttempts,
		Logger:        log,
	})

	return generator.Deps{
		Config:   cfg,
		Fetcher:  fetch,
		Provider: correct.NewTerminal(),
		Logger:   log,
	}, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if flagCreateConfig {
		if err := config.WriteDefault(flagConfig); err != nil {
			return err
		}
		fmt.Println("Config created at:", flagConfig)
		return nil
	}

	if len(args) == 0 {
		return errors.New("missing URL (see --help)")
	}
	rawURL := args[0]

	deps, err := loadDeps()
	if err != nil {
		return err
	}
	reg := newRegistry(deps)

	var gen *generator.Generator
	if flagSite != "" {
		gen, err = reg.Create(flagSite)
		if err != nil {
			return err
		}
	} else {
		var ok bool
		gen, ok, err = reg.CreateFromURL(rawURL)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no registered site matches %s (use --site, one of %v)", rawURL, reg.Sites())
		}
	}

	if flagOutput != "" {
		gen.SetOutput(flagOutput)
	}

	deps.Logger.Info().Str("site", gen.Key()).Str("url", rawURL).Msg("starting run")

	path, err := gen.Run(context.Background(), rawURL)
	if err != nil {
		if errors.Is(err, nfoerr.ErrAborted) {
			return errors.New("cancelled, no file written")
		}
		return err
	}

	fmt.Println(path)
	return nil
}
