package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/ankivn/internal"
	"codeberg.org/snonux/ankivn/internal/cli"
	"codeberg.org/snonux/ankivn/internal/config"
	"codeberg.org/snonux/ankivn/internal/models"
	"codeberg.org/snonux/ankivn/internal/processor"
	"codeberg.org/snonux/ankivn/internal/translation"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}
	rootCmd.AddCommand(newServeCommand(flags), newConfigCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup loads the settings and wires the application.
func setup(flags *cli.Flags) (*cli.Components, *logrus.Logger, error) {
	store := config.NewStore(viper.GetViper())
	settings, err := store.Load()
	if err != nil {
		return nil, nil, err
	}

	level := settings.Log.Level
	if flags.Verbose {
		level = "debug"
	}
	log, err := cli.NewLogger(level, settings.Log.Format)
	if err != nil {
		return nil, nil, err
	}

	c, err := cli.Build(settings, store, flags, log)
	if err != nil {
		return nil, nil, err
	}
	return c, log, nil
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()

	c, log, err := setup(flags)
	if err != nil {
		return err
	}

	// Handle --list-models flag
	if flags.ListModels {
		return listModels(ctx, c.Settings)
	}

	switch {
	case flags.BatchFile != "":
		// Process batch file
		summary, err := c.Pipeline.ProcessBatch(ctx, flags.BatchFile)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"added": summary.Added, "failed": summary.Failed}).Debug("Batch finished")
	case len(args) > 0:
		// Process single word
		if err := addSingleWord(ctx, c.Pipeline, args[0], flags); err != nil {
			return err
		}
	default:
		return cmd.Help()
	}

	// Write the Anki package if requested
	if c.Package != nil {
		return writePackage(c, flags.APKG)
	}
	return nil
}

func addSingleWord(ctx context.Context, pipeline *processor.Pipeline, word string, flags *cli.Flags) error {
	if flags.Meaning != "" {
		r := pipeline.AddWordWithMeaning(ctx, word, flags.Meaning)
		if !r.Success {
			return r.Err
		}
		fmt.Printf(processor.MsgAdded+"\n", r.Word, r.Translation)
		return nil
	}

	// Notices are printed by the terminal UI
	r := pipeline.HandleSelection(ctx, processor.Selection{Text: word, Custom: flags.Custom})
	if r.Success || errors.Is(r.Err, processor.ErrCancelled) {
		return nil
	}
	if r.Err == nil {
		return errors.New(processor.MsgFailed)
	}
	return r.Err
}

func writePackage(c *cli.Components, path string) error {
	if c.Package.Len() == 0 {
		fmt.Println("No notes were added, skipping the Anki package.")
		return nil
	}
	if path == cli.AutoPackageName {
		path = internal.PackageName(c.Pipeline.Deck())
	}

	fmt.Printf("\nGenerating Anki package...\n")
	if err := c.Package.Write(path); err != nil {
		return fmt.Errorf("failed to generate Anki package: %w", err)
	}
	fmt.Printf("Anki package created: %s (%d notes)\n", path, c.Package.Len())
	return nil
}

func listModels(ctx context.Context, settings config.Settings) error {
	var (
		lister  models.Lister
		title   string
		current string
	)
	if strings.EqualFold(strings.TrimSpace(settings.Translation.Provider), "openai") {
		if settings.OpenAI.APIKey == "" {
			return errors.New("OpenAI API key is required (set openai.api_key or ANKIVN_OPENAI_API_KEY)")
		}
		lister = models.NewOpenAILister(settings.OpenAI.APIKey, settings.OpenAI.BaseURL, nil)
		title = "Available OpenAI chat models"
		current = settings.OpenAI.Model
		if current == "" {
			current = translation.DefaultOpenAIModel
		}
	} else {
		keys := settings.Keys()
		if len(keys) == 0 {
			return config.ErrNoKeys
		}
		lister = models.NewGeminiLister(keys[0], settings.Gemini.BaseURL, nil)
		title = "Available Gemini models"
		current = settings.Gemini.Model
	}

	names, err := lister.List(ctx)
	if err != nil {
		return err
	}
	models.Print(os.Stdout, title, names, current)
	return nil
}
