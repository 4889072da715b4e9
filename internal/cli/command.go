package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/ankivn/internal"
	"codeberg.org/snonux/ankivn/internal/config"
)

// AutoPackageName is the --apkg value when the flag is given without a file
// name. The package is then named after the deck.
const AutoPackageName = "auto"

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ankivn [word]",
		Short: "English-Vietnamese Anki Cloze Card Generator",
		Long: `ankivn adds English vocabulary cloze cards with Vietnamese meanings to Anki.

It translates the word with Gemini, looks up IPA, word type, an example
sentence and syllables, downloads a pronunciation recording and submits
the note through the AnkiConnect add-on.

Examples:
  ankivn running                  # Add "running" with its automatic translation
  ankivn bank --meaning "bờ sông" # Add "bank" with your own meaning
  ankivn bank --custom            # Ask for the meaning interactively
  ankivn --batch words.txt        # Process multiple words from file
  ankivn --batch words.txt --apkg vocab.apkg  # Write a package instead of using Anki
  ankivn serve                    # Serve the HTTP API for the browser extension`,
		Args:         cobra.MaximumNArgs(1),
		Version:      internal.Version,
		SilenceUsage: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.ankivn.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")
	cmd.PersistentFlags().StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Anki deck to add notes to")
	cmd.PersistentFlags().StringVar(&flags.Model, "model", flags.Model, "Gemini model used for translation")
	cmd.PersistentFlags().StringVar(&flags.Provider, "provider", flags.Provider, "Translation backend: gemini or openai")
	cmd.PersistentFlags().StringVar(&flags.Mode, "mode", flags.Mode, "Translation requests: split (translate, then enrich) or combined")
	cmd.PersistentFlags().BoolVar(&flags.TTSFallback, "tts-fallback", false, "Synthesize speech with OpenAI when no recording is found")
	cmd.PersistentFlags().BoolVar(&flags.NoAudio, "no-audio", false, "Skip pronunciation audio")

	// Local flags
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process words from file (one per line, optionally \"word = nghĩa\")")
	cmd.Flags().StringVarP(&flags.Meaning, "meaning", "m", "", "Use this Vietnamese meaning instead of translating")
	cmd.Flags().BoolVarP(&flags.Custom, "custom", "c", false, "Ask for the Vietnamese meaning (enter ! for the automatic one)")
	cmd.Flags().StringVar(&flags.APKG, "apkg", "", "Write notes to this Anki package instead of AnkiConnect")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available models for the current API key")
	cmd.Flags().Lookup("apkg").NoOptDefVal = AutoPackageName

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("anki.deck_name", cmd.PersistentFlags().Lookup("deck-name"))
	viper.BindPFlag("gemini.model", cmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("translation.provider", cmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("translation.mode", cmd.PersistentFlags().Lookup("mode"))
	viper.BindPFlag("audio.tts_fallback", cmd.PersistentFlags().Lookup("tts-fallback"))
	viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// .env values become regular environment variables
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := config.Configure(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		return
	}

	if used := viper.ConfigFileUsed(); used != "" {
		if _, err := os.Stat(used); err == nil {
			fmt.Fprintln(os.Stderr, "Using config file:", used)
		}
	}
}
