package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/ankivn/internal/config"
)

type configFlags struct {
	keys  []string
	deck  string
	model string
	show  bool
}

func newConfigCommand() *cobra.Command {
	cf := &configFlags{}
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Set the Gemini API keys, deck and model",
		Long: `config stores the settings in the config file. Without flags it asks
for each value; an empty answer keeps the current one.

Examples:
  ankivn config --key KEY1 --key KEY2 --deck "English Vocabulary"
  ankivn config --show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := config.NewStore(viper.GetViper())
			out := cmd.OutOrStdout()

			if cf.show {
				current, err := store.Load()
				if err != nil {
					return err
				}
				printSettings(out, current)
				return nil
			}

			// Edit what the file holds, not what env or flags override
			current, err := store.LoadFile()
			if err != nil {
				return err
			}

			next := current
			if !cmd.Flags().Changed("key") && !cmd.Flags().Changed("deck") && !cmd.Flags().Changed("model-name") {
				next = promptSettings(cmd.InOrStdin(), out, current)
			} else {
				if cmd.Flags().Changed("key") {
					next.Gemini.APIKeyPool = splitKeys(cf.keys)
					next.Gemini.APIKey = ""
				}
				if cmd.Flags().Changed("deck") {
					next.Anki.DeckName = cf.deck
				}
				if cmd.Flags().Changed("model-name") {
					next.Gemini.Model = cf.model
				}
			}

			saved, err := store.Save(next)
			if err != nil {
				return err
			}
			path := viper.ConfigFileUsed()
			if path == "" {
				path, _ = config.DefaultPath()
			}
			fmt.Fprintf(out, "Saved %d API key(s) and deck %q to %s\n", len(saved.Gemini.APIKeyPool), saved.Anki.DeckName, path)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&cf.keys, "key", nil, "Gemini API key, repeat or comma separate for a key pool")
	cmd.Flags().StringVar(&cf.deck, "deck", "", "Anki deck name")
	cmd.Flags().StringVar(&cf.model, "model-name", "", "Gemini model to store (--model only overrides it for one run)")
	cmd.Flags().BoolVar(&cf.show, "show", false, "Print the current settings")
	return cmd
}

func promptSettings(in io.Reader, out io.Writer, current config.Settings) config.Settings {
	reader := bufio.NewReader(in)
	ask := func(label, value string) string {
		fmt.Fprintf(out, "%s [%s]: ", label, value)
		line, _ := reader.ReadString('\n')
		return strings.TrimSpace(line)
	}

	next := current
	if keys := ask("Gemini API keys (comma separated)", fmt.Sprintf("%d configured", len(current.Keys()))); keys != "" {
		next.Gemini.APIKeyPool = splitKeys([]string{keys})
		next.Gemini.APIKey = ""
	}
	if deck := ask("Deck name", current.Anki.DeckName); deck != "" {
		next.Anki.DeckName = deck
	}
	if model := ask("Gemini model", current.Gemini.Model); model != "" {
		next.Gemini.Model = model
	}
	return next
}

func splitKeys(values []string) []string {
	var keys []string
	for _, v := range values {
		keys = append(keys, strings.Split(v, ",")...)
	}
	return lo.Map(keys, func(k string, _ int) string { return strings.TrimSpace(k) })
}

func printSettings(out io.Writer, s config.Settings) {
	fmt.Fprintf(out, "Config file:  %s\n", lo.Ternary(viper.ConfigFileUsed() != "", viper.ConfigFileUsed(), "(none)"))
	fmt.Fprintf(out, "Provider:     %s\n", s.Translation.Provider)
	fmt.Fprintf(out, "Mode:         %s\n", s.Translation.Mode)
	fmt.Fprintf(out, "Gemini model: %s\n", s.Gemini.Model)
	fmt.Fprintf(out, "Deck:         %s\n", s.Anki.DeckName)
	fmt.Fprintf(out, "AnkiConnect:  %s\n", s.Anki.URL)
	for i, key := range s.Keys() {
		fmt.Fprintf(out, "API key %d:    %s\n", i+1, maskKey(key))
	}
	if len(s.Keys()) == 0 {
		fmt.Fprintln(out, "API keys:     none")
	}
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
