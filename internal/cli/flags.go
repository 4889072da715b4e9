package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	BatchFile  string
	Meaning    string
	Custom     bool
	APKG       string
	ListModels bool
	NoAudio    bool
	Verbose    bool
	LogFormat  string

	// Overrides of config file values
	DeckName    string
	Model       string
	Provider    string
	Mode        string
	TTSFallback bool

	// serve command
	ServerAddr string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogFormat:  "text",
		DeckName:   "English Vocabulary",
		Model:      "gemini-2.5-flash",
		Provider:   "gemini",
		Mode:       "split",
		ServerAddr: "127.0.0.1:8766",
	}
}
