package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	Home     string
	Dir      string
	Verbose  bool
	LogLevel string

	// Glossary options, also readable from the project and global config
	Glossary       string
	SourceLanguage string
	TargetLanguage string
	NoRegister     bool
	Force          bool
	Global         bool

	// Subcommand flags
	Note    string
	Rebuild bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel: "warn",
	}
}
