// Package commands implements the CLI command structure using Cobra.
package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenlabs/lumen-go/cli/config"
	"github.com/lumenlabs/lumen-go/cli/keystore"
	"github.com/lumenlabs/lumen-go/lumen"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// ClientFactory creates an API client using CLI config context.
type ClientFactory func(apiKey string, cfg *config.Config) (*lumen.Client, error)

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig  ConfigLoader
	newClient   ClientFactory
	newKeystore KeystoreFactory
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer

	cfgFile    string
	model      string
	jsonOutput bool
	verbose    bool
	cfg        *config.Config

	runPrompt      string
	runSystem      string
	runTemperature float32
	runMaxTokens   int
	runStream      bool

	uploadDisplayName string
	uploadWait        bool
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithClientFactory injects a client factory dependency.
func WithClientFactory(factory ClientFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newClient = factory
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:  config.LoadConfig,
		newClient:   defaultClientFactory,
		newKeystore: keystore.NewKeystore,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func defaultClientFactory(apiKey string, cfg *config.Config) (*lumen.Client, error) {
	var opts []lumen.Option
	if cfg != nil && cfg.BaseURL != "" {
		opts = append(opts, lumen.WithBaseURL(cfg.BaseURL))
	}
	return lumen.New(apiKey, opts...), nil
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "lumen",
		Short: "Lumen - Go SDK and CLI for the Lumen API",
		Long: `Lumen is a command-line interface for the Lumen generative AI API.

Use it to manage API keys, run streamed interactions, and work with files.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage: true,
	}

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.lumen/config.yaml)")
	root.PersistentFlags().StringVar(&a.model, "model", "", "model ID (e.g. lumen-2-flash)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newRunCommand())
	root.AddCommand(a.newFilesCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.root.Execute()
}

func (a *App) initConfig() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Apply config defaults if flags not set.
	if a.model == "" && cfg.DefaultModel != "" {
		a.model = cfg.DefaultModel
	}

	return nil
}

// apiKey resolves the API key: LUMEN_API_KEY env first, then the keystore.
func (a *App) apiKey() (string, error) {
	if key := os.Getenv("LUMEN_API_KEY"); key != "" {
		return key, nil
	}

	ks, err := a.newKeystore()
	if err != nil {
		return "", err
	}

	ref := "default"
	if a.cfg != nil {
		ref = a.cfg.KeyRef()
	}
	return ks.Get(ref)
}

// client builds an API client after resolving the key.
func (a *App) client() (*lumen.Client, error) {
	key, err := a.apiKey()
	if err != nil {
		return nil, err
	}
	return a.newClient(key, a.cfg)
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
