package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/clientcli"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	endpoint   string
	password   string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "iconbox-cli",
	Version: version,
	Short:   "Client for iconbox servers",
	Long: `iconbox-cli uploads, lists and downloads icons on an iconbox server.

Connection settings are merged from the profile in ~/.iconbox/config.yaml,
then ICONBOX_ENDPOINT and ICONBOX_PASSWORD, then flags. When an upload
needs a password and none is configured, it is prompted for.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.iconbox/config.yaml, env: ICONBOX_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (default: the default profile, env: ICONBOX_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:8080, env: ICONBOX_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "administrator password (env: ICONBOX_PASSWORD)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_ = getFormatter().FormatError(os.Stderr, err)
		os.Exit(1)
	}
}

// getConfigPath resolves the config file: flag, then ICONBOX_CONFIG, then the default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from file, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	explicit := cfgFile != "" || clientcli.ConfigPathFromEnv() != ""
	profileName := profile
	if profileName == "" {
		profileName = clientcli.ProfileFromEnv()
	}

	// 1. Load from config file
	if configPath := getConfigPath(); configPath != "" {
		file, err := clientcli.LoadConfigFile(configPath)
		switch {
		case err == nil:
			p, profileErr := file.GetProfile(profileName)
			if profileErr != nil && (profileName != "" || !errors.Is(profileErr, clientcli.ErrNoProfiles)) {
				return nil, profileErr
			}
			configs = append(configs, clientcli.ConfigFromProfile(p))
		case explicit || profileName != "":
			// Only error if user explicitly asked for a file or profile
			return nil, err
		}
	}

	// 2. Load from environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &clientcli.Config{
		Endpoint: endpoint,
		Password: password,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates a client. When needPassword is set and no password is
// configured, the password is prompted for.
func getClient(needPassword bool) (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	if needPassword && cfg.Password == "" {
		cfg.Password, err = promptPassword(fmt.Sprintf("Password for %s", cfg.WithDefaults().Endpoint))
		if err != nil {
			return nil, err
		}
	}

	return clientcli.New(cfg)
}

func promptPassword(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(input string) error {
			if input == "" {
				return clientcli.ErrPasswordRequired
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
			return "", errors.New("cancelled")
		}
		return "", fmt.Errorf("read password: %w", err)
	}
	return value, nil
}

// copyOut streams r to stdout.
func copyOut(r io.Reader) error {
	_, err := io.Copy(os.Stdout, r)
	return err
}
