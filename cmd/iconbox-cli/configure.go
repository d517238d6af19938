package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/iconbox/clientcli"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage server profiles",
	Long: `Manage server profiles in the configuration file.

Profiles save the endpoint and password of iconbox servers. Switch between
them with --profile or ICONBOX_PROFILE.

Configuration is stored in ~/.iconbox/config.yaml`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured profiles",
	Long: `List all profiles configured in the config file.

The default profile is marked with an asterisk (*).`,
	Args: cobra.NoArgs,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or update a profile",
	Long: `Add a profile interactively.

You will be prompted for:
  - Endpoint URL
  - Password (optional, leave empty to be asked on every upload)
  - Whether to set as default

When a password is given it is checked against the server before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
}

// loadConfigFile reads the config file, treating a missing file as empty.
func loadConfigFile(path string) (*clientcli.ConfigFile, error) {
	file, err := clientcli.LoadConfigFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &clientcli.ConfigFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return file, nil
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	file, err := loadConfigFile(getConfigPath())
	if err != nil {
		return err
	}

	if len(file.Profiles) == 0 {
		fmt.Println("No profiles configured.")
		fmt.Println("Run 'iconbox-cli configure add <name>' to create one.")
		return nil
	}

	def, err := file.GetProfile("")
	if err != nil {
		return err
	}

	return getFormatter().FormatProfileList(os.Stdout, file.Profiles, def.Name)
}

func runConfigureAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	configPath := getConfigPath()

	file, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	existing, _ := file.GetProfile(name)
	if existing != nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Profile '%s' already exists. Update it", name),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	endpointPrompt := promptui.Prompt{
		Label:   "Endpoint URL",
		Default: clientcli.DefaultEndpoint,
		Validate: func(input string) error {
			parsed, parseErr := url.Parse(input)
			if parseErr != nil {
				return fmt.Errorf("invalid URL: %w", parseErr)
			}
			if parsed.Scheme != "http" && parsed.Scheme != "https" {
				return errors.New("URL must start with http:// or https://")
			}
			return nil
		},
	}
	if existing != nil {
		endpointPrompt.Default = existing.Endpoint
	}
	endpointURL, err := endpointPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}
	endpointURL = strings.TrimSuffix(endpointURL, "/")

	passwordPrompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
	}
	passwordVal, err := passwordPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	setAsDefault := len(file.Profiles) == 0 // First profile is always default
	if !setAsDefault {
		defaultPrompt := promptui.Prompt{
			Label:     "Set as default profile",
			IsConfirm: true,
		}
		if _, promptErr := defaultPrompt.Run(); promptErr == nil {
			setAsDefault = true
		}
	}

	if passwordVal != "" {
		fmt.Print("Checking password... ")
		if checkErr := checkLogin(cmd.Context(), endpointURL, passwordVal); checkErr != nil {
			fmt.Println("FAILED")
			fmt.Printf("Warning: %v\n", checkErr)

			continuePrompt := promptui.Prompt{
				Label:     "Save profile anyway",
				IsConfirm: true,
			}
			if _, promptErr := continuePrompt.Run(); promptErr != nil {
				fmt.Println("Cancelled.")
				return nil //nolint:nilerr // User cancelled, not an error
			}
		} else {
			fmt.Println("OK")
		}
	}

	file.PutProfile(clientcli.Profile{
		Name:     name,
		Endpoint: endpointURL,
		Password: passwordVal,
		Default:  setAsDefault,
	})

	if err := file.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	if existing != nil {
		fmt.Printf("Profile '%s' updated.\n", name)
	} else {
		fmt.Printf("Profile '%s' added.\n", name)
	}
	if setAsDefault {
		fmt.Println("Set as default profile.")
	}

	return nil
}

func runConfigureRemove(_ *cobra.Command, args []string) error {
	name := args[0]
	configPath := getConfigPath()

	file, err := clientcli.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err = file.GetProfile(name); err != nil {
		return err
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Remove profile '%s'", name),
		IsConfirm: true,
	}
	if _, promptErr := prompt.Run(); promptErr != nil {
		fmt.Println("Cancelled.")
		return nil //nolint:nilerr // User cancelled, not an error
	}

	if err := file.RemoveProfile(name); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}

	if err := file.Save(configPath); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Profile '%s' removed.\n", name)
	return nil
}

// checkLogin tries the password against the server.
func checkLogin(ctx context.Context, endpointURL, pw string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := clientcli.New(&clientcli.Config{Endpoint: endpointURL, Password: pw})
	if err != nil {
		return err
	}

	if err := client.Login(ctx); err != nil {
		if errors.Is(err, clientcli.ErrForbidden) {
			return errors.New("server rejected the password")
		}
		return fmt.Errorf("could not log in: %w", err)
	}
	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
