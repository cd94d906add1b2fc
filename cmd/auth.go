package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adalundhe/floyd/core/llm"
)

var apiKey string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider authentication",
	Long:  `Configure API keys for the completion providers.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Set API key for a provider",
	Long:  `Store the API key for a completion provider (anthropic, google, openai).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthSet,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configured providers and their status",
	Long:  `Display which providers have a key in the environment or the credentials file.`,
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authRemoveCmd = &cobra.Command{
	Use:   "remove <provider>",
	Short: "Remove credentials for a provider",
	Long:  `Remove the stored API key for a completion provider.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthRemove,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRemoveCmd)

	authSetCmd.Flags().StringVar(&apiKey, "api-key", "", "API key (prompted for if not provided)")
}

func runAuthSet(cmd *cobra.Command, args []string) error {
	provider, err := parseProvider(args[0])
	if err != nil {
		return err
	}

	key := apiKey
	if key == "" {
		key, err = readKey(cmd.InOrStdin(), cmd.ErrOrStderr(), provider)
		if err != nil {
			return err
		}
	}
	if key == "" {
		return fmt.Errorf("no API key given for %s", provider)
	}

	if err := llm.SetCredential(provider, key); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Credentials saved for %s\n", provider)
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	printAuthStatus(cmd.OutOrStdout(), llm.KnownProviders(), llm.HasCredentials)
	return nil
}

func printAuthStatus(w io.Writer, providers []string, configured func(string) bool) {
	fmt.Fprintln(w, "Provider Status:")
	fmt.Fprintln(w, "----------------")
	for _, p := range providers {
		status := "not configured"
		if configured(p) {
			status = "configured"
		}
		fmt.Fprintf(w, "  %-12s %s\n", p+":", status)
	}
}

func runAuthRemove(cmd *cobra.Command, args []string) error {
	provider, err := parseProvider(args[0])
	if err != nil {
		return err
	}

	removed, err := llm.RemoveCredential(provider)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(cmd.OutOrStdout(), "No credentials found for %s\n", provider)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Credentials removed for %s\n", provider)
	return nil
}

func parseProvider(name string) (string, error) {
	provider := strings.ToLower(strings.TrimSpace(name))
	known := llm.KnownProviders()
	if !slices.Contains(known, provider) {
		return "", fmt.Errorf("invalid provider: %s (valid: %s)", name, strings.Join(known, ", "))
	}
	return provider, nil
}

// readKey prompts for a key. A terminal reads without echo; anything else
// reads one line.
func readKey(in io.Reader, prompt io.Writer, provider string) (string, error) {
	fmt.Fprintf(prompt, "Enter API key for %s: ", provider)

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		key, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return strings.TrimSpace(string(key)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
