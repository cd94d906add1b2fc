package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adalundhe/floyd/core/app"
	"github.com/adalundhe/floyd/core/dialogue"
	"github.com/adalundhe/floyd/core/gateway"
)

var (
	askAssistant string
	askThread    string
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send one prompt and print the response envelope",
	Long: `Send one prompt through the dispatcher and print the JSON envelope an HTTP
caller would receive.

Examples:
  floyd ask "Floyd, go west"
  floyd ask --assistant ambassador "Who are you?"
  floyd ask --thread thread_abc "What did I just say?" | jq '.results'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askAssistant, "assistant", "a", dialogue.DefaultSelector, "Selector: a routed selector or a persona id")
	askCmd.Flags().StringVarP(&askThread, "thread", "t", "", "Remote thread to continue")
}

func runAsk(cmd *cobra.Command, args []string) error {
	m, err := loadConfig()
	if err != nil {
		return err
	}
	defer m.Close()

	cfg := m.Get()
	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	backend := gateway.NewBackend(a.Dispatcher,
		gateway.WithDebugErrors(cfg.Server.DebugErrors),
		gateway.WithTimeout(cfg.Server.Timeout))

	return ask(cmd.Context(), cmd.OutOrStdout(), backend, gateway.Payload{
		Assistant: askAssistant,
		Prompt:    strings.Join(args, " "),
		ThreadID:  askThread,
	})
}

// ask writes the body for payload to w. A non-200 status is also returned
// as an error so the process exits non-zero.
func ask(ctx context.Context, w io.Writer, backend *gateway.Backend, payload gateway.Payload) error {
	status, body := backend.Serve(ctx, payload)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(body); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("request failed with status %d", status)
	}
	return nil
}
