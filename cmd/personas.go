package cmd

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adalundhe/floyd/core/persona"
	"github.com/adalundhe/floyd/core/providers"
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List the personas and routed selectors",
	Long:  `List every persona after config overrides, with the provider that serves it.`,
	Args:  cobra.NoArgs,
	RunE:  runPersonas,
}

func init() {
	rootCmd.AddCommand(personasCmd)
}

func runPersonas(cmd *cobra.Command, args []string) error {
	m, err := loadConfig()
	if err != nil {
		return err
	}
	defer m.Close()

	cfg := m.Get()
	catalog, err := persona.Build(cfg.Personas)
	if err != nil {
		return err
	}
	return printPersonas(cmd.OutOrStdout(), catalog, cfg.Routing.Selectors)
}

func printPersonas(w io.Writer, catalog *persona.Catalog, selectors []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PERSONA\tPROVIDER\tMODEL\tTEMPERATURE\tMAX TOKENS")
	for _, p := range catalog.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			p.ID, servedBy(p), orDash(p.Model), temperature(p.Temperature), p.MaxOutputTokens)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	routed := slices.Clone(selectors)
	slices.Sort(routed)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Routed selectors: %v\n", routed)
	return nil
}

func servedBy(p persona.Persona) string {
	switch {
	case p.Provider != "":
		return p.Provider
	case p.Remote():
		return string(providers.ProviderTypeAssistants)
	default:
		return "default"
	}
}

func temperature(t *float64) string {
	if t == nil {
		return "-"
	}
	return strconv.FormatFloat(*t, 'g', -1, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
