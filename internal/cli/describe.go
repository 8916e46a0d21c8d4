package cli

import (
	"github.com/beauthy/beauthy/internal/generator/ollama"
	"github.com/beauthy/beauthy/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewDescribeCmd creates the describe command
func NewDescribeCmd(opts *GlobalOptions) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Generate descriptions and publishers with Ollama",
		Long: `Asks a local Ollama model for a short description and the publisher
of every application, and writes both into the portal. Model output is
stored as-is.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newSession(opts)
			if err != nil {
				return err
			}
			if model == "" {
				model = rt.settings.OllamaModel
			}

			gen := ollama.NewGenerator(rt.settings.OllamaHost, model, rt.settings.HTTPTimeout)
			_, err = rt.orchestrator(opts, orchestrator.WithGenerator(gen)).GenerateMetadata(cmd.Context())
			return err
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Ollama model (defaults to OLLAMA_MODEL)")

	return cmd
}
