package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenlabs/lumen-go/cli/keystore"
	"github.com/lumenlabs/lumen-go/core"
	"github.com/lumenlabs/lumen-go/lumen"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

func (a *App) newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an interaction",
		Long: `Send an interaction request to the Lumen API.

Examples:
  lumen run --model lumen-2-flash --prompt "Hello"
  lumen run --prompt "Hello" --stream
  lumen run --prompt "Hello" --json`,
		RunE: a.runInteraction,
	}

	cmd.Flags().StringVar(&a.runPrompt, "prompt", "", "User message (required)")
	cmd.Flags().StringVar(&a.runSystem, "system", "", "System message")
	cmd.Flags().Float32Var(&a.runTemperature, "temperature", 0, "Temperature (0 = use default)")
	cmd.Flags().IntVar(&a.runMaxTokens, "max-tokens", 0, "Max output tokens (0 = use default)")
	cmd.Flags().BoolVar(&a.runStream, "stream", false, "Enable streaming output")

	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func (a *App) runInteraction(cmd *cobra.Command, args []string) error {
	if a.model == "" {
		return exitWithCode(ExitValidation, fmt.Errorf("model required: use --model flag or set default_model in config"))
	}

	client, err := a.client()
	if err != nil {
		var notFound *keystore.ErrKeyNotFound
		if errors.As(err, &notFound) {
			return exitWithCode(ExitValidation, fmt.Errorf("no API key stored: run 'lumen keys set %s' or set LUMEN_API_KEY", notFound.Name))
		}
		return exitWithCode(ExitValidation, err)
	}

	req := &core.InteractionRequest{
		Model: a.model,
		Input: []core.Message{},
	}
	if a.runSystem != "" {
		req.Input = append(req.Input, core.Message{Role: core.RoleSystem, Content: a.runSystem})
	}
	req.Input = append(req.Input, core.Message{Role: core.RoleUser, Content: a.runPrompt})

	if a.runTemperature > 0 {
		t := a.runTemperature
		req.Temperature = &t
	}
	if a.runMaxTokens > 0 {
		n := a.runMaxTokens
		req.MaxOutputTokens = &n
	}

	ctx := context.Background()

	if a.runStream {
		return a.runStreaming(ctx, client, req)
	}
	return a.runBlocking(ctx, client, req)
}

func (a *App) runBlocking(ctx context.Context, client *lumen.Client, req *core.InteractionRequest) error {
	interaction, err := client.CreateInteraction(ctx, req)
	if err != nil {
		return a.handleRunError(err)
	}

	if a.jsonOutput {
		return a.outputJSON(interaction)
	}

	fmt.Fprintf(a.stdout, "> %s\n", a.runPrompt)
	fmt.Fprintln(a.stdout, interaction.Text())
	a.printUsage(interaction)
	return nil
}

func (a *App) runStreaming(ctx context.Context, client *lumen.Client, req *core.InteractionRequest) error {
	stream, err := client.StreamInteraction(ctx, req)
	if err != nil {
		return a.handleRunError(err)
	}

	if a.jsonOutput {
		// Accumulate for JSON output
		interaction, err := core.Collect(ctx, stream)
		if err != nil {
			return a.handleRunError(err)
		}
		return a.outputJSON(interaction)
	}

	fmt.Fprintf(a.stdout, "> %s\n", a.runPrompt)

	var final *core.Interaction
	for ev := range stream.Events {
		switch e := ev.(type) {
		case core.ContentDeltaEvent:
			fmt.Fprint(a.stdout, e.Delta.Text)
		case core.InteractionEvent:
			if e.Type == core.EventTypeInteractionComplete {
				snapshot := e.Interaction
				final = &snapshot
			}
		}
	}
	fmt.Fprintln(a.stdout)

	var streamErr error
	select {
	case err := <-stream.Err:
		streamErr = err
	default:
	}
	if streamErr != nil {
		return a.handleRunError(streamErr)
	}

	if final != nil {
		a.printUsage(final)
	}
	return nil
}

func (a *App) printUsage(interaction *core.Interaction) {
	if !a.verbose || interaction == nil || interaction.Usage == nil {
		return
	}
	fmt.Fprintf(a.stderr, "Usage: %d prompt + %d completion = %d total tokens\n",
		interaction.Usage.PromptTokens,
		interaction.Usage.CompletionTokens,
		interaction.Usage.TotalTokens)
}

func (a *App) handleRunError(err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		if a.jsonOutput {
			a.outputErrorJSON(apiErr)
		} else {
			fmt.Fprintf(a.stderr, "Error: %s\n", apiErr.Message)
			if apiErr.RequestID != "" {
				fmt.Fprintf(a.stderr, "  Request ID: %s\n", apiErr.RequestID)
			}
		}

		if errors.Is(err, core.ErrNetwork) {
			return exitWithCode(ExitNetwork, err)
		}
		return exitWithCode(ExitAPI, err)
	}

	if errors.Is(err, core.ErrNetwork) {
		if a.jsonOutput {
			a.outputSimpleErrorJSON("network_error", err.Error())
		} else {
			fmt.Fprintf(a.stderr, "Error: network error: %v\n", err)
		}
		return exitWithCode(ExitNetwork, err)
	}

	if errors.Is(err, core.ErrModelRequired) || errors.Is(err, core.ErrNoInput) {
		if a.jsonOutput {
			a.outputSimpleErrorJSON("validation_error", err.Error())
		} else {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
		}
		return exitWithCode(ExitValidation, err)
	}

	if a.jsonOutput {
		a.outputSimpleErrorJSON("error", err.Error())
	} else {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	return exitWithCode(ExitAPI, err)
}

func (a *App) outputJSON(interaction *core.Interaction) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(interaction)
}

func (a *App) outputErrorJSON(apiErr *core.APIError) {
	output := map[string]interface{}{
		"error": map[string]interface{}{
			"type":       apiErr.Code,
			"message":    apiErr.Message,
			"status":     apiErr.Status,
			"request_id": apiErr.RequestID,
		},
	}

	enc := json.NewEncoder(a.stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

func (a *App) outputSimpleErrorJSON(errType, message string) {
	output := map[string]interface{}{
		"error": map[string]interface{}{
			"type":    errType,
			"message": message,
		},
	}

	enc := json.NewEncoder(a.stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}
