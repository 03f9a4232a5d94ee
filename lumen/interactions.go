package lumen

import (
	"context"
	"net/http"

	"github.com/lumenlabs/lumen-go/core"
)

const interactionsPath = "/v1/interactions"

// validateInteraction checks that the request can be sent.
func validateInteraction(req *core.InteractionRequest) error {
	if req == nil || req.Model == "" {
		return core.ErrModelRequired
	}
	if len(req.Input) == 0 {
		return core.ErrNoInput
	}
	return nil
}

// CreateInteraction runs an interaction to completion and returns the final
// result. For incremental output use [Client.StreamInteraction].
func (c *Client) CreateInteraction(ctx context.Context, req *core.InteractionRequest) (*core.Interaction, error) {
	if err := validateInteraction(req); err != nil {
		return nil, err
	}

	var out core.Interaction
	if err := c.doJSON(ctx, http.MethodPost, interactionsPath, req, &out, req.Model); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetInteraction fetches an interaction by id.
func (c *Client) GetInteraction(ctx context.Context, id string) (*core.Interaction, error) {
	var out core.Interaction
	if err := c.doJSON(ctx, http.MethodGet, interactionsPath+"/"+id, nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelInteraction asks the server to stop an in-progress interaction.
// Cancellation is best-effort; the returned snapshot reflects the status at
// the time the server processed the request.
func (c *Client) CancelInteraction(ctx context.Context, id string) (*core.Interaction, error) {
	var out core.Interaction
	if err := c.doJSON(ctx, http.MethodPost, interactionsPath+"/"+id+":cancel", nil, &out, ""); err != nil {
		return nil, err
	}
	return &out, nil
}
