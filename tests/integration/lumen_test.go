//go:build integration

package integration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lumenlabs/lumen-go/core"
	"github.com/lumenlabs/lumen-go/lumen"
)

func TestLumen_CreateInteraction(t *testing.T) {
	skipIfNoAPIKey(t)

	client := lumen.New(getAPIKey(t))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	interaction, err := client.CreateInteraction(ctx, &core.InteractionRequest{
		Model: "lumen-2-flash",
		Input: []core.Message{
			{Role: core.RoleUser, Content: "Say 'hello' and nothing else."},
		},
	})
	if err != nil {
		t.Fatalf("CreateInteraction() error = %v", err)
	}

	if interaction.Text() == "" {
		t.Error("Response text is empty")
	}
	if interaction.Usage == nil || interaction.Usage.TotalTokens == 0 {
		t.Error("Response usage is missing")
	}

	t.Logf("Response: %s", interaction.Text())
}

func TestLumen_StreamInteraction(t *testing.T) {
	skipIfNoAPIKey(t)

	client := lumen.New(getAPIKey(t))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stream, err := client.StreamInteraction(ctx, &core.InteractionRequest{
		Model: "lumen-2-flash",
		Input: []core.Message{
			{Role: core.RoleUser, Content: "Count from 1 to 5, each number on a new line."},
		},
	})
	if err != nil {
		t.Fatalf("StreamInteraction() error = %v", err)
	}

	// Collect deltas
	var chunks []string
	for ev := range stream.Events {
		if delta, ok := ev.(core.ContentDeltaEvent); ok {
			chunks = append(chunks, delta.Delta.Text)
		}
	}

	// Check for errors
	select {
	case err := <-stream.Err:
		if err != nil {
			t.Fatalf("Stream error: %v", err)
		}
	default:
	}

	if len(chunks) == 0 {
		t.Error("No deltas received")
	}

	combined := strings.Join(chunks, "")
	if combined == "" {
		t.Error("Combined output is empty")
	}

	t.Logf("Received %d deltas", len(chunks))
	t.Logf("Combined output: %s", combined)
}

func TestLumen_StreamInteraction_Collect(t *testing.T) {
	skipIfNoAPIKey(t)

	client := lumen.New(getAPIKey(t))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stream, err := client.StreamInteraction(ctx, &core.InteractionRequest{
		Model: "lumen-2-flash",
		Input: []core.Message{
			{Role: core.RoleUser, Content: "Say 'hello' and nothing else."},
		},
	})
	if err != nil {
		t.Fatalf("StreamInteraction() error = %v", err)
	}

	interaction, err := core.Collect(ctx, stream)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if interaction.Text() == "" {
		t.Error("Collected text is empty")
	}

	t.Logf("Collected: %s", interaction.Text())
}

func TestLumen_Files_Lifecycle(t *testing.T) {
	skipIfNoAPIKey(t)

	client := lumen.New(getAPIKey(t))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	file, err := client.UploadFile(ctx, &lumen.FileUploadRequest{
		File:        strings.NewReader("integration test file contents"),
		MimeType:    "text/plain",
		DisplayName: "lumen-go-integration",
	})
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	t.Logf("Uploaded: %s", file.Name)

	file, err = client.WaitForFile(ctx, file.Name, 2*time.Second)
	if err != nil {
		t.Fatalf("WaitForFile() error = %v", err)
	}
	if file.State != lumen.FileStateActive {
		t.Errorf("State = %q, want ACTIVE", file.State)
	}

	if err := client.DeleteFile(ctx, file.Name); err != nil {
		t.Errorf("DeleteFile() error = %v", err)
	}
}
