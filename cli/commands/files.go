package commands

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenlabs/lumen-go/lumen"
)

func (a *App) newFilesCommand() *cobra.Command {
	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "Manage uploaded files",
		Long:  `Upload, list, and delete files stored with the Lumen API.`,
	}

	uploadCmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runFilesUpload,
	}
	uploadCmd.Flags().StringVar(&a.uploadDisplayName, "name", "", "Display name (default is the file name)")
	uploadCmd.Flags().BoolVar(&a.uploadWait, "wait", false, "Wait until the file is processed")

	filesCmd.AddCommand(uploadCmd)
	filesCmd.AddCommand(&cobra.Command{
		Use:   "get <name>",
		Short: "Show file metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runFilesGet,
	})
	filesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		RunE:  a.runFilesList,
	})
	filesCmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an uploaded file",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runFilesDelete,
	})

	return filesCmd
}

func (a *App) runFilesUpload(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}
	defer f.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	displayName := a.uploadDisplayName
	if displayName == "" {
		displayName = filepath.Base(path)
	}

	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	ctx := context.Background()
	file, err := client.UploadFile(ctx, &lumen.FileUploadRequest{
		File:        f,
		MimeType:    mimeType,
		DisplayName: displayName,
	})
	if err != nil {
		return a.handleRunError(err)
	}

	if a.uploadWait {
		file, err = client.WaitForFile(ctx, file.Name, 2*time.Second)
		if err != nil {
			return a.handleRunError(err)
		}
	}

	fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", file.Name, file.MimeType, file.State)
	return nil
}

func (a *App) runFilesGet(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	file, err := client.GetFile(context.Background(), args[0])
	if err != nil {
		return a.handleRunError(err)
	}

	fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", file.Name, file.MimeType, file.State)
	return nil
}

func (a *App) runFilesList(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	list, err := client.ListFiles(context.Background(), 0, "")
	if err != nil {
		return a.handleRunError(err)
	}

	if len(list.Files) == 0 {
		fmt.Fprintln(a.stdout, "No files uploaded.")
		return nil
	}

	for _, file := range list.Files {
		fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", file.Name, file.MimeType, file.State)
	}
	return nil
}

func (a *App) runFilesDelete(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	if err := client.DeleteFile(context.Background(), args[0]); err != nil {
		return a.handleRunError(err)
	}

	fmt.Fprintf(a.stdout, "Deleted %s.\n", args[0])
	return nil
}
