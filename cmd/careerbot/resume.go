package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage the stored resume",
}

var resumeUploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Extract text from a PDF, DOCX or TXT resume and store it",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeUpload,
}

var resumeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored resume and keep the conversation",
	Args:  cobra.NoArgs,
	RunE:  runResumeClear,
}

func init() {
	resumeCmd.AddCommand(resumeUploadCmd)
	resumeCmd.AddCommand(resumeClearCmd)
	rootCmd.AddCommand(resumeCmd)
}

func runResumeUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	name := filepath.Base(path)
	text, err := a.analyst.UploadResume(cmd.Context(), a.user, name, data)
	if err != nil {
		return fmt.Errorf("upload resume: %w", err)
	}
	fmt.Printf("✅ Resume '%s' uploaded successfully! Extracted %d characters.\n", name, len([]rune(text)))
	return nil
}

func runResumeClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.analyst.ClearResume(cmd.Context(), a.user); err != nil {
		return err
	}
	fmt.Println("Resume cleared from memory")
	return nil
}
