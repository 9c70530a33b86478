package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var memoryFull bool

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect or reset stored sessions",
}

var memoryShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the session summary (or the full record with --full)",
	Args:  cobra.NoArgs,
	RunE:  runMemoryShow,
}

var memoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the session to empty, including the resume",
	Args:  cobra.NoArgs,
	RunE:  runMemoryClear,
}

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the users with a stored session",
	Args:  cobra.NoArgs,
	RunE:  runMemoryList,
}

func init() {
	memoryShowCmd.Flags().BoolVar(&memoryFull, "full", false, "print the whole session record")
	memoryCmd.AddCommand(memoryShowCmd, memoryClearCmd, memoryListCmd)
	rootCmd.AddCommand(memoryCmd)
}

func runMemoryShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.analyst.Session(cmd.Context(), a.user)
	if err != nil {
		return err
	}

	var v any = sess.Summary()
	if memoryFull {
		v = sess
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runMemoryClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.analyst.ClearMemory(cmd.Context(), a.user); err != nil {
		return err
	}
	fmt.Printf("Memory cleared for %s\n", a.user)
	return nil
}

// userLister is implemented by stores that can enumerate their sessions.
type userLister interface {
	Users(ctx context.Context) ([]string, error)
}

func runMemoryList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	lister, ok := a.store.(userLister)
	if !ok {
		return errors.New("the configured store cannot list users")
	}
	ids, err := lister.Users(cmd.Context())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No stored sessions")
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}
