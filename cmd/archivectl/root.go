package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"sitearchive/internal/adapters/auth"
	"sitearchive/internal/adminclient"
)

const defaultURL = "http://localhost:8080"

type commandContext struct {
	url      string
	password string
	// readPassword prompts on the terminal; replaced in tests.
	readPassword func(prompt string) (string, error)
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(&commandContext{readPassword: promptPassword})
}

func newRootCommandWith(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "archivectl",
		Short:         "Manage the archive mailing list",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.url, "url", envOr("ARCHIVE_URL", defaultURL), "Base URL of the archive API")
	rootCmd.PersistentFlags().StringVar(&ctx.password, "password", "", "Admin password (default $ARCHIVE_ADMIN_PASSWORD, else prompt)")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newCaptureCommand(ctx))
	rootCmd.AddCommand(newHashPasswordCommand(ctx))

	return rootCmd
}

// unlockedFlow probes the list and, when locked, unlocks with the configured or
// prompted password.
func (c *commandContext) unlockedFlow(ctx context.Context) (*adminclient.Flow, error) {
	client, err := adminclient.NewClient(c.url)
	if err != nil {
		return nil, err
	}
	flow := adminclient.NewFlow(client)
	if flow.Start(ctx) == adminclient.StateReady {
		return flow, nil
	}

	password := c.password
	if password == "" {
		password = os.Getenv("ARCHIVE_ADMIN_PASSWORD")
	}
	if password == "" {
		password, err = c.readPassword("Password: ")
		if err != nil {
			return nil, err
		}
	}
	if password == "" {
		return nil, errors.New("archive is locked: password required")
	}
	state, err := flow.Unlock(ctx, password)
	if err != nil {
		return nil, err
	}
	if state != adminclient.StateReady {
		if msg := flow.Message(); msg != "" {
			return nil, errors.New(strings.TrimSuffix(msg, "."))
		}
		return nil, errors.New("archive is locked")
	}
	return flow, nil
}

func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "capture <email>",
		Short: "Add an email to the archive list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := adminclient.NewClient(ctx.url)
			if err != nil {
				return err
			}
			if err := client.Capture(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Received.")
			return nil
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var asCSV bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show captured emails, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, err := ctx.unlockedFlow(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asCSV {
				if err := flow.ExportCSV(out); err != nil {
					return err
				}
				fmt.Fprintln(out)
				return nil
			}
			entries := flow.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No entries yet.")
				return nil
			}
			fmt.Fprintln(out, renderEntries(entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Print CSV instead of a table")
	return cmd
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download captured emails as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, err := ctx.unlockedFlow(cmd.Context())
			if err != nil {
				return err
			}
			if output == "-" {
				return flow.ExportCSV(cmd.OutOrStdout())
			}
			if err := writeFileAtomic(output, flow.ExportCSV); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d entries to %s\n", len(flow.Entries()), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", adminclient.ExportFilename, `Output file ("-" for stdout)`)
	return cmd
}

// writeFileAtomic writes through a temporary file in the target directory and
// renames it over path only when write and close both succeed. On failure path is
// left untouched and the temporary file is removed.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func newHashPasswordCommand(ctx *commandContext) *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash to use as ARCHIVE_ADMIN_PASSWORD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ctx.password
			if password == "" {
				var err error
				if password, err = ctx.readPassword("New password: "); err != nil {
					return err
				}
			}
			hash, err := auth.HashPassword(password, cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}
