package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/selfhelp/internal/identity"
	"github.com/hyperengineering/selfhelp/internal/store"
)

var (
	userJSONOutput bool
	userName       string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long:  "Register users, issue API tokens and list accounts without running the server.",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Register a user and issue an API token",
	Long:  "Register a user and print a new API token. Running it again for an existing email rotates the token and refreshes the role from auth.admin_emails.",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserCreate,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

func init() {
	userCmd.PersistentFlags().BoolVar(&userJSONOutput, "json", false,
		"Output in JSON format")
	userCreateCmd.Flags().StringVar(&userName, "name", "",
		"Display name")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
}

// openIdentity loads config and opens the store for offline user commands.
// The caller closes the returned store.
func openIdentity() (*identity.Service, *store.SQLiteStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return identity.NewService(db, cfg.Auth.AdminEmails), db, nil
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ids, db, err := openIdentity()
	if err != nil {
		return err
	}
	defer db.Close()

	user, token, err := ids.Register(ctx, args[0], userName)
	if err != nil {
		return err
	}

	if userJSONOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
			"token": token,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Issued token for %q (role: %s)\n", user.Email, user.Role)
	fmt.Fprintf(out, "Token: %s\n", token)
	fmt.Fprintln(cmd.ErrOrStderr(), "Store this token now; it cannot be shown again.")
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	ids, db, err := openIdentity()
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := ids.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if userJSONOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"users": users,
			"total": len(users),
		})
	}

	if len(users) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tCREATED")
	for _, u := range users {
		name := u.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.ID,
			u.Email,
			name,
			u.Role,
			u.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
