package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/crewscheduler/backend/internal/auth"
	"github.com/crewscheduler/backend/internal/chatbot"
	"github.com/crewscheduler/backend/internal/datastore"
	"github.com/crewscheduler/backend/internal/db"
	"github.com/crewscheduler/backend/internal/models"
	"github.com/crewscheduler/backend/internal/seed"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crewctl",
		Short:         "Crew scheduler data and assistant tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSeedCmd(), newAskCmd(), newMigrateCmd(), newImportCmd(), newHashPasswordCmd())
	return root
}

func newSeedCmd() *cobra.Command {
	var (
		out   string
		force bool
		rnd   uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a sample dataset starting tomorrow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc := seed.Generate(time.Now(), rnd)
			if err := seed.Write(out, doc, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %s\n", out, formatCounts(models.NewSnapshot(doc, "json", time.Now()).Counts()))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "data.json", "output file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().Uint64Var(&rnd, "seed", uint64(time.Now().UnixNano()), "random seed")
	return cmd
}

func newAskCmd() *cobra.Command {
	var (
		data     string
		username string
		timezone string
	)
	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Print the assistant's keyword reply to a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := loadLocation(timezone)
			if err != nil {
				return err
			}
			src, err := datastore.FileSource(sourceKind(data), data)
			if err != nil {
				return err
			}
			store := datastore.NewStore(src, zerolog.Nop())
			snap, _ := store.Reload(cmd.Context())

			user, ok := snap.UserByUsername(username)
			if !ok {
				user = models.User{Username: username}
			}
			resp := chatbot.New(store, chatbot.WithLocation(loc)).Respond(args[0], user.Public())

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, resp.Text)
			fmt.Fprintf(w, "\n[%s] %s\n", resp.Intent, strings.Join(resp.Suggestions, " | "))
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "data.json", "JSON file or CSV directory")
	cmd.Flags().StringVar(&username, "user", "pilot1", "username to answer as")
	cmd.Flags().StringVar(&timezone, "tz", "Local", "timezone for naive timestamps")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var databaseURL string
	cmd := &cobra.Command{
		Use:   "migrate [command] [args...]",
		Short: "Run goose migrations (up, down, status, ...)",
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command, args = args[0], args[1:]
			}
			url, err := requireURL(databaseURL)
			if err != nil {
				return err
			}
			return db.Migrate(cmd.Context(), url, command, args...)
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "postgres URL (default $DATABASE_URL)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		data        string
		databaseURL string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the database tables with the contents of a data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := requireURL(databaseURL)
			if err != nil {
				return err
			}
			doc, err := loadForImport(cmd.Context(), data, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			store, err := db.New(ctx, url)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer store.Close()

			counts, err := store.Import(ctx, doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", formatCounts(counts))
			return nil
		},
	}
	cmd.Flags().StringVar(&data, "data", "data.json", "JSON file or CSV directory")
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "postgres URL (default $DATABASE_URL)")
	return cmd
}

// loadForImport reads the data file. Records that do not decode are
// reported to warn and left out; the remaining rows are returned.
func loadForImport(ctx context.Context, path string, warn io.Writer) (models.Document, error) {
	src, err := datastore.FileSource(sourceKind(path), path)
	if err != nil {
		return models.Document{}, err
	}
	doc, err := src.Load(ctx)
	var recErr *datastore.MalformedRecordError
	if errors.As(err, &recErr) {
		fmt.Fprintf(warn, "warning: skipping %v\n", recErr)
		return doc, nil
	}
	return doc, err
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print an argon2id hash for a users entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := auth.HashPassword(args[0], auth.DefaultArgonParams)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}

func requireURL(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv("DATABASE_URL"); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("--database-url or DATABASE_URL is required")
}

// sourceKind treats directories as CSV exports.
func sourceKind(path string) string {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return "csv"
	}
	return "json"
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

func formatCounts[N int | int64](counts map[string]N) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
