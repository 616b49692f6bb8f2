package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aretw0/moore/internal/presentation/tui"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/registry"
	"github.com/aretw0/moore/pkg/session"
	"github.com/spf13/cobra"
)

// defaultSessionDB is where sessions persist between invocations.
const defaultSessionDB = ".moore/sessions.db"

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long: `Create, drive, inspect and remove sessions stored in a bolt database (--db)
or in redis (--redis). A session keeps its state between invocations.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	Args:  cobra.NoArgs,
	RunE: withSessions(func(cmd *cobra.Command, args []string, mgr *session.Manager, table *domain.Table, start domain.StateID) error {
		ids, err := mgr.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(w, "No sessions found.")
			return nil
		}

		fmt.Fprintln(w, "Sessions:")
		for _, id := range ids {
			snap, err := mgr.Load(cmd.Context(), id)
			if err != nil {
				fmt.Fprintf(w, "- %s (unreadable: %v)\n", id, err)
				continue
			}
			fmt.Fprintf(w, "- %s (state %s, %d steps)\n", id, snap.State, snap.Steps)
		}
		return nil
	}),
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create [session-id]",
	Short: "Create a session at the start state",
	Args:  cobra.MaximumNArgs(1),
	RunE: withSessions(func(cmd *cobra.Command, args []string, mgr *session.Manager, table *domain.Table, start domain.StateID) error {
		var id string
		if len(args) > 0 {
			id = args[0]
		}
		snap, err := mgr.Create(cmd.Context(), id, table.Name(), start)
		if err != nil {
			return fmt.Errorf("error creating session: %w", err)
		}
		out, _ := table.Row(snap.State)
		fmt.Fprintf(cmd.OutOrStdout(), "Created session '%s' at state %s (output %s)\n", snap.SessionID, snap.State, out.Output)
		return nil
	}),
}

var sessionStepCmd = &cobra.Command{
	Use:   "step <session-id> <symbol>",
	Short: "Apply one symbol to a session",
	Args:  cobra.ExactArgs(2),
	RunE: withSessions(func(cmd *cobra.Command, args []string, mgr *session.Manager, table *domain.Table, start domain.StateID) error {
		symbol, err := parseSymbolArg(args[1])
		if err != nil {
			return err
		}
		res, err := mgr.Step(cmd.Context(), args[0], symbol)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		styler := tui.NewStyler(table, tui.ProfileFor(w))
		for _, t := range res.Transitions {
			fmt.Fprintf(w, "%s --%s--> %s (output %s)\n", styler.State(t.From), t.Symbol, styler.State(t.To), styler.Output(t.Output))
		}
		return nil
	}),
}

var sessionProcessCmd = &cobra.Command{
	Use:   "process <session-id> <input>",
	Short: "Process a binary string on a session",
	Args:  cobra.ExactArgs(2),
	RunE: withSessions(func(cmd *cobra.Command, args []string, mgr *session.Manager, table *domain.Table, start domain.StateID) error {
		noInitial, _ := cmd.Flags().GetBool("no-initial")
		res, err := mgr.Process(cmd.Context(), args[0], args[1], !noInitial)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		styler := tui.NewStyler(table, tui.ProfileFor(w))
		fmt.Fprintf(w, "Outputs: %s\n", styler.Outputs(res.Outputs, " "))
		fmt.Fprintf(w, "Final state: %s\n", styler.State(res.Session.State))
		return nil
	}),
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset <session-id> [state]",
	Short: "Move a session to a state (the start state by default)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: withSessions(func(cmd *cobra.Command, args []string, mgr *session.Manager, table *domain.Table, start domain.StateID) error {
		target := start
		if len(args) > 1 {
			target = domain.StateID(args[1])
		}
		snap, err := mgr.Reset(cmd.Context(), args[0], target)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Session '%s' reset to state %s\n", snap.SessionID, snap.State)
		return nil
	}),
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: withSessions(func(cmd *cobra.Command, args []string, mgr *session.Manager, table *domain.Table, start domain.StateID) error {
		snap, err := mgr.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", args[0], err)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}),
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: withSessions(func(cmd *cobra.Command, args []string, mgr *session.Manager, table *domain.Table, start domain.StateID) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			ids, err := mgr.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing sessions: %w", err)
			}
			args = ids
		}

		w := cmd.OutOrStdout()
		failed := 0
		for _, id := range args {
			if err := mgr.Delete(cmd.Context(), id); err != nil {
				fmt.Fprintf(w, "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(w, "Removed session '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("failed to remove %d sessions", failed)
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	for _, c := range []*cobra.Command{
		sessionLsCmd, sessionCreateCmd, sessionStepCmd, sessionProcessCmd,
		sessionResetCmd, sessionInspectCmd, sessionRmCmd,
	} {
		addStoreFlags(c, defaultSessionDB)
		sessionCmd.AddCommand(c)
	}
	sessionProcessCmd.Flags().Bool("no-initial", false, "Omit the output of the state before the first symbol")
	sessionRmCmd.Flags().Bool("all", false, "Remove every session")
}

type sessionRunFunc func(cmd *cobra.Command, args []string, mgr *session.Manager, table *domain.Table, start domain.StateID) error

// withSessions opens the session store for the duration of fn.
func withSessions(fn sessionRunFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		table, start, err := loadTable(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd)
		mgr, closeFn, err := newSessionManager(cmd, table, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeFn(); err != nil {
				logger.Error("Failed to close session store", "error", err)
			}
		}()
		return fn(cmd, args, mgr, table, start)
	}
}

func newSessionManager(cmd *cobra.Command, table *domain.Table, logger *slog.Logger) (*session.Manager, func() error, error) {
	tables := registry.NewRegistry(table)
	backend, err := openStore(cmd, tables, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []session.Option{
		session.WithRegistry(tables),
		session.WithLogger(logger),
		session.WithLockTTL(lockTTL),
	}
	if backend.Locker != nil {
		opts = append(opts, session.WithLocker(backend.Locker))
	}
	return session.NewManager(backend.Store, opts...), backend.Close, nil
}
