package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ubkifeat/internal/cache"
	"github.com/ppiankov/ubkifeat/internal/session"
)

// sessionCmd represents the session command
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored bureau session keys",
	Long: `Bureau session keys are valid for the day they were issued. ubkifeat
stores one key per environment (test or real) and forgets it at midnight.

Example:
  ubkifeat session set real 5F1C0A...
  ubkifeat session show real
  ubkifeat session clear`,
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <test|real> <session-id>",
	Short: "Store today's session key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := session.ParseEnv(args[0])
		if err != nil {
			return err
		}
		store, err := openSessionStore()
		if err != nil {
			return err
		}

		key, err := store.Put(env, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Stored %s session key issued on %s\n", env, key.IssuedOn)
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <test|real>",
	Short: "Print today's session key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := session.ParseEnv(args[0])
		if err != nil {
			return err
		}
		store, err := openSessionStore()
		if err != nil {
			return err
		}

		key, err := store.Get(env)
		if errors.Is(err, session.ErrNoKey) {
			return fmt.Errorf("no %s session key for today; authorize and run 'ubkifeat session set %s <session-id>'", env, env)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key.SessionID)
		return nil
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear [test|real]",
	Short: "Forget stored session keys",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var envs []session.Env
		if len(args) == 1 {
			env, err := session.ParseEnv(args[0])
			if err != nil {
				return err
			}
			envs = append(envs, env)
		}
		store, err := openSessionStore()
		if err != nil {
			return err
		}

		if err := store.Clear(envs...); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Session keys cleared\n")
		return nil
	},
}

func openSessionStore() (*session.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return session.NewStore(cache.NewLayeredCache(cfg.Session.MemoryTTL, cfg.Session.Dir, 24*time.Hour)), nil
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionSetCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
}
