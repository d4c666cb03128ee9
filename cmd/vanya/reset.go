package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Humphrey-He/vanya/internal/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the persisted cart, wishlist and session",
	Long: `Clears the three slots named in the store section of the config.
Run it while the server is stopped; a running server keeps its
in-memory state and rewrites the slots on its next mutation.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	sess, err := session.Open(cfg, logger.Named("session"), nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Reset(cmd.Context()); err != nil {
		return err
	}
	slots := sess.Slots()
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s, %s and %s in %s storage\n",
		slots.Cart, slots.Wishlist, slots.Auth, cfg.Store.Engine)
	return err
}
