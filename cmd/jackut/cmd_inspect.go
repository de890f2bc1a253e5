package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"jackut/internal/models"
	"jackut/internal/storage"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newShowUserCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show-user <login>",
		Short: "Print a user from the saved snapshot, without the password hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.svc.System.Load(cmd.Context()); err != nil {
				return err
			}
			u, err := e.svc.Users.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				*models.User
				PasswordHash string `json:"passwordHash,omitempty"`
			}{User: u})
		},
	}
}

func newShowCommunityCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show-community <name>",
		Short: "Print a community from the saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.svc.System.Load(cmd.Context()); err != nil {
				return err
			}
			c, err := e.svc.Communities.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), c)
		},
	}
}

// stats decodes the snapshot, which verifies its version and checksum.
func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Verify the saved snapshot and print its counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer e.close()

			snap, err := e.snapshots.Load(cmd.Context())
			if errors.Is(err, storage.ErrSnapshotNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "no snapshot saved")
				return nil
			}
			if err != nil {
				return err
			}
			_, checksum, err := storage.EncodeSnapshot(snap)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d\nsaved at: %s\nusers: %d\ncommunities: %d\nchecksum: %s\n",
				snap.Version, snap.SavedAt.Format(time.RFC3339), len(snap.Data.Users), len(snap.Data.Communities), checksum)
			return nil
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			e, err := openEnv(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.svc.System.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "snapshot deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
