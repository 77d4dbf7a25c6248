package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/propertybazaar/server/internal/wishlist"
)

func newSavedCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage the local saved-properties list",
	}
	cmd.AddCommand(
		newSavedListCmd(opts),
		&cobra.Command{
			Use:   "toggle <property-id>",
			Short: "Save a property, or unsave it if already saved",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				store, err := openWishlist(opts)
				if err != nil {
					return err
				}
				if err := store.Toggle(id); err != nil {
					return err
				}
				if store.IsSaved(id) {
					printf(opts, "saved %d\n", id)
				} else {
					printf(opts, "removed %d\n", id)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "check <property-id>",
			Short: "Report whether a property is saved",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				store, err := openWishlist(opts)
				if err != nil {
					return err
				}
				printf(opts, "%t\n", store.IsSaved(id))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every saved property",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				store, err := openWishlist(opts)
				if err != nil {
					return err
				}
				if err := store.Replace(nil); err != nil {
					return err
				}
				printf(opts, "cleared\n")
				return nil
			},
		},
	)
	return cmd
}

func newSavedListCmd(opts *rootOptions) *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print saved property ids in the order they were saved",
		Long: "Print saved property ids in the order they were saved.\n" +
			"With --api, fetch the listing from a running server and print the saved ones that are still listed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openWishlist(opts)
			if err != nil {
				return err
			}
			if apiURL != "" {
				properties, err := fetchProperties(cmd.Context(), apiURL)
				if err != nil {
					return err
				}
				saved := store.Filter(properties)
				if len(saved) == 0 {
					printf(opts, "no saved properties\n")
					return nil
				}
				for _, p := range saved {
					printf(opts, "%d\t%s\t%s\t%.0f\n", p.ID, p.Title, p.City, p.Price)
				}
				return nil
			}

			ids := store.IDs()
			if len(ids) == 0 {
				printf(opts, "no saved properties\n")
				return nil
			}
			for _, id := range ids {
				printf(opts, "%d\n", id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "", "base URL of a PropertyBazaar server, e.g. http://localhost:8080")
	return cmd
}

func openWishlist(opts *rootOptions) (*wishlist.Store, error) {
	storage, err := wishlist.NewFileStorage(opts.dataDir)
	if err != nil {
		return nil, err
	}
	return wishlist.Open(storage, opts.logger()), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid property id %q", s)
	}
	return id, nil
}
