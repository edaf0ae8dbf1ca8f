package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/modsurfer/catalog"
	"github.com/wippyai/modsurfer/errors"
)

func newCatalogCmd() *cobra.Command {
	var catalogURL string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Create, list, search, get, delete, yank, or audit modules in the remote catalog",
	}
	cmd.PersistentFlags().StringVar(&catalogURL, "url", "", "base URL of the catalog service")

	client := func() (*catalog.Client, error) {
		if catalogURL == "" {
			return nil, errors.InvalidInput(errors.PhaseCatalog, "--url is required")
		}
		return catalog.New(catalogURL), nil
	}

	cmd.AddCommand(
		newCatalogCreateCmd(client),
		newCatalogListCmd(client),
		newCatalogSearchCmd(client),
		newCatalogGetCmd(client),
		newCatalogDeleteCmd(client),
		newCatalogYankCmd(client),
		newCatalogAuditCmd(client),
	)

	return cmd
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newCatalogCreateCmd(client func() (*catalog.Client, error)) *cobra.Command {
	var name, version, wasmPath string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Upload a module to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(wasmPath)
			if err != nil {
				return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("read %q: %v", wasmPath, err))
			}
			m, err := c.Create(context.Background(), name, version, data)
			if err != nil {
				return err
			}
			return printJSON(m)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "module name")
	cmd.Flags().StringVar(&version, "version", "", "module version")
	cmd.Flags().StringVar(&wasmPath, "wasm", "", "path to the compiled Wasm module")
	return cmd
}

func newCatalogListCmd(client func() (*catalog.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every module in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			ms, err := c.List(context.Background())
			if err != nil {
				return err
			}
			return printJSON(ms)
		},
	}
}

func newCatalogSearchCmd(client func() (*catalog.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog; prompts interactively when no query is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			} else {
				q, ok, err := promptSearchQuery()
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				query = q
			}

			c, err := client()
			if err != nil {
				return err
			}
			ms, err := c.Search(context.Background(), query)
			if err != nil {
				return err
			}
			return printJSON(ms)
		},
	}
}

func newCatalogGetCmd(client func() (*catalog.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a module's catalog record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			m, err := c.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			return printJSON(m)
		},
	}
}

func newCatalogDeleteCmd(client func() (*catalog.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently remove a module from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			return c.Delete(context.Background(), args[0])
		},
	}
}

func newCatalogYankCmd(client func() (*catalog.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "yank <id>",
		Short: "Mark a module as withdrawn without deleting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			return c.Yank(context.Background(), args[0])
		},
	}
}

func newCatalogAuditCmd(client func() (*catalog.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "audit <id>",
		Short: "Show a module's change history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client()
			if err != nil {
				return err
			}
			events, err := c.Audit(context.Background(), args[0])
			if err != nil {
				return err
			}
			return printJSON(events)
		},
	}
}
