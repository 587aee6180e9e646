package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Kariqs/silkstitch-api/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type globalOptions struct {
	api    string
	token  string
	output string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "storefront-admin",
		Short:         "Manage the storefront catalog",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case outputTable, outputJSON:
				return nil
			default:
				return fmt.Errorf("invalid output %q (use table or json)", opts.output)
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.api, "api", envOr("SILKSTITCH_API", "http://localhost:8080"), "API base URL")
	root.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("SILKSTITCH_TOKEN"), "admin bearer token")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "output format: table or json")

	root.AddCommand(
		newLoginCmd(opts),
		newListCmd(opts),
		newGetCmd(opts),
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newUploadCmd(opts),
	)
	return root
}

func (o *globalOptions) client() *client.CatalogClient {
	return client.New(o.api, o.token)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid product id %q", raw)
	}
	return uint(id), nil
}

// readPayload loads a YAML or JSON product file into a generic map so that
// explicit nulls survive the trip to the API.
func readPayload(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return payload, nil
}

func newLoginCmd(opts *globalOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Exchange admin credentials for a token",
		Example: `  storefront-admin login --email admin@example.com --password secret
  export SILKSTITCH_TOKEN=$(storefront-admin login --email admin@example.com)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SILKSTITCH_PASSWORD")
			}
			token, err := opts.client().Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default $SILKSTITCH_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		list  client.ListOptions
		local bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Example: `  storefront-admin list --category tops
  storefront-admin list --search seoul --local`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			if local {
				all, err := c.ListAll(cmd.Context(), client.ListOptions{Sort: list.Sort})
				if err != nil {
					return err
				}
				return printProducts(cmd.OutOrStdout(), opts.output, client.FilterProducts(all, list.Search, list.Category))
			}
			page, err := c.List(cmd.Context(), list)
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), opts.output, page.Products)
		},
	}
	cmd.Flags().StringVar(&list.Search, "search", "", "match name, brand or description")
	cmd.Flags().StringVar(&list.Category, "category", "", "category, or all")
	cmd.Flags().StringVar(&list.Sort, "sort", "", "price-low, price-high, discount, top-rated or rating (default newest)")
	cmd.Flags().IntVar(&list.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&list.Limit, "limit", 20, "page size")
	cmd.Flags().BoolVar(&local, "local", false, "fetch the whole catalog and filter by name or brand locally")
	return cmd
}

func newGetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			product, err := opts.client().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printProduct(cmd.OutOrStdout(), opts.output, product)
		},
	}
}

func newCreateCmd(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:     "create -f FILE",
		Short:   "Create a product from a YAML or JSON file",
		Example: "  storefront-admin create -f blazer.yaml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(file)
			if err != nil {
				return err
			}
			product, err := opts.client().Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printProduct(cmd.OutOrStdout(), opts.output, product)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "product file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newUpdateCmd(opts *globalOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update ID -f FILE",
		Short: "Apply a partial update from a YAML or JSON file",
		Long: `Only the keys present in FILE are changed. A key set to null clears
optional fields such as brand or originalPrice.`,
		Example: "  storefront-admin update 12 -f price-drop.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			payload, err := readPayload(file)
			if err != nil {
				return err
			}
			product, err := opts.client().Update(cmd.Context(), id, payload)
			if err != nil {
				return err
			}
			return printProduct(cmd.OutOrStdout(), opts.output, product)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "update file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newDeleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product and its images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := opts.client().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted product %d\n", id)
			return nil
		},
	}
}

func newUploadCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "upload FILE...",
		Short:   "Upload product images and print their URLs",
		Example: "  storefront-admin upload front.jpg back.jpg",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]client.UploadFile, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				files = append(files, client.UploadFile{Name: filepath.Base(path), Reader: f})
			}

			result, err := opts.client().UploadImages(cmd.Context(), files...)
			if err != nil {
				return err
			}
			return printUpload(cmd.OutOrStdout(), opts.output, result)
		},
	}
}
