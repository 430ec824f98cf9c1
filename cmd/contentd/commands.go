package main

import (
	"github.com/spf13/cobra"
)

func runOp(cmd *cobra.Command, fn func() (any, error)) error {
	res, err := fn()
	if err != nil {
		printError(err)
		return err
	}
	if err := printResult(res); err != nil {
		printError(err)
		return err
	}
	return nil
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <path>",
		Short: "Browse a namespace/selector path as a menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, func() (any, error) {
				r, err := buildRouter(cmd.Context())
				if err != nil {
					return nil, err
				}
				items, err := r.Browse(cmd.Context(), args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{"items": items, "count": len(items)}, nil
			})
		},
	}
}

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <path>",
		Short: "Fetch a namespace/selector path as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, func() (any, error) {
				r, err := buildRouter(cmd.Context())
				if err != nil {
					return nil, err
				}
				res, err := r.Fetch(cmd.Context(), args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{"path": res.Path, "content": res.Content, "mime": res.Mime}, nil
			})
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <path> <query>",
		Short: "Search within a namespace/selector path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, func() (any, error) {
				r, err := buildRouter(cmd.Context())
				if err != nil {
					return nil, err
				}
				items, err := r.Search(cmd.Context(), args[0], args[1])
				if err != nil {
					return nil, err
				}
				return map[string]any{"items": items, "count": len(items)}, nil
			})
		},
	}
}

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <path> <content>",
		Short: "Publish content to a writable namespace/selector path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, func() (any, error) {
				r, err := buildRouter(cmd.Context())
				if err != nil {
					return nil, err
				}
				res, err := r.Publish(cmd.Context(), args[0], args[1])
				if err != nil {
					return nil, err
				}
				return map[string]any{"ok": true, "path": res.Path, "action": res.Action}, nil
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a namespace/selector path from a writable namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, func() (any, error) {
				r, err := buildRouter(cmd.Context())
				if err != nil {
					return nil, err
				}
				res, err := r.Delete(cmd.Context(), args[0])
				if err != nil {
					return nil, err
				}
				return map[string]any{"ok": true, "path": res.Path, "action": res.Action}, nil
			})
		},
	}
}

func newDumpCmd() *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "dump <source> <destination>",
		Short: "Recursively copy documents from source into a writable destination",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOp(cmd, func() (any, error) {
				r, err := buildRouter(cmd.Context())
				if err != nil {
					return nil, err
				}
				res, err := r.Dump(cmd.Context(), args[0], args[1], maxDepth)
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"ok": true, "source": res.Source, "destination": res.Destination,
					"published": res.Published, "skipped": res.Skipped,
				}, nil
			})
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 3, "maximum menu depth to walk")
	return cmd
}
