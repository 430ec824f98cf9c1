package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/knakk/rdf"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gopherdesk/contentd/internal/adapter"
	"github.com/gopherdesk/contentd/internal/adapter/feedadapter"
	"github.com/gopherdesk/contentd/internal/adapter/fsadapter"
	"github.com/gopherdesk/contentd/internal/adapter/rdfadapter"
	"github.com/gopherdesk/contentd/internal/config"
	"github.com/gopherdesk/contentd/internal/mcpserver"
	"github.com/gopherdesk/contentd/internal/model"
	"github.com/gopherdesk/contentd/internal/router"
	"github.com/gopherdesk/contentd/internal/store"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "contentd",
		Short:         "Content engine: browse, fetch, search, publish, delete, and dump across Gopher, feeds, RDF, and the filesystem.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "contentd.toml", "path to the TOML configuration file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newBrowseCmd())
	root.AddCommand(newFetchCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newPublishCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newDumpCmd())
	return root
}

// buildRouter loads the configuration, registers every adapter, runs an
// initial sync, and seeds the local namespace when configured to.
func buildRouter(ctx context.Context) (*router.Router, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	s := store.New()
	registry := adapter.NewRegistry()

	for _, spec := range cfg.Adapters {
		var a adapter.Adapter
		switch spec.Kind {
		case "filesystem":
			a = fsadapter.New(spec.Namespace, spec.Root, spec.Extensions, spec.Writable)
		case "feed":
			a = feedadapter.New(spec.Namespace, spec.FeedURL)
		case "rdf":
			a = rdfadapter.New(spec.Namespace, spec.RDFFile, spec.RDFURL, rdfFormat(spec.RDFFormat), spec.SparqlURL)
		}
		registry.Register(a)
		if err := a.Sync(ctx, s); err != nil {
			return nil, fmt.Errorf("sync %s: %w", spec.Namespace, err)
		}
	}

	if cfg.SeedContent {
		seedLocal(s)
	}

	return router.New(s, registry), nil
}

func rdfFormat(name string) rdf.Format {
	switch name {
	case "rdfxml":
		return rdf.RDFXML
	case "ntriples":
		return rdf.NTriples
	default:
		return rdf.Turtle
	}
}

func seedLocal(s *store.LocalStore) {
	s.RegisterNamespace("local", false)
	s.PutDocument("local", "/welcome", welcomeText, "text/plain")
	s.PutMenu("local", "/", []model.MenuItem{
		{Type: model.TextFile, Display: "welcome", Selector: "/welcome", Host: "local"},
	})
}

const welcomeText = "Welcome to the content engine.\n" +
	"Browse a namespace to see what's available, or fetch local/welcome again any time.\n"

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildRouter(cmd.Context())
			if err != nil {
				printError(err)
				return err
			}
			if err := mcpserver.New(r).ServeStdio(); err != nil {
				printError(err)
				return err
			}
			return nil
		},
	}
}

// printResult writes v as pretty JSON when standard output is a
// terminal, or as raw compact JSON otherwise.
func printResult(v any) error {
	var data []byte
	var err error
	if term.IsTerminal(int(os.Stdout.Fd())) {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// printError writes err to standard error. When standard output is not
// a terminal, the error body is the JSON object {"error": "..."}.
func printError(err error) {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	fmt.Fprintln(os.Stderr, string(data))
}
