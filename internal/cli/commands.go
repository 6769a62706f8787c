package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/sitesearch/internal/domain/search/request"
	"github.com/kailas-cloud/sitesearch/internal/logger"
	metadatarepo "github.com/kailas-cloud/sitesearch/internal/repository/metadata"
	searchrepo "github.com/kailas-cloud/sitesearch/internal/repository/search"
	exportuc "github.com/kailas-cloud/sitesearch/internal/usecase/export"
	searchuc "github.com/kailas-cloud/sitesearch/internal/usecase/search"
	"github.com/kailas-cloud/sitesearch/internal/version"
)

func categoriesCmd(o *rootOptions) *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Print categories and document types as JSON",
		Example: heredoc.Doc(`
			$ sitesearchctl categories
			$ sitesearchctl categories --project PlasmoDB
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, _, err := o.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			svc := searchuc.New(searchrepo.New(store, 0), metadatarepo.New(store))
			catalog, err := svc.Categories(cmd.Context(), project)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), catalog)
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "restrict searchable fields to a project")
	return cmd
}

func planCmd(o *rootOptions) *cobra.Command {
	var requestPath string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the engine queries a search request would run",
		Long: heredoc.Doc(`
			Parse a search request, load metadata and print one line per planned
			round trip: the trip kind followed by its rendered query parameters.
			Nothing is searched.
		`),
		Example: heredoc.Doc(`
			$ echo '{"searchText":"kinase","pagination":{"offset":0,"numRecords":10}}' | sitesearchctl plan
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := readRequest(cmd, requestPath)
			if err != nil {
				return err
			}
			req, err := request.FromJSON(body, request.SearchOptions)
			if err != nil {
				return err
			}
			store, _, _, err := o.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			meta, err := metadatarepo.New(store).Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := meta.Validate(&req); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range searchuc.Plan(&req) {
				fmt.Fprintf(out, "%s\t%s\n", t.Kind, searchrepo.SearchParams(&req, meta, t))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "-", "JSON request file, - for stdin")
	return cmd
}

func exportCmd(o *rootOptions) *cobra.Command {
	var requestPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Stream primaryKey, score and project of every match as TSV",
		Example: heredoc.Doc(`
			$ sitesearchctl export -r query.json > ids.tsv
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := readRequest(cmd, requestPath)
			if err != nil {
				return err
			}
			req, err := request.FromJSON(body, request.StreamOptions)
			if err != nil {
				return err
			}
			store, cfg, log, err := o.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := logger.ContextWithLogger(cmd.Context(), log)
			repo := searchrepo.New(store, cfg.Search.ExportPageSize)
			meta, err := searchuc.New(repo, metadatarepo.New(store)).Metadata(ctx, &req)
			if err != nil {
				return err
			}
			return exportuc.New(repo).Export(ctx, &req, meta, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "-", "JSON request file, - for stdin")
	return cmd
}

func pingCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the search engine answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, _, _, err := o.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.BuildStatus())
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
