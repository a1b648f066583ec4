package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/BradenHooton/dashboard/internal/directory"
	"github.com/BradenHooton/dashboard/internal/repositories"
	"github.com/BradenHooton/dashboard/internal/services"
	"github.com/spf13/cobra"
)

type queryOptions struct {
	source   string
	file     string
	search   string
	sort     string
	order    string
	page     int
	pageSize int
	timeout  time.Duration
	asJSON   bool
	verbose  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "dirquery",
		Short: "Filter, sort and page the user directory",
		Long: `dirquery loads the user directory from an HTTP source or a seed file
and prints one page of it, the same way the dashboard API does.`,
		Example: `  dirquery --file data/users.yaml --search gmail --sort company --order desc
  dirquery --source https://jsonplaceholder.typicode.com/users --page 1 --json`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.source, "source", "", "HTTP URL returning a JSON array of users")
	flags.StringVar(&opts.file, "file", "", "YAML or JSON seed file, used when --source is empty or fails")
	flags.StringVarP(&opts.search, "search", "s", "", "case-insensitive match on name, email, phone or company")
	flags.StringVar(&opts.sort, "sort", string(directory.SortByName), "sort field: name, email, phone or company")
	flags.StringVar(&opts.order, "order", string(directory.Ascending), "sort direction: asc or desc")
	flags.IntVarP(&opts.page, "page", "p", 0, "zero-based page index")
	flags.IntVar(&opts.pageSize, "page-size", directory.DefaultPageSize, "rows per page")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "fetch timeout")
	flags.BoolVar(&opts.asJSON, "json", false, "print the page as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log fetch details to stderr")

	return cmd
}

func runQuery(ctx context.Context, out, errOut io.Writer, opts *queryOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var sources []repositories.RecordSource
	if opts.source != "" {
		sources = append(sources, repositories.NewHTTPRecordSource(opts.source, nil, opts.timeout))
	}
	if opts.file != "" {
		sources = append(sources, repositories.NewFileRecordSource(opts.file))
	}
	if len(sources) == 0 {
		return fmt.Errorf("one of --source or --file is required")
	}

	field, ok := directory.ParseSortField(opts.sort)
	if !ok {
		return fmt.Errorf("unknown sort field %q", opts.sort)
	}
	order, ok := directory.ParseSortDirection(opts.order)
	if !ok {
		return fmt.Errorf("unknown sort direction %q", opts.order)
	}

	state := directory.NewQueryState()
	if err := state.SetPageSize(opts.pageSize); err != nil {
		return err
	}
	state.SetSearch(opts.search)
	state.SetSort(field, order)
	if err := state.SetPage(opts.page); err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	svc := services.NewDirectoryService(repositories.NewChainRecordSource(sources...), logger, 0)
	svc.SetFetchTimeout(2 * opts.timeout)

	ctx, cancel := context.WithTimeout(ctx, 2*opts.timeout)
	defer cancel()

	page, err := svc.Query(ctx, state)
	if err != nil {
		return fmt.Errorf("failed to load directory: %w", err)
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	return printTable(out, page)
}

func printTable(out io.Writer, page directory.ResultPage) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY")
	for _, r := range page.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Email, r.Phone, r.Company.Name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	pageNum := page.PageIndex + 1
	if page.PageCount == 0 {
		pageNum = 0
	}
	_, err := fmt.Fprintf(out, "\npage %d of %d, %d matched\n", pageNum, page.PageCount, page.TotalMatched)
	return err
}
