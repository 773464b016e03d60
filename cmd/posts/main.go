package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/goliatone/go-blog"
	postscmd "github.com/goliatone/go-blog/internal/commands/posts"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "posts: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("posts", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configPath = flags.String("config", "", "Optional YAML config file")
		publicDir  = flags.String("public-dir", "", "Directory containing the posts folder (overrides config)")
		publicURL  = flags.String("public-url", "", "Fetch posts over HTTP from this base URL (overrides config)")
		slug       = flags.String("slug", "", "Preview a single post instead of listing")
		asJSON     = flags.Bool("json", false, "Print JSON instead of text")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := runtimeconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *publicDir != "" {
		cfg.PublicDir = *publicDir
	}
	if *publicURL != "" {
		cfg.PublicURL = *publicURL
		cfg.Fetch.Mode = runtimeconfig.FetchModeHTTP
	}
	if cfg.Logging.Provider == runtimeconfig.LoggingProviderGoLogger && cfg.Logging.Level == "info" {
		cfg.Logging.Level = "warn"
	}

	module, err := blog.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	if strings.TrimSpace(*slug) != "" {
		return preview(ctx, module, *slug, *asJSON, stdout)
	}
	return list(ctx, module, *asJSON, stdout, stderr)
}

func list(ctx context.Context, module *blog.Module, asJSON bool, stdout, stderr io.Writer) error {
	listing, err := module.Posts(ctx)
	if err != nil {
		return err
	}

	for _, failed := range listing.Failed() {
		fmt.Fprintf(stderr, "skipped %s: %v\n", failed.Filename, failed.Err)
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listing.Posts)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tDATE\tTITLE")
	for _, post := range listing.Posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", post.Slug, post.Date, post.Title)
	}
	return tw.Flush()
}

func preview(ctx context.Context, module *blog.Module, slug string, asJSON bool, stdout io.Writer) error {
	result := &postscmd.RenderResult{}
	cmd := postscmd.RenderPostCommand{Slug: slug, Result: result}
	if err := module.Container().RenderPostHandler().Execute(ctx, cmd); err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*blog.Post
			HTML string `json:"html"`
		}{Post: result.Post, HTML: string(result.HTML)})
	}

	fmt.Fprintf(stdout, "Slug: %s\n", result.Post.Slug)
	if len(result.Post.Metadata) > 0 {
		metadata, err := json.MarshalIndent(result.Post.Metadata, "", "  ")
		if err == nil {
			fmt.Fprintf(stdout, "Metadata:\n%s\n", metadata)
		}
	}
	fmt.Fprintf(stdout, "\nRendered HTML:\n%s\n", result.HTML)
	return nil
}
