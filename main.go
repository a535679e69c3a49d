package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"xwlb/internal/config"
	"xwlb/internal/formatter"
	"xwlb/internal/scraper"
	"xwlb/internal/sites/eastmoney"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

var errEmptyContent = errors.New("no content retrieved")

// flagValues holds one invocation's flags.
type flagValues struct {
	date         string
	headless     bool
	outputFormat string
	outputFile   string
	timeout      time.Duration
	proxyURL     string
	userAgent    string
	site         string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit status. Only the
// result goes to stdout; progress and errors go to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cmd := newRootCmd(cfg, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig() (*config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		// no home directory: environment and defaults only
		path = ""
	}
	return config.Load(path)
}

func newRootCmd(cfg *config.Config, stdout, stderr io.Writer) *cobra.Command {
	var fv flagValues

	rootCmd := &cobra.Command{
		Use:     "xwlb",
		Short:   "Fetch the daily 新闻联播 summary from EastMoney",
		Version: version,
		Long: `xwlb drives a browser to the EastMoney search page, finds the
"<M>月<D>日晚间央视新闻联播要闻集锦" article for the requested day and prints
its sanitized HTML body.`,
		Example: `  # Today's summary in a visible browser window
  xwlb

  # A given day, headless, as Markdown
  xwlb --date 2024-03-15 --headless -f markdown

  # Save to a file, format inferred from the extension
  xwlb --date 2024-03-15 --headless -o 20240315.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, fv, stdout, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.Flags().StringVar(&fv.date, "date", "", "Target date in YYYY-MM-DD format (default: today)")
	rootCmd.Flags().BoolVar(&fv.headless, "headless", false, "Run browser in headless mode")
	rootCmd.Flags().StringVarP(&fv.outputFormat, "format", "f", cfg.Format, "Output format ("+strings.Join(formatter.Formats, ", ")+")")
	rootCmd.Flags().StringVarP(&fv.outputFile, "output", "o", "", "Output file path (format inferred from extension if -f not specified)")
	rootCmd.Flags().DurationVarP(&fv.timeout, "timeout", "t", cfg.Timeout, "Page load timeout")
	rootCmd.Flags().StringVarP(&fv.proxyURL, "proxy", "p", cfg.Proxy, "Proxy URL (e.g. http://127.0.0.1:7890), defaults to "+config.EnvProxy+" env var")
	rootCmd.Flags().StringVar(&fv.userAgent, "user-agent", cfg.UserAgent, "Override the browser user agent")
	rootCmd.Flags().StringVar(&fv.site, "site", eastmoney.Name, "Source site ("+strings.Join(scraper.Names(), ", ")+")")

	return rootCmd
}

func execute(cmd *cobra.Command, fv flagValues, stdout, stderr io.Writer) error {
	// The date is checked before anything touches the network.
	date, err := eastmoney.ParseDate(fv.date, time.Now())
	if err != nil {
		return err
	}

	// If output file is specified but format is not, infer format from file extension
	if fv.outputFile != "" && !cmd.Flags().Changed("format") {
		if inferred := inferFormatFromExtension(fv.outputFile); inferred != "" {
			fv.outputFormat = inferred
		}
	}

	if err := validateFlags(fv); err != nil {
		return err
	}

	s, ok := scraper.Get(fv.site)
	if !ok {
		return fmt.Errorf("unknown site: %s", fv.site)
	}

	content, err := s.Scrape(cmd.Context(), scraper.Options{
		Date:      date,
		Timeout:   fv.timeout,
		Headless:  fv.headless,
		ProxyURL:  fv.proxyURL,
		UserAgent: fv.userAgent,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(stderr, format+"\n", args...)
		},
	})
	if err == nil {
		err = requireContent(content)
	}
	if err != nil {
		fmt.Fprintln(stderr, "Failed to retrieve news content.")
		return err
	}

	outputContent, err := formatter.Format(content, fv.outputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if fv.outputFile != "" {
		if err := os.WriteFile(fv.outputFile, []byte(outputContent), 0644); err != nil {
			return fmt.Errorf("failed to write to file: %w", err)
		}
		fmt.Fprintf(stderr, "Output written to: %s\n", fv.outputFile)
		return nil
	}

	fmt.Fprintln(stdout, outputContent)
	return nil
}

// requireContent rejects a result whose HTML fragment is empty.
func requireContent(content scraper.Content) error {
	fragment, err := content.ToHTML()
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	if strings.TrimSpace(fragment) == "" {
		return errEmptyContent
	}
	return nil
}

func validateFlags(fv flagValues) error {
	if !formatter.Valid(fv.outputFormat) {
		return fmt.Errorf("invalid output format: %s", fv.outputFormat)
	}
	if fv.timeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", fv.timeout)
	}
	return nil
}

// inferFormatFromExtension infers output format from file extension
func inferFormatFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return "markdown"
	case ".json":
		return "json"
	case ".html", ".htm":
		return "html"
	case ".txt":
		return "text"
	case ".csv":
		return "csv"
	default:
		return ""
	}
}
