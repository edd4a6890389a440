package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/sme-crm/internal/discovery"
)

var (
	searchQuery       string
	searchLocation    string
	searchCategory    string
	searchJSON        bool
	searchEnrich      bool
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for businesses near a location",
	Long: "Runs a places text search and prints the normalized candidates. " +
		"With --interactive, each line read from stdin is a new query, searched once typing pauses.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("search"); err != nil {
			return err
		}
		ctx := cmd.Context()

		var mu sync.Mutex
		var lastErr error
		searcher := initSearcher(cfg, nil, func(_ discovery.Query, err error) {
			mu.Lock()
			lastErr = err
			mu.Unlock()
		})

		q := discovery.Query{Keywords: searchQuery, Location: searchLocation, Category: searchCategory}
		if searchInteractive {
			debounce := time.Duration(cfg.Search.DebounceMs) * time.Millisecond
			return runInteractive(ctx, searcher, os.Stdin, os.Stdout, q, debounce)
		}

		res, err := searcher.Search(ctx, q)
		if err != nil {
			return err
		}
		if res.Failed {
			mu.Lock()
			defer mu.Unlock()
			if lastErr == nil {
				return eris.New("search failed")
			}
			return eris.Wrap(lastErr, "search failed")
		}
		if searchEnrich {
			res.Candidates = searcher.Enrich(ctx, res.Candidates)
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		formatCandidates(os.Stdout, res.Candidates)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "search keywords")
	searchCmd.Flags().StringVar(&searchLocation, "location", "", "city or address to search around")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "business category, used when no keywords are given")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the result as JSON")
	searchCmd.Flags().BoolVar(&searchEnrich, "enrich", false, "fetch phone, website and rating for each candidate")
	searchCmd.Flags().BoolVar(&searchInteractive, "interactive", false, "read queries from stdin")
	rootCmd.AddCommand(searchCmd)
}

// runInteractive submits every line of in as the keywords of base. Lines
// arriving within debounce of each other collapse into one search. The
// line ":clear" empties the candidate list. At end of input the last
// pending query is searched immediately.
func runInteractive(ctx context.Context, searcher *discovery.Searcher, in io.Reader, out io.Writer, base discovery.Query, debounce time.Duration) error {
	sess := discovery.NewSession(searcher, discovery.WithDebounce(debounce))
	defer sess.Close()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case res := <-sess.Results():
				printResult(out, res)
			case <-stop:
				for {
					select {
					case res := <-sess.Results():
						printResult(out, res)
					default:
						return
					}
				}
			}
		}
	}()

	var pending *discovery.Query
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case ":clear":
			sess.Clear()
			pending = nil
			_, _ = fmt.Fprintln(out, "cleared")
			continue
		}
		q := base
		q.Keywords = line
		pending = &q
		sess.Submit(ctx, q)
	}
	scanErr := scanner.Err()

	if pending != nil && scanErr == nil {
		if _, _, err := sess.SearchNow(ctx, *pending); err != nil {
			scanErr = err
		}
	}

	close(stop)
	wg.Wait()
	if scanErr != nil {
		return eris.Wrap(scanErr, "interactive search")
	}
	return nil
}

func printResult(out io.Writer, res discovery.Result) {
	if res.Failed {
		_, _ = fmt.Fprintf(out, "search %q failed; keeping previous results\n", res.Query.Keywords)
		return
	}
	_, _ = fmt.Fprintf(out, "%d results for %q\n", len(res.Candidates), res.Query.Keywords)
	formatCandidates(out, res.Candidates)
}

func formatCandidates(out io.Writer, cands []discovery.Candidate) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCATEGORY\tADDRESS\tRATING\tPHONE")
	_, _ = fmt.Fprintln(w, "----\t--------\t-------\t------\t-----")

	for _, c := range cands {
		rating := "-"
		if c.Rating != nil {
			rating = fmt.Sprintf("%.1f", *c.Rating)
		}
		name := c.Name
		if c.Degraded {
			name += " (no location)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncate(name, 40),
			c.Category,
			truncate(c.Address, 50),
			rating,
			c.Phone,
		)
	}
	_ = w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
