// Command browse is a terminal client for the events API. Each line typed
// on stdin becomes the search term; results print once typing settles.
//
//	browse -tab past -venue <id>
//	:upgrade gold    upgrade and refetch
//	:tab past        switch tab
//	:quit
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"eventsdiscovery/config"
	"eventsdiscovery/internal/browse"
	"eventsdiscovery/internal/domain/events"
	"eventsdiscovery/internal/domain/tiers"
	"eventsdiscovery/internal/logging"
)

func main() {
	config.LoadClientEnv()

	baseURL := flag.String("url", config.API_URL, "events API base URL")
	token := flag.String("token", config.API_TOKEN, "bearer token")
	tab := flag.String("tab", string(events.TabUpcoming), "upcoming or past")
	venue := flag.String("venue", "", "venue id filter")
	flag.Parse()

	logging.Init(logging.Config{Level: config.LOG_LEVEL, Format: config.LOG_FORMAT})

	if err := run(os.Stdin, os.Stdout, *baseURL, *token, *tab, *venue); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, baseURL, token, tab, venue string) error {
	t, ok := events.ParseTab(tab)
	if !ok {
		return fmt.Errorf("unknown tab %q", tab)
	}

	ctx := context.Background()
	out = &lockedWriter{w: out}
	client := browse.NewClient(baseURL, token)

	me, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("load current user: %w", err)
	}
	fmt.Fprintf(out, "signed in as %s (%s)\n", me.ID, me.Tier)

	s := browse.NewSession(
		me,
		client, client,
		browse.WithDebounce(config.BROWSE_DEBOUNCE),
		browse.WithOnChange(func(v browse.View) { printView(out, v) }),
	)
	defer s.Close()

	fs := browse.FilterState{Tab: t, VenueID: venue}
	s.Apply(ctx, fs)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == ":quit":
			return nil
		case strings.HasPrefix(line, ":upgrade "):
			res, err := s.Upgrade(ctx, tiers.Tier(strings.TrimSpace(strings.TrimPrefix(line, ":upgrade "))))
			if err != nil {
				fmt.Fprintf(out, "upgrade failed: %v\n", err)
				continue
			}
			if !res.Upgraded {
				fmt.Fprintf(out, "already on %s\n", s.Tier())
			}
		case strings.HasPrefix(line, ":tab "):
			nt, ok := events.ParseTab(strings.TrimSpace(strings.TrimPrefix(line, ":tab ")))
			if !ok {
				fmt.Fprintln(out, "tab must be upcoming or past")
				continue
			}
			fs.Tab = nt
			s.SetFilters(fs)
		default:
			fs.Search = line
			s.SetFilters(fs)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}

	// flush any pending debounced search before exiting on EOF
	s.Refresh(ctx)
	return nil
}

// lockedWriter serializes writes from the debounce timer and the input loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func printView(out io.Writer, v browse.View) {
	if v.Err != nil {
		fmt.Fprintf(out, "error: %v\n", v.Err)
		return
	}
	if len(v.Events) == 0 {
		fmt.Fprintln(out, "no events")
		return
	}
	for _, e := range v.Events {
		fmt.Fprintf(out, "%s  %-8s  %s\n", e.EventDate.Format("2006-01-02 15:04"), e.Tier, e.Title)
	}
	fmt.Fprintln(out)
}
