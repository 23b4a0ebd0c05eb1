// Command bookingctl drives the vendor booking workflow from a terminal.
//
//	bookingctl [-url ...] [-token ...] list [-status pending]
//	bookingctl confirm <id> [-price 50000] [-notes "..."]
//	bookingctl reject <id> -reason "..."
//	bookingctl complete <id>
//	bookingctl events <id>
//
// Command flags may come before or after the id.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"eventmarket/pkg/config"
	"eventmarket/pkg/marketplace"
)

func main() {
	cfg := config.Load()

	baseURL := flag.String("url", defaultBaseURL(cfg.HTTPAddr), "API base url")
	token := flag.String("token", os.Getenv("MARKET_TOKEN"), "vendor bearer token (see cmd/dev/token)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bookingctl [-url u] [-token t] list|confirm|reject|complete|events [id] [command flags]")
		flag.PrintDefaults()
	}
	flag.Parse()

	c, err := parseCommand(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	client := marketplace.Client{BaseURL: *baseURL, Credentials: marketplace.StaticToken(*token)}
	board := marketplace.NewBookingBoard(client)
	if err := board.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "load bookings: %v\n", err)
		os.Exit(1)
	}

	cmd, id := c.name, c.id
	switch cmd {
	case "list":
		if err = board.SetFilter(c.status); err == nil {
			printBoard(board)
		}
	case "confirm":
		err = board.Confirm(ctx, id, c.price, c.notes)
	case "reject":
		err = board.Reject(ctx, id, c.reason)
	case "complete":
		err = board.Complete(ctx, id, stdinConfirmer(os.Stdin, os.Stdout))
	case "events":
		var evs []marketplace.BookingEvent
		if evs, err = client.BookingEvents(ctx, id); err == nil {
			for _, e := range evs {
				fmt.Printf("%s  %-16s %s (%s)\n", e.OccurredAt.Format("2006-01-02 15:04"), e.EventType, e.Summary, e.Actor)
			}
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
	if cmd != "list" && cmd != "events" {
		printBoard(board)
	}
}

type command struct {
	name   string
	id     string
	status string
	price  string
	notes  string
	reason string
}

// parseCommand reads the verb, its id and the verb's own flags from args.
func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errors.New("missing command")
	}
	c := command{name: args[0]}
	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	switch c.name {
	case "list":
		fs.StringVar(&c.status, "status", "all", "list filter: all or a booking status")
	case "confirm":
		fs.StringVar(&c.price, "price", "", "total price")
		fs.StringVar(&c.notes, "notes", "", "vendor notes")
	case "reject":
		fs.StringVar(&c.reason, "reason", "", "rejection reason")
	case "complete", "events":
	default:
		return command{}, fmt.Errorf("unknown command %q", c.name)
	}

	rest := args[1:]
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		c.id, rest = rest[0], rest[1:]
	}
	if err := fs.Parse(rest); err != nil {
		return command{}, fmt.Errorf("%s: %w", c.name, err)
	}
	extra := fs.Args()
	if c.id == "" && len(extra) > 0 {
		c.id, extra = extra[0], extra[1:]
	}
	if len(extra) > 0 {
		return command{}, fmt.Errorf("%s: unexpected arguments %v", c.name, extra)
	}
	if c.name != "list" && c.id == "" {
		return command{}, fmt.Errorf("%s needs a booking id", c.name)
	}
	return c, nil
}

func printBoard(b *marketplace.BookingBoard) {
	st := b.Stats()
	fmt.Printf("total=%d pending=%d confirmed=%d rejected=%d cancelled=%d completed=%d\n",
		st.Total, st.Pending, st.Confirmed, st.Rejected, st.Cancelled, st.Completed)
	for _, bk := range b.Visible() {
		var actions []string
		for _, a := range b.Actions(bk.ID) {
			actions = append(actions, string(a))
		}
		fmt.Printf("%s  %-10s %-28s %s  [%s]\n", bk.ID, bk.Status, bk.EventName, bk.EventDate, strings.Join(actions, ","))
	}
}

// stdinConfirmer asks on out and reads y/N from in.
func stdinConfirmer(in io.Reader, out io.Writer) marketplace.Confirmer {
	r := bufio.NewReader(in)
	return marketplace.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}

func defaultBaseURL(httpAddr string) string {
	if strings.HasPrefix(httpAddr, ":") {
		return "http://localhost" + httpAddr
	}
	return "http://localhost:8081"
}
