// ABOUTME: Watch daemon subcommand
// ABOUTME: Polls for due reminders and surfaces them until interrupted
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/prm/notify"
)

// WatchCommand runs the reminder poller in the foreground until SIGINT/SIGTERM
func WatchCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	interval := fs.Duration("interval", notify.DefaultPollInterval, "Poll interval (e.g. 30s, 5m)")
	_ = fs.Parse(args)

	poller := notify.NewPoller(database, notify.ConsoleNotifier{})
	if err := poller.Start(*interval); err != nil {
		return fmt.Errorf("failed to start reminder poller: %w", err)
	}
	defer poller.Stop()

	log.Printf("Watching for due reminders every %s (Ctrl-C to stop)", *interval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Stopping reminder poller")
	return nil
}
