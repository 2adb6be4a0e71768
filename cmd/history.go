package cmd

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/nibzard/duke-go/internal/config"
	"github.com/nibzard/duke-go/internal/logging"
)

// historyCommand shows the recorded sessions for the current task file.
func historyCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("duke history", flag.ContinueOnError)
	listSessions := fs.Bool("sessions", false, "List sessions instead of showing the latest one")
	n := fs.Int("n", 0, "Number of entries to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	dir := logging.SessionDir(cfg.LogDir, cfg.DataFile)
	sessions, err := logging.FindSessions(dir)
	if err != nil {
		return fmt.Errorf("finding sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No session history found.")
		return nil
	}

	if *listSessions {
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SESSION\tLAST WRITE\tPATH")
		for _, s := range sessions {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.ModTime.Format("2006-01-02 15:04:05"), s.Path)
		}
		return tw.Flush()
	}

	session := sessions[0]
	if fs.NArg() == 1 {
		found := false
		for _, s := range sessions {
			if s.ID == fs.Arg(0) {
				session, found = s, true
				break
			}
		}
		if !found {
			return fmt.Errorf("session %s not found", fs.Arg(0))
		}
	}

	entries, err := logging.ReadEntries(session.Path)
	if err != nil {
		return err
	}
	if *n > 0 && len(entries) > *n {
		entries = entries[len(entries)-*n:]
	}

	fmt.Printf("Session %s\n", session.ID)
	for _, e := range entries {
		status := "ok"
		if !e.OK {
			status = "error: " + e.Error
		}
		fmt.Printf("  %s  %-40q %s\n", e.Timestamp.Local().Format("15:04:05"), e.Input, status)
	}
	return nil
}
