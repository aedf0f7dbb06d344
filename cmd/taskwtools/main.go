package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fentz26/taskwtools/internal/config"
	"github.com/spf13/cobra"
)

// exitSoftware is EX_SOFTWARE from sysexits.h.
const exitSoftware = 70

var (
	cfg   *config.Config
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "taskwtools",
	Short: "taskwtools - taskwarrior and timewarrior coordination",
	Long: `taskwtools finds taskwarrior tasks from loose identifiers (ids, uuids,
labels, label paths or description text) and keeps timewarrior intervals in
step with task changes.

Every verb may also be run through a link named after it, e.g. "taskget".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfigFromHome()
		if err != nil {
			return err
		}
		cfg = c
		debug = cfg.Debug || os.Getenv("DEBUG") != ""
		debugf("task=%s timew=%s journal=%v", cfg.TaskCommand, cfg.TimewCommand, cfg.Journal.Enabled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCommands()...)
	rootCmd.AddCommand(taskGetCmd, taskDoCmd, taskStopCmd, taskNowCmd, taskJournalCmd, taskCheckCmd)
	rootCmd.AddCommand(reportCommands()...)
	rootCmd.AddCommand(onModifyCmd, onAddCmd)
}

func debugf(format string, args ...interface{}) {
	if debug {
		log.Printf("debug: "+format, args...)
	}
}

// invocationVerb maps the name the binary was run as onto a subcommand.
// Hook scripts carry a suffix ("on-modify.taskwtools"). Names that match no
// subcommand yield "".
func invocationVerb(invname string) string {
	name := invname
	if strings.HasPrefix(name, "on-") {
		if i := strings.IndexByte(name, '.'); i > 0 {
			name = name[:i]
		}
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == name {
			return name
		}
	}
	return ""
}

func main() {
	invname := filepath.Base(os.Args[0])
	log.SetFlags(0)
	log.SetPrefix(invname + ": ")

	args := os.Args[1:]
	if verb := invocationVerb(invname); verb != "" {
		args = append([]string{verb}, args...)
	}
	rootCmd.SetArgs(rewriteTagExclusions(rootCmd, args))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Println(err)
		os.Exit(exitSoftware)
	}
}
