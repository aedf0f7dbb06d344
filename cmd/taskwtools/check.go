package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fentz26/taskwtools/internal/config"
	"github.com/fentz26/taskwtools/internal/doctor"
	"github.com/fentz26/taskwtools/internal/render"
	"github.com/spf13/cobra"
)

var (
	checkJSON  bool
	initConfig bool
)

var taskCheckCmd = &cobra.Command{
	Use:   "taskcheck",
	Short: "Check that task, timew and the hooks are installed",
	Long: `Looks up the configured task and timew binaries and the on-modify and
on-add hooks in the taskwarrior hooks directory. Exits non-zero if any
check fails. With --init-config the configuration in effect is written to
the config file if there is none yet.`,
	Args: cobra.NoArgs,
	RunE: runTaskCheck,
}

func init() {
	taskCheckCmd.Flags().BoolVar(&checkJSON, "json", false, "Print results as JSON")
	taskCheckCmd.Flags().BoolVar(&initConfig, "init-config", false, "Write the configuration file if it does not exist")
}

func runTaskCheck(cmd *cobra.Command, args []string) error {
	if initConfig {
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		wrote, err := writeConfigIfMissing(path, cfg)
		if err != nil {
			return err
		}
		if wrote {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		}
	}

	d := doctor.NewDetector(cfg.TaskCommand, cfg.TimewCommand)
	checks := d.Scan()
	debugf("hooks dir %s", d.HooksDir)

	out := cmd.OutOrStdout()
	if checkJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprint(out, render.Checks(checks))
	}

	failed := 0
	for _, c := range checks {
		if !c.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	return nil
}

// writeConfigIfMissing saves c to path unless a file is already there.
func writeConfigIfMissing(path string, c *config.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking config file: %w", err)
	}
	if err := config.SaveConfig(path, c); err != nil {
		return false, err
	}
	return true, nil
}
