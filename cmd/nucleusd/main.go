// nucleusd boots a simulated kernel, spawns init, runs a small
// process-tree scenario, and prints the resulting process table.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/rzbill/nucleus/internal/config"
	"github.com/rzbill/nucleus/pkg/kernel/process"
	"github.com/rzbill/nucleus/pkg/kernel/tty"
	"github.com/rzbill/nucleus/pkg/log"
)

var (
	configFile    = flag.String("config", "", "Configuration file path")
	initPath      = flag.String("init", "", "Init executable path (overrides config)")
	logLevel      = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat     = flag.String("log-format", "", "Log format (text, json)")
	debugLogLevel = flag.Bool("debug", false, "Enable debug mode (shorthand for --log-level=debug)")
	showHelp      = flag.Bool("help", false, "Show help")
)

func main() {
	flag.Parse()
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nucleusd: %v\n", err)
		os.Exit(1)
	}
	if *initPath != "" {
		cfg.Init.Path = *initPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *debugLogLevel {
		cfg.LogLevel = "debug"
	}

	logger := buildLogger(cfg)
	if *debugLogLevel {
		if rendered, err := cfg.YAML(); err == nil {
			logger.Debug("effective configuration", log.Str("config", rendered))
		}
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("simulation failed", log.Err(err))
		os.Exit(1)
	}
}

func buildLogger(cfg *config.Config) log.Logger {
	var formatter log.Formatter = log.NewTextFormatter()
	if cfg.LogFormat == "json" {
		formatter = log.NewJSONFormatter()
	}
	return log.NewLogger(
		log.WithLevel(log.ParseLevel(cfg.LogLevel)),
		log.WithFormatter(formatter),
	)
}

func run(cfg *config.Config, logger log.Logger) error {
	kernel := process.NewKernel(
		process.WithLogger(logger),
		process.WithTerminal(tty.NewTerminal(cfg.Terminal)),
	)
	logger.Info("kernel booted", log.Str("boot_id", kernel.BootID().String()))

	init, err := kernel.SpawnUserProcess(cfg.Init.Path, cfg.Init.Args, cfg.Init.Env)
	if err != nil {
		return fmt.Errorf("failed to spawn init: %w", err)
	}

	// A small session: init adopts a shell and a daemon, the shell
	// runs a child of its own, then the shell exits and init reaps
	// it. The shell's orphan must end up under init.
	shell, err := spawnChildOf(kernel, init, "/bin/sh")
	if err != nil {
		return err
	}
	if _, err := spawnChildOf(kernel, init, "/usr/bin/logd"); err != nil {
		return err
	}
	job, err := spawnChildOf(kernel, shell, "/usr/bin/sleep")
	if err != nil {
		return err
	}

	shell.ExitGroup(0)

	reapedPid, code, err := init.WaitChild(process.ChildWithPid(shell.Pid()), false)
	if err != nil {
		return fmt.Errorf("failed to reap shell: %w", err)
	}
	logger.Info("init reaped child",
		log.Int32("pid", int32(reapedPid)),
		log.Int32("exit_code", int32(code)))

	renderProcessTable(kernel)

	if orphanParent := job.Parent(); orphanParent == init {
		color.Green("orphan pid %d adopted by init", job.Pid())
	} else {
		color.Red("orphan pid %d has wrong parent", job.Pid())
	}
	color.Cyan("foreground pgid: %d", kernel.Terminal().Fg())
	return nil
}

// spawnChildOf spawns a process and links it under the given parent.
func spawnChildOf(kernel *process.Kernel, parent *process.Process, path string) (*process.Process, error) {
	child, err := kernel.SpawnUserProcess(path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn %s: %w", path, err)
	}
	child.SetParent(parent)
	parent.AddChild(child)
	return child, nil
}

func renderProcessTable(kernel *process.Kernel) {
	data := pterm.TableData{{"PID", "PGID", "PPID", "STATE", "EXIT", "EXECUTABLE"}}
	table := kernel.ProcessTable()
	for _, pid := range table.Pids() {
		p, ok := table.PidToProcess(pid)
		if !ok {
			continue
		}
		ppid := process.Pid(0)
		if parent := p.Parent(); parent != nil {
			ppid = parent.Pid()
		}
		sg := p.Status().Lock()
		state := sg.Value().String()
		sg.Unlock()
		eg := p.ExecutablePath().Lock()
		path := *eg.Value()
		eg.Unlock()
		data = append(data, []string{
			fmt.Sprintf("%d", pid),
			fmt.Sprintf("%d", p.Pgid()),
			fmt.Sprintf("%d", ppid),
			state,
			fmt.Sprintf("%d", p.ExitCode()),
			path,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
