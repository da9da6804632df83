// Command softi2c-sim runs the slave-mode I²C engine against a
// simulated bus with an interactive master console.
//
// The console plays the bus master: it issues start/stop conditions,
// writes and reads bytes, and shows the acknowledge bits the slave
// drives. The slave side is a live [slave.Module], either in manual mode
// (packet jobs armed from the console) or emulating a 24Cxx EEPROM.
//
// Usage:
//
//	softi2c-sim [flags]
//
// Flags:
//
//	-config string      Configuration file path (YAML)
//	-eeprom             Enable the EEPROM emulation regardless of config
//	-log-level string   Override log level: debug, info, warn, error
//	-cpuprofile string  Write a CPU profile to this path (profile builds)
//	-memprofile string  Write a heap profile to this path on exit (profile builds)
//
// Example session:
//
//	master> arm-read 4
//	master> start w
//	ACK
//	master> write 01 02 03 04
//	master> stop
//	<< read complete: 01 02 03 04
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"softi2c/internal/config"
	"softi2c/pkg"
	"softi2c/pkg/prof"
	"softi2c/slave"
	"softi2c/slave/hal/sim"
)

func main() {
	var (
		configPath = flag.String("config", "", "configuration file path")
		eeprom     = flag.Bool("eeprom", false, "enable the EEPROM emulation")
		logLevel   = flag.String("log-level", "", "log level: debug, info, warn, error")
		cpuProfile = flag.String("cpuprofile", "", "write a CPU profile to this path (profile builds)")
		memProfile = flag.String("memprofile", "", "write a heap profile to this path on exit (profile builds)")
	)
	flag.Parse()

	if *cpuProfile != "" {
		if err := prof.StartCPU(*cpuProfile); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(1)
		}
		defer prof.StopCPU()
	}
	if *memProfile != "" {
		defer func() {
			if err := prof.Write(prof.ProfileHeap, *memProfile); err != nil {
				fmt.Fprintf(os.Stderr, "write heap profile: %v\n", err)
			}
		}()
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}
	if *eeprom {
		cfg.EEPROM.Enable = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	applyLogConfig(cfg.Log)

	peripheral := sim.New(cfg.Slave.Address)
	module := slave.NewModule(peripheral)
	if err := slave.Bind(0, module); err != nil {
		fmt.Fprintf(os.Stderr, "bind instance: %v\n", err)
		os.Exit(1)
	}
	peripheral.Attach(func() { slave.Interrupt(0) })

	c, err := newConsole(cfg, peripheral, module)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start console: %v\n", err)
		os.Exit(1)
	}
	c.run()
}

func applyLogConfig(lc config.LogConfig) {
	switch lc.Level {
	case "debug":
		pkg.SetLogLevel(slog.LevelDebug)
	case "info":
		pkg.SetLogLevel(slog.LevelInfo)
	case "warn", "":
		pkg.SetLogLevel(slog.LevelWarn)
	case "error":
		pkg.SetLogLevel(slog.LevelError)
	}
	if lc.Format == "json" {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	}
}
