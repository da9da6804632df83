package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"softi2c/emul"
	"softi2c/internal/config"
	"softi2c/slave"
	"softi2c/slave/hal"
	"softi2c/slave/hal/sim"
)

// console is the interactive master-side command loop.
type console struct {
	cfg config.Config

	peripheral *sim.Peripheral
	module     *slave.Module
	eeprom     *emul.EEPROM

	rl *readline.Instance

	// Manual-mode receive buffer; printed on read-complete.
	rxBuf []byte
}

func newConsole(cfg config.Config, p *sim.Peripheral, m *slave.Module) (*console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "master> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	c := &console{
		cfg:        cfg,
		peripheral: p,
		module:     m,
		rl:         rl,
	}

	if cfg.EEPROM.Enable {
		ee, err := emul.NewEEPROM(m, emul.EEPROMConfig{
			Size:     cfg.EEPROM.Size,
			PageSize: cfg.EEPROM.PageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set up eeprom: %w", err)
		}
		c.eeprom = ee
	} else {
		c.installManualCallbacks()
	}

	return c, nil
}

// installManualCallbacks wires event reporting for manual mode, where
// packet jobs are armed from the console.
func (c *console) installManualCallbacks() {
	m := c.module
	out := func(format string, args ...any) {
		fmt.Fprintf(c.rl.Stdout(), format+"\n", args...)
	}

	m.RegisterCallback(slave.CallbackReadComplete, func(m *slave.Module) {
		n := m.LastTransfer()
		if n <= len(c.rxBuf) {
			out("<< read complete: % X", c.rxBuf[:n])
		} else {
			out("<< read complete: %d bytes", n)
		}
	})
	m.RegisterCallback(slave.CallbackWriteComplete, func(m *slave.Module) {
		out("<< write complete: %d bytes sent", m.LastTransfer())
	})
	m.RegisterCallback(slave.CallbackError, func(m *slave.Module) {
		out("<< error: %s", m.Status())
	})
	m.RegisterCallback(slave.CallbackErrorLastTransfer, func(m *slave.Module) {
		out("<< error on last transfer: %s", m.Status())
	})

	for _, kind := range []slave.Callback{
		slave.CallbackReadComplete,
		slave.CallbackWriteComplete,
		slave.CallbackError,
		slave.CallbackErrorLastTransfer,
	} {
		m.EnableCallback(kind)
	}
}

// run starts the interactive command loop.
func (c *console) run() {
	defer c.rl.Close()

	c.printHelp()

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "start", "s":
			c.cmdStart(args)

		case "write", "w":
			c.cmdWrite(args)

		case "read", "r":
			c.cmdRead(args)

		case "stop", "p":
			c.peripheral.Stop()

		case "arm-read":
			c.cmdArmRead(args)

		case "arm-write":
			c.cmdArmWrite(args)

		case "nack":
			c.cmdNack(args)

		case "fault":
			c.cmdFault(args)

		case "status":
			c.cmdStatus()

		case "dump":
			c.cmdDump(args)

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *console) printHelp() {
	fmt.Fprintf(c.rl.Stdout(), `
softi2c simulated bus (slave at 0x%02X, %s mode)

  Master side:
    start w|r          - Start condition addressing the slave (write/read)
    write <hex>...     - Transmit bytes to the slave
    read <n> [nack]    - Clock n bytes from the slave; nack the last one
    stop               - Stop condition
    fault <kind>       - Latch a bus fault for the next start (buserr, coll, timeout)

  Slave side:
    arm-read <n>       - Arm an n-byte receive job
    arm-write <hex>... - Arm the given bytes for transmit
    nack on|off        - Toggle NACK-on-address (discard mode)
    status             - Show module status

  Other:
    dump [addr [n]]    - Dump emulated EEPROM memory (eeprom mode)
    help               - Show this help
    quit               - Exit
`, c.peripheral.Addr(), c.modeName())
}

func (c *console) modeName() string {
	if c.eeprom != nil {
		return "eeprom"
	}
	return "manual"
}

func (c *console) cmdStart(args []string) {
	out := c.rl.Stdout()
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: start w|r")
		return
	}

	var read bool
	switch strings.ToLower(args[0]) {
	case "w", "write":
		read = false
	case "r", "read":
		read = true
	default:
		fmt.Fprintln(out, "usage: start w|r")
		return
	}

	if c.peripheral.Start(c.peripheral.Addr(), read) {
		fmt.Fprintln(out, "ACK")
	} else {
		fmt.Fprintln(out, "NACK")
	}
}

func (c *console) cmdWrite(args []string) {
	out := c.rl.Stdout()
	data, err := parseHexBytes(args)
	if err != nil {
		fmt.Fprintf(out, "write: %v\n", err)
		return
	}
	if len(data) == 0 {
		fmt.Fprintln(out, "usage: write <hex byte>...")
		return
	}

	for i, b := range data {
		if !c.peripheral.WriteByte(b) {
			fmt.Fprintf(out, "byte %d (%02X): NACK\n", i, b)
			return
		}
	}
	fmt.Fprintf(out, "%d bytes ACKed\n", len(data))
}

func (c *console) cmdRead(args []string) {
	out := c.rl.Stdout()
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(out, "usage: read <n> [nack]")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		fmt.Fprintln(out, "usage: read <n> [nack]")
		return
	}
	nackLast := len(args) == 2 && strings.ToLower(args[1]) == "nack"

	data := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		ack := !(nackLast && i == n-1)
		b, ok := c.peripheral.ReadByte(ack)
		if !ok {
			fmt.Fprintf(out, "byte %d: slave released the bus\n", i)
			break
		}
		data = append(data, b)
	}
	if len(data) > 0 {
		fmt.Fprintf(out, "% X\n", data)
	}
}

func (c *console) cmdArmRead(args []string) {
	out := c.rl.Stdout()
	if c.eeprom != nil {
		fmt.Fprintln(out, "arm-read: eeprom mode arms its own jobs")
		return
	}
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: arm-read <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		fmt.Fprintln(out, "usage: arm-read <n>")
		return
	}

	c.rxBuf = make([]byte, n)
	if err := c.module.ReadPacketJob(c.rxBuf); err != nil {
		fmt.Fprintf(out, "arm-read: %v\n", err)
	}
}

func (c *console) cmdArmWrite(args []string) {
	out := c.rl.Stdout()
	if c.eeprom != nil {
		fmt.Fprintln(out, "arm-write: eeprom mode arms its own jobs")
		return
	}
	data, err := parseHexBytes(args)
	if err != nil {
		fmt.Fprintf(out, "arm-write: %v\n", err)
		return
	}
	if len(data) == 0 {
		fmt.Fprintln(out, "usage: arm-write <hex byte>...")
		return
	}

	if err := c.module.WritePacketJob(data); err != nil {
		fmt.Fprintf(out, "arm-write: %v\n", err)
	}
}

func (c *console) cmdNack(args []string) {
	out := c.rl.Stdout()
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: nack on|off")
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		c.module.EnableNackOnAddress()
	case "off":
		c.module.DisableNackOnAddress()
	default:
		fmt.Fprintln(out, "usage: nack on|off")
	}
}

func (c *console) cmdFault(args []string) {
	out := c.rl.Stdout()
	if len(args) != 1 {
		fmt.Fprintln(out, "usage: fault buserr|coll|timeout")
		return
	}
	switch strings.ToLower(args[0]) {
	case "buserr":
		c.peripheral.InjectFault(hal.StatusBusError)
	case "coll":
		c.peripheral.InjectFault(hal.StatusCollision)
	case "timeout":
		c.peripheral.InjectFault(hal.StatusLowTimeout)
	default:
		fmt.Fprintln(out, "usage: fault buserr|coll|timeout")
	}
}

func (c *console) cmdStatus() {
	m := c.module
	fmt.Fprintf(c.rl.Stdout(), "status=%s busy=%v direction=%s last=%d\n",
		m.Status(), m.Busy(), m.Direction(), m.LastTransfer())
}

func (c *console) cmdDump(args []string) {
	out := c.rl.Stdout()
	if c.eeprom == nil {
		fmt.Fprintln(out, "dump: only available in eeprom mode")
		return
	}

	addr, n := 0, 64
	var err error
	if len(args) >= 1 {
		if addr, err = strconv.Atoi(args[0]); err != nil || addr < 0 {
			fmt.Fprintln(out, "usage: dump [addr [n]]")
			return
		}
	}
	if len(args) >= 2 {
		if n, err = strconv.Atoi(args[1]); err != nil || n <= 0 {
			fmt.Fprintln(out, "usage: dump [addr [n]]")
			return
		}
	}

	for i := 0; i < n; i += 16 {
		row := make([]byte, 0, 16)
		for j := i; j < n && j < i+16; j++ {
			row = append(row, c.eeprom.Peek(addr+j))
		}
		fmt.Fprintf(out, "%04X: % X\n", addr+i, row)
	}
}

// parseHexBytes parses whitespace-separated hex bytes ("01 ab ff").
func parseHexBytes(args []string) ([]byte, error) {
	data := make([]byte, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(a), "0x"), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("bad hex byte %q", a)
		}
		data = append(data, byte(v))
	}
	return data, nil
}
