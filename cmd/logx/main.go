// Command logx is a thin command-line client for logxd: it encodes one
// wire frame per invocation, sends it over the daemon's unix socket,
// and prints the ASCII status line the daemon replies with.
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/kulasekaran/logx/logx"
	"github.com/kulasekaran/logx/logxd"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: logx [--socket path] <command> [args]

commands:
  create [--path <file>]
  destroy
  trace|debug|info|warn|error|fatal|banner <message>
  cfg <key> <value>
  rotate-now
  timer start|stop|pause|resume <name>

cfg keys: console_logging, file_logging, console_level, file_level,
  colored_logging, tty_detection, print_config, rotate_type, size_mb,
  interval_days, max_backups`)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	socketPath := logxd.DefaultSocketPath
	for len(args) > 0 && args[0] == "--socket" {
		if len(args) < 2 {
			usage()
			return 2
		}
		socketPath = args[1]
		args = args[2:]
	}

	if len(args) == 0 {
		usage()
		return 2
	}

	hdr, payload, err := buildFrame(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logx: %s\n", err)
		return 2
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logx: connect %s: %s\n", socketPath, err)
		return 1
	}
	defer conn.Close()

	hdr.ClientPID = uint32(os.Getpid())
	hdr.PayloadLen = uint32(len(payload))
	if err := logxd.WriteHeader(conn, hdr); err != nil {
		fmt.Fprintf(os.Stderr, "logx: write header: %s\n", err)
		return 1
	}
	if len(payload) > 0 {
		if _, err := conn.Write(payload); err != nil {
			fmt.Fprintf(os.Stderr, "logx: write payload: %s\n", err)
			return 1
		}
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "logx: read reply: %s\n", err)
		return 1
	}
	fmt.Print(line)
	if line == "OK\n" {
		return 0
	}
	return 1
}

func buildFrame(args []string) (logxd.Header, []byte, error) {
	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "create":
		path := ""
		if len(rest) >= 2 && rest[0] == "--path" {
			path = rest[1]
		}
		p := logxd.CreatePayload{ConfigPath: path}.Encode()
		return logxd.Header{Magic: logxd.Magic, Version: logxd.Version, Cmd: logxd.CmdCreate}, p, nil

	case "destroy":
		return logxd.Header{Magic: logxd.Magic, Version: logxd.Version, Cmd: logxd.CmdDestroy}, nil, nil

	case "rotate-now":
		return logxd.Header{Magic: logxd.Magic, Version: logxd.Version, Cmd: logxd.CmdRotateNow}, nil, nil

	case "trace", "debug", "info", "warn", "error", "fatal", "banner":
		if len(rest) == 0 {
			return logxd.Header{}, nil, fmt.Errorf("%s requires a message", cmd)
		}
		lvl, ok := logx.ParseLevel(cmd)
		if !ok {
			return logxd.Header{}, nil, fmt.Errorf("unknown level %q", cmd)
		}
		p := logxd.LogPayload{Level: uint8(lvl), LineNum: 0, FileName: "logx-cli", Message: rest[0]}.Encode()
		return logxd.Header{Magic: logxd.Magic, Version: logxd.Version, Cmd: logxd.CmdLog}, p, nil

	case "cfg":
		if len(rest) != 2 {
			return logxd.Header{}, nil, fmt.Errorf("cfg requires <key> <value>")
		}
		key, ok := cfgKeyByName(rest[0])
		if !ok {
			return logxd.Header{}, nil, fmt.Errorf("unknown cfg key %q", rest[0])
		}
		val, err := cfgValue(key, rest[1])
		if err != nil {
			return logxd.Header{}, nil, err
		}
		p := logxd.CfgPayload{Key: key, Value: val}.Encode()
		return logxd.Header{Magic: logxd.Magic, Version: logxd.Version, Cmd: logxd.CmdCfg}, p, nil

	case "timer":
		if len(rest) != 2 {
			return logxd.Header{}, nil, fmt.Errorf("timer requires <action> <name>")
		}
		action, ok := timerActionByName(rest[0])
		if !ok {
			return logxd.Header{}, nil, fmt.Errorf("unknown timer action %q", rest[0])
		}
		p := logxd.TimerPayload{Action: action, Name: rest[1]}.Encode()
		return logxd.Header{Magic: logxd.Magic, Version: logxd.Version, Cmd: logxd.CmdTimer}, p, nil

	default:
		return logxd.Header{}, nil, fmt.Errorf("unknown command %q", cmd)
	}
}

func cfgKeyByName(s string) (logxd.CfgKey, bool) {
	switch s {
	case "console_logging":
		return logxd.CfgConsoleLogging, true
	case "file_logging":
		return logxd.CfgFileLogging, true
	case "console_level":
		return logxd.CfgConsoleLevel, true
	case "file_level":
		return logxd.CfgFileLevel, true
	case "colored_logging":
		return logxd.CfgColoredLogging, true
	case "tty_detection":
		return logxd.CfgTTYDetection, true
	case "print_config":
		return logxd.CfgPrintConfig, true
	case "rotate_type":
		return logxd.CfgRotateType, true
	case "size_mb":
		return logxd.CfgSizeMB, true
	case "interval_days":
		return logxd.CfgIntervalDays, true
	case "max_backups":
		return logxd.CfgMaxBackups, true
	default:
		return 0, false
	}
}

// cfgValue interprets the value argument according to key: bool flags
// accept true/false/1/0, level/rotate-type keys accept their string
// names, everything else is a plain integer.
func cfgValue(key logxd.CfgKey, s string) (uint32, error) {
	switch key {
	case logxd.CfgConsoleLogging, logxd.CfgFileLogging, logxd.CfgColoredLogging,
		logxd.CfgTTYDetection, logxd.CfgPrintConfig:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return 0, fmt.Errorf("expected a boolean value: %w", err)
		}
		if b {
			return 1, nil
		}
		return 0, nil

	case logxd.CfgConsoleLevel, logxd.CfgFileLevel:
		lvl, ok := logx.ParseLevel(s)
		if !ok {
			return 0, fmt.Errorf("unknown level %q", s)
		}
		return uint32(lvl), nil

	case logxd.CfgRotateType:
		rt, ok := logx.ParseRotateType(s)
		if !ok {
			return 0, fmt.Errorf("unknown rotate type %q", s)
		}
		return uint32(rt), nil

	default:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("expected an integer value: %w", err)
		}
		return uint32(n), nil
	}
}

func timerActionByName(s string) (logxd.TimerAction, bool) {
	switch s {
	case "start":
		return logxd.TimerStart, true
	case "stop":
		return logxd.TimerStop, true
	case "pause":
		return logxd.TimerPause, true
	case "resume":
		return logxd.TimerResume, true
	default:
		return 0, false
	}
}
