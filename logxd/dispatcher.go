package logxd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/kulasekaran/logx/logx"
)

// Dispatcher decodes one frame per connection and routes it to the
// registry / logger operation it names.
type Dispatcher struct {
	Registry *Registry
}

func NewDispatcher(r *Registry) *Dispatcher {
	return &Dispatcher{Registry: r}
}

// Handle services exactly one frame from conn, writes the ASCII status
// reply, and closes the connection. It never panics on malformed input;
// protocol errors close the connection without mutating any registry
// state.
func (d *Dispatcher) Handle(conn net.Conn) {
	defer conn.Close()

	br := bufio.NewReader(conn)
	hdr, err := ReadHeader(br)
	if err != nil {
		writeStatus(conn, err)
		return
	}

	payload, err := ReadPayload(br, hdr.PayloadLen)
	if err != nil {
		writeStatus(conn, fmt.Errorf("%w: %s", ErrDispatchFailed, err))
		return
	}

	err = d.dispatch(hdr, payload)
	writeStatus(conn, err)
}

func (d *Dispatcher) dispatch(hdr Header, payload []byte) error {
	switch hdr.Cmd {
	case CmdCreate:
		return d.handleCreate(hdr, payload)
	case CmdDestroy:
		return d.handleDestroy(hdr)
	case CmdLog:
		return d.handleLog(hdr, payload)
	case CmdCfg:
		return d.handleCfg(hdr, payload)
	case CmdRotateNow:
		return d.handleRotateNow(hdr)
	case CmdTimer:
		return d.handleTimer(hdr, payload)
	default:
		return ErrInvalidCmd
	}
}

func (d *Dispatcher) handleCreate(hdr Header, payload []byte) error {
	if _, exists := d.Registry.Find(hdr.ClientPID); exists {
		return ErrLoggerExists
	}

	p, err := DecodeCreatePayload(payload)
	if err != nil {
		return err
	}

	var cfg *logx.Config
	if p.ConfigPath != "" {
		loaded, err := logx.LoadConfig(p.ConfigPath)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrCreateFailed, err)
		}
		cfg = &loaded
	}

	_, err = d.Registry.Create(hdr.ClientPID, cfg)
	return err
}

func (d *Dispatcher) handleDestroy(hdr Header) error {
	return d.Registry.Destroy(hdr.ClientPID)
}

func (d *Dispatcher) handleLog(hdr Header, payload []byte) error {
	lg, ok := d.Registry.Find(hdr.ClientPID)
	if !ok {
		return ErrLoggerNotFound
	}

	p, err := DecodeLogPayload(payload)
	if err != nil {
		return err
	}

	lvl := logx.Level(p.Level)
	if !lvl.IsValid() {
		return ErrInvalidLevel
	}

	lg.Log(lvl, p.FileName, "", int(p.LineNum), "%s", p.Message)
	return nil
}

func (d *Dispatcher) handleCfg(hdr Header, payload []byte) error {
	lg, ok := d.Registry.Find(hdr.ClientPID)
	if !ok {
		return ErrLoggerNotFound
	}

	p, err := DecodeCfgPayload(payload)
	if err != nil {
		return err
	}

	switch p.Key {
	case CfgConsoleLogging:
		setBool(p.Value, lg.EnableConsole, lg.DisableConsole)
	case CfgFileLogging:
		setBool(p.Value, lg.EnableFile, lg.DisableFile)
	case CfgColoredLogging:
		setBool(p.Value, lg.EnableColor, lg.DisableColor)
	case CfgTTYDetection:
		setBool(p.Value, lg.EnableTTYDetection, lg.DisableTTYDetection)
	case CfgPrintConfig:
		setBool(p.Value, lg.EnablePrintConfig, lg.DisablePrintConfig)
	case CfgConsoleLevel:
		lvl := logx.Level(p.Value)
		if !lvl.IsValid() {
			return ErrInvalidLevel
		}
		lg.SetConsoleLevel(lvl)
	case CfgFileLevel:
		lvl := logx.Level(p.Value)
		if !lvl.IsValid() {
			return ErrInvalidLevel
		}
		lg.SetFileLevel(lvl)
	case CfgRotateType:
		rt := logx.RotateType(p.Value)
		if !rt.IsValid() {
			return ErrInvalidConfig
		}
		lg.SetRotateType(rt)
	case CfgSizeMB:
		lg.SetSizeBytes(int64(p.Value) * 1024 * 1024)
	case CfgIntervalDays:
		lg.SetRotateIntervalDays(int(p.Value))
	case CfgMaxBackups:
		lg.SetMaxBackups(int(p.Value))
	default:
		return ErrInvalidConfig
	}
	return nil
}

func setBool(v uint32, enable, disable func()) {
	if v != 0 {
		enable()
	} else {
		disable()
	}
}

func (d *Dispatcher) handleRotateNow(hdr Header) error {
	lg, ok := d.Registry.Find(hdr.ClientPID)
	if !ok {
		return ErrLoggerNotFound
	}
	return lg.RotateNow()
}

func (d *Dispatcher) handleTimer(hdr Header, payload []byte) error {
	lg, ok := d.Registry.Find(hdr.ClientPID)
	if !ok {
		return ErrLoggerNotFound
	}

	p, err := DecodeTimerPayload(payload)
	if err != nil {
		return err
	}

	switch p.Action {
	case TimerStart:
		lg.TimerStart(p.Name)
	case TimerStop:
		lg.TimerStop(p.Name)
	case TimerPause:
		lg.TimerPause(p.Name)
	case TimerResume:
		lg.TimerResume(p.Name)
	default:
		return ErrInvalidCmd
	}
	return nil
}

// writeStatus writes "OK\n" or "ERR|<code>|<message>\n" to w.
func writeStatus(w io.Writer, err error) {
	if err == nil {
		io.WriteString(w, "OK\n")
		return
	}
	code := errorCode(err)
	msg := err.Error()
	if uerr := errors.Unwrap(err); uerr != nil {
		msg = uerr.Error()
	}
	fmt.Fprintf(w, "ERR|%s|%s\n", code, msg)
}
