package logger

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// prettyEncoder prints a console line per entry with a coloured level and
// the structured fields below it as indented JSON.
type prettyEncoder struct {
	zapcore.Encoder

	console zapcore.Encoder
	pool    buffer.Pool
}

func newPrettyEncoder(cfg zapcore.EncoderConfig) *prettyEncoder {
	return &prettyEncoder{
		Encoder: zapcore.NewJSONEncoder(cfg),
		console: zapcore.NewConsoleEncoder(cfg),
		pool:    buffer.NewPool(),
	}
}

// Clone keeps fields added through With on the JSON side.
func (e *prettyEncoder) Clone() zapcore.Encoder {
	return &prettyEncoder{
		Encoder: e.Encoder.Clone(),
		console: e.console,
		pool:    e.pool,
	}
}

func (e *prettyEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	head, err := e.console.EncodeEntry(entry, nil)
	if err != nil {
		return nil, err
	}
	line := colorizeLevel(strings.TrimRight(head.String(), "\n"), entry.Level)
	head.Free()

	body, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer body.Free()

	out := e.pool.Get()
	out.AppendString(line)

	var parsed map[string]any
	if jsonErr := json.Unmarshal(body.Bytes(), &parsed); jsonErr == nil {
		for _, k := range []string{messageKey, levelKey, nameKey, timeKey} {
			delete(parsed, k)
		}
		if len(parsed) > 0 {
			if indented, mErr := json.MarshalIndent(parsed, "", "  "); mErr == nil {
				out.AppendString("\n")
				out.AppendString(string(indented))
			}
		}
	}

	out.AppendString("\n")
	return out, nil
}

func colorizeLevel(line string, level zapcore.Level) string {
	var c *color.Color

	switch level {
	case zapcore.DebugLevel:
		c = color.New(color.FgCyan)
	case zapcore.InfoLevel:
		c = color.New(color.FgGreen)
	case zapcore.WarnLevel:
		c = color.New(color.FgYellow)
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		c = color.New(color.FgRed, color.Bold)
	case zapcore.InvalidLevel:
		c = color.New(color.FgMagenta)
	default:
		return line
	}

	label := level.CapitalString()
	return strings.Replace(line, label, c.Sprint(label), 1)
}

func newPrettyLogger(cfg *zap.Config) *zap.Logger {
	core := zapcore.NewCore(newPrettyEncoder(cfg.EncoderConfig), zapcore.AddSync(os.Stdout), cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}
