package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
	colorTime  = "\x1b[38;5;107m"
	colorName  = "\x1b[38;5;208m"
	colorKey   = "\x1b[38;5;109m"
	colorWarn  = "\x1b[38;5;179m"
	colorError = "\x1b[38;5;167m"
)

var bufferPool = buffer.NewPool()

// minimalEncoder is a compact console encoder.
// Format: "13:04:35  WARN  store  Rescaled command scores  total_score=88 entries=12"
type minimalEncoder struct {
	zapcore.Encoder // base encoder handles With() field accumulation
	color           bool
}

func newMinimalEncoder(color bool) *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		color:   color,
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		color:   enc.color,
	}
}

func (enc *minimalEncoder) paint(color, s string) string {
	if !enc.color || s == "" {
		return s
	}
	return color + s + colorReset
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := bufferPool.Get()

	final.AppendString(enc.paint(colorTime, ent.Time.Format("15:04:05")))

	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(enc.levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(colorName, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(ent.Message)

	if kv := enc.formatFields(fields); kv != "" {
		final.AppendString("  ")
		final.AppendString(kv)
	}

	final.AppendString("\n")
	return final, nil
}

func (enc *minimalEncoder) levelString(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.WarnLevel:
		return enc.paint(colorBold+colorWarn, "WARN")
	default:
		return enc.paint(colorBold+colorError, level.CapitalString())
	}
}

// formatFields renders every field as key=value, in call order.
// No field is ever dropped.
func (enc *minimalEncoder) formatFields(fields []zapcore.Field) string {
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		m := zapcore.NewMapObjectEncoder()
		field.AddTo(m)
		value, ok := m.Fields[field.Key]
		if !ok {
			continue
		}
		parts = append(parts, enc.paint(colorKey, field.Key)+"="+fmt.Sprint(value))
	}
	return strings.Join(parts, " ")
}
