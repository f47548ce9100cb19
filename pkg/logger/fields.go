package logger

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field is a typed key/value attached to a log entry.
type Field interface {
	AddTo(event *zerolog.Event)
	GetKeyValue() (string, interface{})
}

type stringField struct{ key, value string }

func (f stringField) AddTo(e *zerolog.Event)             { e.Str(f.key, f.value) }
func (f stringField) GetKeyValue() (string, interface{}) { return f.key, f.value }

type intField struct {
	key   string
	value int64
}

func (f intField) AddTo(e *zerolog.Event)             { e.Int64(f.key, f.value) }
func (f intField) GetKeyValue() (string, interface{}) { return f.key, f.value }

type floatField struct {
	key   string
	value float64
}

func (f floatField) AddTo(e *zerolog.Event)             { e.Float64(f.key, f.value) }
func (f floatField) GetKeyValue() (string, interface{}) { return f.key, f.value }

type boolField struct {
	key   string
	value bool
}

func (f boolField) AddTo(e *zerolog.Event)             { e.Bool(f.key, f.value) }
func (f boolField) GetKeyValue() (string, interface{}) { return f.key, f.value }

type errField struct{ err error }

func (f errField) AddTo(e *zerolog.Event) { e.Err(f.err) }
func (f errField) GetKeyValue() (string, interface{}) {
	if f.err == nil {
		return "error", nil
	}
	return "error", f.err.Error()
}

type anyField struct {
	key   string
	value interface{}
}

func (f anyField) AddTo(e *zerolog.Event)             { e.Interface(f.key, f.value) }
func (f anyField) GetKeyValue() (string, interface{}) { return f.key, f.value }

func String(key, value string) Field          { return stringField{key, value} }
func Int(key string, value int) Field         { return intField{key, int64(value)} }
func Int64(key string, value int64) Field     { return intField{key, value} }
func Float64(key string, value float64) Field { return floatField{key, value} }
func Bool(key string, value bool) Field       { return boolField{key, value} }
func Error(err error) Field                   { return errField{err} }
func Any(key string, value interface{}) Field { return anyField{key, value} }

// Duration records d in milliseconds.
func Duration(key string, d time.Duration) Field {
	return intField{key, d.Milliseconds()}
}

func Strings(key string, values []string) Field {
	return stringField{key, strings.Join(values, ", ")}
}
