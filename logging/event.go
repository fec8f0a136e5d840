package logging

import (
	"time"

	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// event adapts a *zerolog.Event to logiface.Event, implementing just the
// field types this repository's diagnostics use. Unimplemented optional
// methods fall back to AddField via logiface.UnimplementedEvent.
type event struct {
	logiface.UnimplementedEvent
	z   *zerolog.Event
	lvl logiface.Level
	msg string
}

func (e *event) Level() logiface.Level { return e.lvl }

func (e *event) AddField(key string, val any) {
	if e.z != nil {
		e.z.Interface(key, val)
	}
}

func (e *event) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

func (e *event) AddError(err error) bool {
	if e.z == nil {
		return false
	}
	e.z.Err(err)
	return true
}

func (e *event) AddString(key, val string) bool {
	if e.z == nil {
		return false
	}
	e.z.Str(key, val)
	return true
}

func (e *event) AddInt(key string, val int) bool {
	if e.z == nil {
		return false
	}
	e.z.Int(key, val)
	return true
}

func (e *event) AddInt64(key string, val int64) bool {
	if e.z == nil {
		return false
	}
	e.z.Int64(key, val)
	return true
}

func (e *event) AddUint64(key string, val uint64) bool {
	if e.z == nil {
		return false
	}
	e.z.Uint64(key, val)
	return true
}

func (e *event) AddFloat64(key string, val float64) bool {
	if e.z == nil {
		return false
	}
	e.z.Float64(key, val)
	return true
}

func (e *event) AddBool(key string, val bool) bool {
	if e.z == nil {
		return false
	}
	e.z.Bool(key, val)
	return true
}

func (e *event) AddTime(key string, val time.Time) bool {
	if e.z == nil {
		return false
	}
	e.z.Time(key, val)
	return true
}

func (e *event) AddDuration(key string, val time.Duration) bool {
	if e.z == nil {
		return false
	}
	e.z.Dur(key, val)
	return true
}

// backend implements logiface.EventFactory, EventReleaser and
// logiface.Writer[*event] against a single zerolog.Logger.
type backend struct {
	z zerolog.Logger
}

func levelToZerolog(l logiface.Level) zerolog.Level {
	switch {
	case l <= logiface.LevelEmergency:
		return zerolog.PanicLevel
	case l <= logiface.LevelCritical:
		return zerolog.FatalLevel
	case l <= logiface.LevelError:
		return zerolog.ErrorLevel
	case l <= logiface.LevelWarning:
		return zerolog.WarnLevel
	case l <= logiface.LevelNotice, l <= logiface.LevelInformational:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

func (b *backend) NewEvent(level logiface.Level) *event {
	return &event{z: b.z.WithLevel(levelToZerolog(level)), lvl: level}
}

func (b *backend) ReleaseEvent(*event) {}

func (b *backend) Write(e *event) error {
	if e.z != nil {
		e.z.Msg(e.msg)
	}
	return nil
}
