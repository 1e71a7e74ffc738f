// Package trigger models runtime-reported errors: non-fatal
// conditions a unit of work reports with a severity level instead of
// returning them. Reports go through an explicit Runtime whose
// handler stack lets callers capture them for a bounded scope.
package trigger

import "fmt"

// Level is the severity of a runtime-reported error. Values are bit
// flags so they can be combined into masks such as LevelAll.
type Level int

// Severity levels.
const (
	LevelError            Level = 1
	LevelWarning          Level = 2
	LevelParse            Level = 4
	LevelNotice           Level = 8
	LevelCoreError        Level = 16
	LevelCoreWarning      Level = 32
	LevelCompileError     Level = 64
	LevelCompileWarning   Level = 128
	LevelUserError        Level = 256
	LevelUserWarning      Level = 512
	LevelUserNotice       Level = 1024
	LevelStrict           Level = 2048
	LevelRecoverableError Level = 4096
	LevelDeprecated       Level = 8192
	LevelUserDeprecated   Level = 16384
	LevelAll              Level = 32767
)

var levelNames = map[Level]string{
	LevelError:            "E_ERROR",
	LevelWarning:          "E_WARNING",
	LevelParse:            "E_PARSE",
	LevelNotice:           "E_NOTICE",
	LevelCoreError:        "E_CORE_ERROR",
	LevelCoreWarning:      "E_CORE_WARNING",
	LevelCompileError:     "E_COMPILE_ERROR",
	LevelCompileWarning:   "E_COMPILE_WARNING",
	LevelUserError:        "E_USER_ERROR",
	LevelUserWarning:      "E_USER_WARNING",
	LevelUserNotice:       "E_USER_NOTICE",
	LevelStrict:           "E_STRICT",
	LevelRecoverableError: "E_RECOVERABLE_ERROR",
	LevelDeprecated:       "E_DEPRECATED",
	LevelUserDeprecated:   "E_USER_DEPRECATED",
	LevelAll:              "E_ALL",
}

// Name returns the canonical name of the level, or
// "Unknown error <n>" for values outside the enumeration.
func (l Level) Name() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Unknown error %d", int(l))
}

// String implements fmt.Stringer.
func (l Level) String() string { return l.Name() }

// NameOf returns the canonical name of the numeric level n.
func NameOf(n int) string { return Level(n).Name() }

// ParseLevel returns the level with the given canonical name.
func ParseLevel(name string) (Level, error) {
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown error level: %s", name)
}

// Known reports whether l is one of the enumerated levels.
func (l Level) Known() bool {
	_, ok := levelNames[l]
	return ok
}

func (l Level) isError() bool {
	switch l {
	case LevelError, LevelParse, LevelCoreError, LevelCompileError,
		LevelUserError, LevelRecoverableError:
		return true
	}
	return false
}

func (l Level) isWarning() bool {
	switch l {
	case LevelWarning, LevelCoreWarning, LevelCompileWarning,
		LevelUserWarning:
		return true
	}
	return false
}
