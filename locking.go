package sqldialect

import (
	"fmt"
	"strconv"
	"strings"
)

type LockMode int

// Lock modes in ascending strength. GreaterThan relies on this order.
const (
	LockNone LockMode = iota
	LockRead
	LockOptimistic
	LockOptimisticForceIncrement
	LockPessimisticRead
	LockUpgrade
	LockWrite
	LockPessimisticWrite
	LockUpgradeNowait
	LockUpgradeSkipLocked
	LockForce
	LockPessimisticForceIncrement
)

var lockModeNames = map[LockMode]string{
	LockNone:                      "none",
	LockRead:                      "read",
	LockOptimistic:                "optimistic",
	LockOptimisticForceIncrement:  "optimistic_force_increment",
	LockPessimisticRead:           "pessimistic_read",
	LockUpgrade:                   "upgrade",
	LockWrite:                     "write",
	LockPessimisticWrite:          "pessimistic_write",
	LockUpgradeNowait:             "upgrade_nowait",
	LockUpgradeSkipLocked:         "upgrade_skiplocked",
	LockForce:                     "force",
	LockPessimisticForceIncrement: "pessimistic_force_increment",
}

func (mode LockMode) String() string {
	if name, ok := lockModeNames[mode]; ok {
		return name
	}
	return "LockMode(" + strconv.Itoa(int(mode)) + ")"
}

func ParseLockMode(name string) (LockMode, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for mode, modeName := range lockModeNames {
		if modeName == lower {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("sqldialect: unknown lock mode '%s'", name)
}

func (mode LockMode) GreaterThan(other LockMode) bool {
	return mode > other
}

// Timeout is a lock wait in milliseconds, or one of the special values below.
// The zero value waits forever.
type Timeout int

const (
	WaitForever Timeout = 0
	NoWait      Timeout = -1
	SkipLocked  Timeout = -2
)

// Seconds rounds a positive timeout up to whole seconds.
func (timeout Timeout) Seconds() int {
	if timeout <= 0 {
		return 0
	}
	return (int(timeout) + 999) / 1000
}

func ParseTimeout(s string) (Timeout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wait_forever", "forever":
		return WaitForever, nil
	case "nowait", "no_wait":
		return NoWait, nil
	case "skip_locked", "skiplocked":
		return SkipLocked, nil
	}
	ms, err := strconv.Atoi(s)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("sqldialect: invalid lock timeout '%s'", s)
	}
	if ms == 0 {
		return NoWait, nil
	}
	return Timeout(ms), nil
}

// LockOptions describes the lock requested for a statement. Aliases holds
// per-table-alias lock modes.
type LockOptions struct {
	Mode    LockMode
	Timeout Timeout
	Aliases map[string]LockMode
}

// ModeFor is the lock mode applying to alias, falling back to Mode.
func (options LockOptions) ModeFor(alias string) LockMode {
	if mode, ok := options.Aliases[alias]; ok {
		return mode
	}
	return options.Mode
}

// ForTable narrows options to the mode applying to table, for databases that
// lock each table reference separately.
func (options LockOptions) ForTable(table string) LockOptions {
	return LockOptions{Mode: options.ModeFor(table), Timeout: options.Timeout}
}

// Locker renders row-locking clauses. An empty aliases argument means the
// clause applies to the whole statement.
type Locker interface {
	ForUpdateString() string
	ForUpdateOf(aliases string) string
	ForUpdateNowaitString(aliases string) string
	ForUpdateSkipLockedString(aliases string) string
	WriteLockString(aliases string, timeout Timeout) string
	ReadLockString(aliases string, timeout Timeout) string
	// LockHint decorates a table reference for databases that lock through table hints.
	LockHint(table string, options LockOptions) string
}

// ForUpdateClause resolves options to the clause appended after a select.
// The strongest alias-specific mode wins over the statement mode.
func ForUpdateClause(locker Locker, aliases string, options LockOptions) string {
	mode := options.Mode
	for _, aliasMode := range options.Aliases {
		if aliasMode.GreaterThan(mode) {
			mode = aliasMode
		}
	}
	switch mode {
	case LockUpgrade, LockWrite:
		if aliases == "" {
			return locker.ForUpdateString()
		}
		return locker.ForUpdateOf(aliases)
	case LockPessimisticRead:
		return locker.ReadLockString(aliases, options.Timeout)
	case LockPessimisticWrite:
		return locker.WriteLockString(aliases, options.Timeout)
	case LockUpgradeNowait, LockForce, LockPessimisticForceIncrement:
		return locker.ForUpdateNowaitString(aliases)
	case LockUpgradeSkipLocked:
		return locker.ForUpdateSkipLockedString(aliases)
	}
	return ""
}

// LockSupport says which wait modifiers a database accepts after a lock clause.
type LockSupport struct {
	NoWait     bool
	SkipLocked bool
	Wait       bool
}

// WithTimeout appends the wait modifier for timeout to lock when supported.
func (support LockSupport) WithTimeout(lock string, timeout Timeout) string {
	switch timeout {
	case NoWait:
		if support.NoWait {
			return lock + " nowait"
		}
	case SkipLocked:
		if support.SkipLocked {
			return lock + " skip locked"
		}
	case WaitForever:
	default:
		if support.Wait {
			return lock + " wait " + strconv.Itoa(timeout.Seconds())
		}
	}
	return lock
}
