package cli

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/epicevents/crm/internal/core/domain"
)

var errHelp = flag.ErrHelp

// timeLayouts are tried in order. Times without a zone are read as UTC.
var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

type flags struct {
	*flag.FlagSet
	set map[string]bool
}

func (a *App) flags(name string) *flags {
	fs := flag.NewFlagSet("crm "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return &flags{FlagSet: fs, set: map[string]bool{}}
}

func (f *flags) parse(args []string) error {
	if err := f.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return usagef("%s: %v", f.Name(), err)
	}
	if f.NArg() > 0 {
		return usagef("%s: unexpected argument %q", f.Name(), f.Arg(0))
	}
	f.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return nil
}

// require fails unless every named flag was given.
func (f *flags) require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !f.set[name] {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		return usagef("%s: missing %s", f.Name(), strings.Join(missing, ", "))
	}
	return nil
}

// optString returns nil unless the flag was given.
func (f *flags) optString(name, v string) *string {
	if !f.set[name] {
		return nil
	}
	return &v
}

func (f *flags) optInt(name string, v int) *int {
	if !f.set[name] {
		return nil
	}
	return &v
}

type moneyFlag struct {
	v domain.Money
}

func (m *moneyFlag) String() string {
	if m == nil {
		return ""
	}
	return m.v.String()
}

func (m *moneyFlag) Set(s string) error {
	v, err := domain.ParseMoney(s)
	if err != nil {
		return err
	}
	m.v = v
	return nil
}

func (f *flags) money(name, usage string) *moneyFlag {
	m := &moneyFlag{}
	f.Var(m, name, usage)
	return m
}

func (f *flags) optMoney(name string, m *moneyFlag) *domain.Money {
	if !f.set[name] {
		return nil
	}
	v := m.v
	return &v
}

type timeFlag struct {
	v time.Time
}

func (t *timeFlag) String() string {
	if t == nil || t.v.IsZero() {
		return ""
	}
	return t.v.Format(time.RFC3339)
}

func (t *timeFlag) Set(s string) error {
	v, err := parseTime(s)
	if err != nil {
		return err
	}
	t.v = v
	return nil
}

func (f *flags) time(name, usage string) *timeFlag {
	t := &timeFlag{}
	f.Var(t, name, usage)
	return t
}

func (f *flags) optTime(name string, t *timeFlag) *time.Time {
	if !f.set[name] {
		return nil
	}
	v := t.v
	return &v
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if v, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return v.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("time must look like 2025-06-01 10:00 or RFC 3339")
}
