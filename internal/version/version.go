// Package version сообщает, из чего собран сервер.
// Поля заполняются через -ldflags "-X skirmish-server/internal/version.Date=...";
// если флагов не было, берутся VCS-метки, которые go build кладет в бинарник.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

var (
	Date   string // YYYY-MM-DD (UTC)
	Commit string
	Branch string
	CI     string
)

// Номер сборки - число дней от первого дня проекта.
var epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// Build - сведения о сборке для /version и стартового лога.
type Build struct {
	Number    int    `json:"number"`
	Date      string `json:"date"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch,omitempty"`
	CI        string `json:"ci"`
	Modified  bool   `json:"modified,omitempty"` // Собрано из грязного дерева
	GoVersion string `json:"goVersion"`
	Error     string `json:"error,omitempty"`
}

// Current собирает Build из ldflags с подстановкой VCS-меток.
func Current() Build {
	b := Build{
		Date:      Date,
		Commit:    Commit,
		Branch:    Branch,
		CI:        orDefault(CI, "local"),
		GoVersion: runtime.Version(),
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		fillFromVCS(&b, info.Settings)
	}

	n, err := buildNumber(b.Date)
	if err != nil {
		b.Error = err.Error()
		return b
	}
	b.Number = n
	return b
}

// fillFromVCS заполняет только пустые поля: ldflags главнее.
func fillFromVCS(b *Build, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = shortCommit(s.Value)
			}
		case "vcs.time":
			if b.Date == "" && len(s.Value) >= len("2006-01-02") {
				b.Date = s.Value[:len("2006-01-02")]
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
}

func buildNumber(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is unknown")
	}
	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(epoch) {
		return 0, fmt.Errorf("build date %s is before %s", date, epoch.Format(time.DateOnly))
	}
	return int(t.Sub(epoch) / (24 * time.Hour)), nil
}

func (b Build) String() string {
	if b.Error != "" {
		return fmt.Sprintf("skirmish-server dev (%s, %s)", b.Error, b.GoVersion)
	}
	s := fmt.Sprintf("skirmish-server #%d (%s) %s@%s ci[%s] %s",
		b.Number, b.Date, orDefault(b.Branch, "-"), orDefault(b.Commit, "unknown"), b.CI, b.GoVersion)
	if b.Modified {
		s += " +dirty"
	}
	return s
}

func shortCommit(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
