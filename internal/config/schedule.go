package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_schedule.yaml
var defaultSchedule []byte

const universalKeyword = "universal"

// Schedule is the salon's catalog: which start times a slot may use and
// which services exist.
type Schedule struct {
	SlotTimes      []string `yaml:"slot_times"`
	Services       []string `yaml:"services"`
	UniversalLabel string   `yaml:"universal_label"`
}

// LoadSchedule parses path, or the embedded catalog when path is empty.
func LoadSchedule(path string) (*Schedule, error) {
	data := defaultSchedule
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read schedule %s: %w", path, err)
		}
		data = b
	}
	return ParseSchedule(data)
}

// DefaultSchedule returns the embedded catalog. It panics only if the
// embedded file is broken.
func DefaultSchedule() *Schedule {
	s, err := ParseSchedule(defaultSchedule)
	if err != nil {
		panic(err)
	}
	return s
}

func ParseSchedule(data []byte) (*Schedule, error) {
	var s Schedule
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	if len(s.SlotTimes) == 0 {
		return nil, fmt.Errorf("schedule: slot_times must not be empty")
	}
	for i, t := range s.SlotTimes {
		t = strings.TrimSpace(t)
		if _, err := time.Parse("15:04", t); err != nil || len(t) != 5 {
			return nil, fmt.Errorf("schedule: invalid slot time %q", t)
		}
		s.SlotTimes[i] = t
	}
	if len(s.Services) == 0 {
		return nil, fmt.Errorf("schedule: services must not be empty")
	}
	for i, svc := range s.Services {
		s.Services[i] = strings.TrimSpace(svc)
		if s.Services[i] == "" {
			return nil, fmt.Errorf("schedule: empty service name")
		}
	}
	s.UniversalLabel = strings.TrimSpace(s.UniversalLabel)
	return &s, nil
}

// NormalizeService trims name and maps the universal label or keyword to
// the empty string used for universal slots.
func (s *Schedule) NormalizeService(name string) string {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, universalKeyword) {
		return ""
	}
	if s.UniversalLabel != "" && strings.EqualFold(name, s.UniversalLabel) {
		return ""
	}
	return name
}

// ValidService reports whether a normalized name is empty or in the catalog.
func (s *Schedule) ValidService(name string) bool {
	if name == "" {
		return true
	}
	for _, svc := range s.Services {
		if svc == name {
			return true
		}
	}
	return false
}

func (s *Schedule) ValidTime(t string) bool {
	for _, st := range s.SlotTimes {
		if st == t {
			return true
		}
	}
	return false
}
