package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchedule(t *testing.T) {
	s := DefaultSchedule()

	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00", "17:00", "18:00"}, s.SlotTimes)
	assert.Contains(t, s.Services, "Nail Art")
	assert.Equal(t, "Tous services", s.UniversalLabel)
}

func TestSchedule_NormalizeService(t *testing.T) {
	s := DefaultSchedule()

	assert.Equal(t, "", s.NormalizeService("Tous services"))
	assert.Equal(t, "", s.NormalizeService(" universal "))
	assert.Equal(t, "", s.NormalizeService(""))
	assert.Equal(t, "Pose Gel", s.NormalizeService(" Pose Gel"))
}

func TestSchedule_Validation(t *testing.T) {
	s := DefaultSchedule()

	assert.True(t, s.ValidTime("14:00"))
	assert.False(t, s.ValidTime("13:00"))
	assert.False(t, s.ValidTime("9:00"))

	assert.True(t, s.ValidService(""))
	assert.True(t, s.ValidService("Soins des Pieds"))
	assert.False(t, s.ValidService("Haircut"))
}

func TestLoadSchedule_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slot_times: [\"08:30\"]\nservices: [Brow Lift]\n"), 0o600))

	s, err := LoadSchedule(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"08:30"}, s.SlotTimes)
	assert.True(t, s.ValidService("Brow Lift"))
	assert.Equal(t, "", s.NormalizeService("universal"))
}

func TestParseSchedule_Rejects(t *testing.T) {
	_, err := ParseSchedule([]byte("slot_times: [\"25:00\"]\nservices: [A]\n"))
	assert.Error(t, err)

	_, err = ParseSchedule([]byte("slot_times: [\"09:00\"]\n"))
	assert.Error(t, err)

	_, err = ParseSchedule([]byte("slot_times: ["))
	assert.Error(t, err)
}
