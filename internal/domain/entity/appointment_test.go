package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlotsOverlap(t *testing.T) {
	tests := []struct {
		name     string
		start1   string
		end1     string
		start2   string
		end2     string
		expected bool
	}{
		{"partial overlap", "14:00", "14:45", "14:30", "15:15", true},
		{"no overlap after", "14:00", "14:45", "14:45", "15:30", false},
		{"no overlap before", "14:45", "15:30", "14:00", "14:45", false},
		{"contained", "14:00", "15:00", "14:15", "14:30", true},
		{"containing", "14:15", "14:30", "14:00", "15:00", true},
		{"identical", "14:00", "14:45", "14:00", "14:45", true},
		{"disjoint", "09:00", "09:45", "11:00", "11:45", false},
		{"touching start", "10:00", "10:30", "09:30", "10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TimeSlotsOverlap(tt.start1, tt.end1, tt.start2, tt.end2))
			// Symmetric
			assert.Equal(t, tt.expected, TimeSlotsOverlap(tt.start2, tt.end2, tt.start1, tt.end1))
		})
	}
}

func TestAppointmentStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{AppointmentScheduled, AppointmentConfirmed, true},
		{AppointmentScheduled, AppointmentCancelled, true},
		{AppointmentScheduled, AppointmentNoShow, true},
		{AppointmentScheduled, AppointmentCompleted, false},
		{AppointmentConfirmed, AppointmentInProgress, true},
		{AppointmentConfirmed, AppointmentCancelled, true},
		{AppointmentConfirmed, AppointmentNoShow, true},
		{AppointmentConfirmed, AppointmentScheduled, false},
		{AppointmentInProgress, AppointmentCompleted, true},
		{AppointmentInProgress, AppointmentCancelled, false},
		{AppointmentCompleted, AppointmentCancelled, false},
		{AppointmentCancelled, AppointmentScheduled, false},
		{AppointmentNoShow, AppointmentConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestAppointmentStatusIsTerminal(t *testing.T) {
	assert.True(t, AppointmentCompleted.IsTerminal())
	assert.True(t, AppointmentCancelled.IsTerminal())
	assert.True(t, AppointmentNoShow.IsTerminal())
	assert.False(t, AppointmentScheduled.IsTerminal())
	assert.False(t, AppointmentConfirmed.IsTerminal())
	assert.False(t, AppointmentInProgress.IsTerminal())
}
