package model

import "testing"

func TestTaskStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusStarting, true},
		{TaskStatusDownloading, true},
		{TaskStatusStopping, true},
		{TaskStatusStopped, false},
		{TaskStatusCompleted, false},
		{TaskStatusError, false},
	}

	for _, test := range tests {
		if result := test.status.IsActive(); result != test.expected {
			t.Errorf("IsActive() for %s = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusStarting, false},
		{TaskStatusDownloading, false},
		{TaskStatusStopping, false},
		{TaskStatusStopped, true},
		{TaskStatusCompleted, true},
		{TaskStatusError, true},
	}

	for _, test := range tests {
		if result := test.status.IsFinished(); result != test.expected {
			t.Errorf("IsFinished() for %s = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_String(t *testing.T) {
	if TaskStatusDownloading.String() != "Downloading" {
		t.Errorf("String() = %s, expected Downloading", TaskStatusDownloading.String())
	}
}
