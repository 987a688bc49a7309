package model

import (
	"testing"
)

func TestDownloadTask_GetETAString(t *testing.T) {
	tests := []struct {
		etaSec   int
		expected string
	}{
		{-1, "—"},
		{0, "—"},
		{30, "00:30"},
		{90, "01:30"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{7323, "02:02:03"},
	}

	for _, test := range tests {
		task := &DownloadTask{ETASec: test.etaSec}
		result := task.GetETAString()
		if result != test.expected {
			t.Errorf("GetETAString() with ETASec=%d = %s, expected %s", test.etaSec, result, test.expected)
		}
	}
}

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		name     string
		task     DownloadTask
		expected string
	}{
		{
			name:     "artist and title",
			task:     DownloadTask{Title: "Never Gonna Give You Up", Artist: "Rick Astley"},
			expected: "Rick Astley — Never Gonna Give You Up",
		},
		{
			name:     "title only",
			task:     DownloadTask{Title: "Never Gonna Give You Up"},
			expected: "Never Gonna Give You Up",
		},
		{
			name:     "url-shaped title is ignored",
			task:     DownloadTask{Title: "https://music.apple.com/x", URL: "https://music.apple.com/x"},
			expected: "https://music.apple.com/x",
		},
		{
			name:     "filename from output path",
			task:     DownloadTask{OutputPath: "/music/Rick Astley - Never Gonna Give You Up.m4a"},
			expected: "Rick Astley - Never Gonna Give You Up",
		},
		{
			name:     "url fallback",
			task:     DownloadTask{URL: "https://music.apple.com/us/album/x/1624945511?i=1624945512"},
			expected: "https://music.apple.com/us/album/x/1624945511?i=1624945512",
		},
		{
			name:     "empty task",
			task:     DownloadTask{},
			expected: "",
		},
	}

	for _, test := range tests {
		result := test.task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() [%s] = '%s', expected '%s'", test.name, result, test.expected)
		}
	}
}
