package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlertValidate(t *testing.T) {
	valid := Alert{UID: "abc123", Video: "/store7/cam2/clip.mp4", Timestamp: 1700000000, Store: "store7"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		alert Alert
	}{
		{"empty uid", Alert{Video: "/v.mp4", Timestamp: 1, Store: "s"}},
		{"empty video", Alert{UID: "u", Timestamp: 1, Store: "s"}},
		{"zero timestamp", Alert{UID: "u", Video: "/v.mp4", Store: "s"}},
		{"negative timestamp", Alert{UID: "u", Video: "/v.mp4", Timestamp: -5, Store: "s"}},
		{"empty store", Alert{UID: "u", Video: "/v.mp4", Timestamp: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.alert.Validate())
		})
	}
}

func TestResolutionString(t *testing.T) {
	w, h := 1920, 1080
	assert.Equal(t, "1920x1080", Resolution{Width: &w, Height: &h}.String())
	assert.Equal(t, "unknown", Resolution{}.String())
	assert.Equal(t, "unknown", Resolution{Width: &w}.String())
}
