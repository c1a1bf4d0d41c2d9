package model

import "time"

// ProjectInfo describes one staging location holding exported documents.
// The extraction pipeline only uses it to know where to look.
type ProjectInfo struct {
	Path              string    `json:"path" yaml:"path"`
	Name              string    `json:"name" yaml:"name"`
	LastModified      time.Time `json:"last_modified" yaml:"last_modified"`
	IsValid           bool      `json:"is_valid" yaml:"is_valid"`
	ValidationMessage string    `json:"validation_message" yaml:"validation_message"`
}
