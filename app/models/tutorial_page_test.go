package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTutorialPageValidate(t *testing.T) {
	page := &TutorialPage{
		Title:   "Connecting a passkey wallet",
		Slug:    "connect-wallet",
		Content: "Step by step through the connect ceremony.",
	}

	require.NoError(t, page.Validate())
}

func TestTutorialPageValidateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		page TutorialPage
	}{
		{"Missing title", TutorialPage{Slug: "s", Content: "c"}},
		{"Missing slug", TutorialPage{Title: "t", Content: "c"}},
		{"Missing content", TutorialPage{Title: "t", Slug: "s"}},
		{"Title too long", TutorialPage{Title: strings.Repeat("x", 256), Slug: "s", Content: "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.page.Validate())
		})
	}
}
