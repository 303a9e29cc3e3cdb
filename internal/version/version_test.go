package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{"development build", "development", "unknown", "development"},
		{"release with commit", "1.0.0", "abc1234", "1.0.0+abc1234"},
		{"release without commit", "2.0.0", "unknown", "2.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVersion, origCommit := Version, Commit
			t.Cleanup(func() { Version, Commit = origVersion, origCommit })

			Version, Commit = tt.version, tt.commit
			assert.Equal(t, tt.want, String())
		})
	}
}
