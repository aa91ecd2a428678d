package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	Version, Commit = "1.2.0", "unknown"
	assert.Equal(t, "1.2.0", String())

	Commit = "abc1234"
	assert.Equal(t, "1.2.0+abc1234", String())

	Commit = ""
	assert.Equal(t, "1.2.0", String())
}
