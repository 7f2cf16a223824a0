package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "opsrun v"+Version, String())

	oldCommit, oldTime := GitCommit, BuildTime
	t.Cleanup(func() { GitCommit, BuildTime = oldCommit, oldTime })
	GitCommit, BuildTime = "abc1234", "2025-06-01"
	assert.Equal(t, "opsrun v"+Version+" (abc1234) built 2025-06-01", String())
}
