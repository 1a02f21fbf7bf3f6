package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobMerge(t *testing.T) {
	flags := Job{Email: "flag@example.com"}
	defaults := Job{Schedule: "0 * * * *", Email: "cfg@example.com", File: "/srv/a.txt"}

	merged := flags.Merge(defaults)
	assert.Equal(t, Job{Schedule: "0 * * * *", Email: "flag@example.com", File: "/srv/a.txt"}, merged)
	assert.Equal(t, defaults, Job{}.Merge(defaults))
}
