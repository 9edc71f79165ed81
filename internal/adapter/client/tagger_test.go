package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTags(t *testing.T) {
	assert.Equal(t, map[string]string{"subject": "biology", "level": "beginner"},
		parseTags(` {"subject":" Biology ","level":"Beginner"} `))
	assert.Equal(t, map[string]string{"subject": "math"}, parseTags(`{"subject":"Math","level":3}`))
	assert.Nil(t, parseTags(`{"subject":"","level":""}`))
	assert.Nil(t, parseTags("subject: math"))
}
