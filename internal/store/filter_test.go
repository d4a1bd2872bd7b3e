package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConjunction_Empty(t *testing.T) {
	var c conjunction
	assert.True(t, c.empty())

	clause, args := c.where()
	assert.Equal(t, "", clause)
	assert.Nil(t, args)
}

func TestConjunction_JoinsWithAnd(t *testing.T) {
	var c conjunction
	c.eq("discord_id", int64(7))
	c.eq("name", "incnone")

	clause, args := c.where()
	assert.Equal(t, " WHERE discord_id = ? AND name = ?", clause)
	assert.Equal(t, []any{int64(7), "incnone"}, args)
}
