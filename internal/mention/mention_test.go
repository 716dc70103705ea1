package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var directory = []Entry{
	{Email: "jane.doe@portal.io", Name: "Jane Doe"},
	{Email: "jdoe@portal.io", Name: "John Doe"},
	{Email: "sam@portal.io", Name: "Samantha Reyes"},
	{Email: "sam.k@portal.io", Name: "Sam Kline"},
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("ping @jane.doe, and @sam. also mail me at ops@portal.io (@x-y-)")
	require.Len(t, tokens, 3)
	assert.Equal(t, "jane.doe", tokens[0].Handle)
	assert.Equal(t, "sam", tokens[1].Handle)
	assert.Equal(t, "x-y", tokens[2].Handle)
	assert.Equal(t, "@jane.doe", "ping @jane.doe, and"[tokens[0].Start:tokens[0].End])
}

func TestTokenizeIgnoresBareAt(t *testing.T) {
	assert.Empty(t, Tokenize("@ @. nothing here"))
}

func TestResolveRanking(t *testing.T) {
	entry, ok := Resolve("SAM", directory)
	require.True(t, ok)
	assert.Equal(t, "sam@portal.io", entry.Email, "email local part beats name prefix")

	entry, ok = Resolve("johndoe", directory)
	require.True(t, ok)
	assert.Equal(t, "jdoe@portal.io", entry.Email)

	entry, ok = Resolve("john.doe", directory)
	require.True(t, ok)
	assert.Equal(t, "jdoe@portal.io", entry.Email)

	entry, ok = Resolve("sama", directory)
	require.True(t, ok)
	assert.Equal(t, "Samantha Reyes", entry.Name)

	_, ok = Resolve("nobody", directory)
	assert.False(t, ok)
}

func TestResolvePrefixTieBreaksOnDirectoryOrder(t *testing.T) {
	entry, ok := Resolve("j", directory)
	require.True(t, ok)
	assert.Equal(t, "jane.doe@portal.io", entry.Email)
}

func TestParseDeduplicatesRecipients(t *testing.T) {
	result := Parse("@jdoe please sync with @John.Doe and @ghost", directory)
	require.Len(t, result.Mentions, 2)
	assert.Equal(t, []string{"jdoe@portal.io"}, result.RecipientEmails())
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, "ghost", result.Unresolved[0].Handle)
}
