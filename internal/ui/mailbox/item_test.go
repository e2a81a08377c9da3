package mailbox

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 10))

	got := truncate("héllo wörld éxample", 8)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "héllo w…", got)

	got = truncate("日本語テスト", 3)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "日本…", got)
}

func TestTruncateTinyLimit(t *testing.T) {
	assert.Equal(t, "ö", truncate("öffnung", 1))
}
