package personalize_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dripsend/pkg/personalize"
)

func TestContent_Placeholders(t *testing.T) {
	t.Parallel()

	tmpl := "Hi {{firstName}} {{lastName}} ({{name}}, {{email}}) - {{senderName}}"
	out := personalize.Content(tmpl, "Ada Lovelace King", "ada@example.com", 0, "sales@acme.com")

	assert.Equal(t, "Hi Ada Lovelace King (Ada Lovelace King, ada@example.com) - John from Sales", out)
}

func TestContent_NameDefaultsToLocalPart(t *testing.T) {
	t.Parallel()

	out := personalize.Content("{{name}}/{{firstName}}/{{lastName}}", "", "jane.doe@example.com", 0, "")
	assert.Equal(t, "jane.doe/jane.doe/", out)
}

func TestContent_SenderNameLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sender string
		want   string
	}{
		{"sales@acme.com", "John from Sales"},
		{"support@acme.com", "Sarah from Support"},
		{"marketing@acme.com", "Mike from Marketing"},
		{"info@acme.com", "The Team"},
		{"hello@acme.com", "Customer Success"},
		{"contact@acme.com", "Business Development"},
		{"billing@acme.com", "The Team"}, // unknown local-part
		{"", "The Team"},
	}
	for _, tt := range tests {
		out := personalize.Content("{{senderName}}", "Bob", "bob@x.com", 0, tt.sender)
		assert.Equal(t, tt.want, out, "sender %q", tt.sender)
	}
}

func TestContent_SeedPrefixCountsUTF16Units(t *testing.T) {
	t.Parallel()

	// The seed prefix is the first 100 UTF-16 units. An emoji takes two
	// units, so after 98 letters the marker rune sits at unit index 100,
	// just past the prefix; swapping it must not change any spin draw.
	suffix := " {red|green|blue} {north|south|east|west} {#10-99} {alpha|beta|gamma}"
	base := "\U0001F389" + strings.Repeat("a", 98)
	out1 := personalize.Content(base+"Q"+suffix, "Ada", "ada@example.com", 0, "sales@acme.com")
	out2 := personalize.Content(base+"Z"+suffix, "Ada", "ada@example.com", 0, "sales@acme.com")

	assert.Equal(t, out1, strings.ReplaceAll(out2, "Z", "Q"))
}

func TestContent_Deterministic(t *testing.T) {
	t.Parallel()

	tmpl := "{Hi|Hello|Hey} {{firstName}}, {quick|short|brief} question about {#2-8} {ideas|plans}"

	first := personalize.Content(tmpl, "Ada", "ada@example.com", 3, "sales@acme.com")
	for range 10 {
		require.Equal(t, first, personalize.Content(tmpl, "Ada", "ada@example.com", 3, "sales@acme.com"))
	}

	// A different recipient index draws a different seed; over several
	// indices at least one variant must differ for a template this branchy.
	varied := false
	for i := 1; i < 20; i++ {
		if personalize.Content(tmpl, "Ada", "ada@example.com", i, "sales@acme.com") != first {
			varied = true
			break
		}
	}
	assert.True(t, varied, "expected expansion to vary across recipient indices")
}

func TestContent_EmptyInputs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", personalize.Content("", "Ada", "ada@example.com", 0, ""))
	assert.Equal(t, "{{name}}", personalize.Content("{{name}}", "Ada", "", 0, ""))
}

func TestContent_CustomSenderNames(t *testing.T) {
	t.Parallel()

	table := personalize.Table{"ops": "Olga from Ops"}
	out := personalize.Content("{{senderName}}", "Bob", "bob@x.com", 0, "ops@acme.com",
		personalize.WithSenderNames(table))
	assert.Equal(t, "Olga from Ops", out)

	// Entries outside the custom table still fall back.
	out = personalize.Content("{{senderName}}", "Bob", "bob@x.com", 0, "sales@acme.com",
		personalize.WithSenderNames(table))
	assert.Equal(t, "The Team", out)
}

func TestLoadSenderNames(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "senders.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sales: Jan from Sales\nops: Olga from Ops\n"), 0o600))

	table, err := personalize.LoadSenderNames(path)
	require.NoError(t, err)
	assert.Equal(t, "Jan from Sales", table.Lookup("sales"))
	assert.Equal(t, "Olga from Ops", table.Lookup("ops"))
	assert.Equal(t, "The Team", table.Lookup("unknown"))
}

func TestLoadSenderNames_Errors(t *testing.T) {
	t.Parallel()

	_, err := personalize.LoadSenderNames(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, personalize.ErrInvalidSenderNames)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- broken"), 0o600))
	_, err = personalize.LoadSenderNames(path)
	require.ErrorIs(t, err, personalize.ErrInvalidSenderNames)
}
