package export

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewlog/brewbot-server-go/internal/model"
)

func TestRenderCSV(t *testing.T) {
	t.Run("writes fixed header for empty stats", func(t *testing.T) {
		blob, err := RenderCSV(nil)

		require.NoError(t, err)
		assert.Equal(t, "Username,Display name,# coffee chats,User ID\n", string(blob))
	})

	t.Run("one row per stat, values as supplied", func(t *testing.T) {
		stats := []model.PairingStat{
			{ID: "11", Handle: "alice", DisplayName: "Alice A", Count: 3},
			{ID: "22", Handle: "bob", DisplayName: "Bob", Count: 1},
		}

		blob, err := RenderCSV(stats)

		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(string(blob), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "alice,Alice A,3,11", lines[1])
		assert.Equal(t, "bob,Bob,1,22", lines[2])
	})

	t.Run("quotes fields containing delimiter, quote or newline", func(t *testing.T) {
		stats := []model.PairingStat{
			{ID: "1", Handle: "a,b", DisplayName: `say "hi"`, Count: 1},
			{ID: "2", Handle: "line", DisplayName: "one\ntwo", Count: 2},
		}

		blob, err := RenderCSV(stats)

		require.NoError(t, err)
		s := string(blob)
		assert.Contains(t, s, `"a,b"`)
		assert.Contains(t, s, `"say ""hi"""`)
		assert.Contains(t, s, "\"one\ntwo\"")
	})

	t.Run("output is byte-identical across calls", func(t *testing.T) {
		stats := []model.PairingStat{
			{ID: "1", Handle: "alice", DisplayName: "Alice", Count: 2},
			{ID: "2", Handle: "bob", DisplayName: "Bob", Count: 1},
		}

		first, err := RenderCSV(stats)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			again, err := RenderCSV(stats)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})
}

func TestStageAttachment(t *testing.T) {
	t.Run("writes blob to a unique temp path", func(t *testing.T) {
		blob := []byte("Username,Display name,# coffee chats,User ID\n")

		first, err := StageAttachment(blob, "report.csv")
		require.NoError(t, err)
		defer os.Remove(first)

		second, err := StageAttachment(blob, "report.csv")
		require.NoError(t, err)
		defer os.Remove(second)

		assert.NotEqual(t, first, second)
		assert.True(t, strings.HasSuffix(first, "report.csv"))

		content, err := os.ReadFile(first)
		require.NoError(t, err)
		assert.Equal(t, blob, content)
	})
}
