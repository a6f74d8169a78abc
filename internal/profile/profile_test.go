package profile

import (
	"strings"
	"testing"

	"github.com/matheus3301/lmekki/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolderSaveReplacesWholesale(t *testing.T) {
	h := NewHolder(FromConfig(config.Default()))
	require.Equal(t, "Lmekki", h.Get().Name)

	require.NoError(t, h.Save(UserProfile{Name: "  Sara ", Status: "Busy"}))
	assert.Equal(t, UserProfile{Name: "Sara", Status: "Busy"}, h.Get())

	assert.Error(t, h.Save(UserProfile{Name: "  "}))
	assert.Equal(t, "Sara", h.Get().Name)
}

func TestCardContent(t *testing.T) {
	p := UserProfile{Name: "A;B", Status: "Available", Avatar: "https://x.test/a"}
	assert.Equal(t, `MECARD:N:A\;B;NOTE:Available;URL:https\://x.test/a;;`, p.CardContent())
	assert.Equal(t, "MECARD:N:Solo;;", UserProfile{Name: "Solo"}.CardContent())
}

func TestQRCard(t *testing.T) {
	card, err := UserProfile{Name: "Lmekki", Status: "Available"}.QRCard()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(card, "\n"), "\n")
	require.NotEmpty(t, lines)
	width := len([]rune(lines[0]))
	for _, l := range lines {
		assert.Equal(t, width, len([]rune(l)))
	}
	assert.Contains(t, card, "█")
}

func TestRenderBitmapOddRows(t *testing.T) {
	got := renderBitmap([][]bool{
		{true, false, true},
		{true, true, false},
		{false, true, false},
	})
	assert.Equal(t, "  █▄▀\n   ▀ \n", got)
}
