package normalize

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripDiacritics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii", "Desk Organizer", "Desk Organizer"},
		{"acute accent", "Café Noir", "Cafe Noir"},
		{"mixed accents", "Crème brûlée", "Creme brulee"},
		{"tilde and cedilla", "Piñata Façade", "Pinata Facade"},
		{"case is preserved", "ÉCLAIR", "ECLAIR"},
		{"empty", "", ""},
		{"whitespace kept", "  a  b ", "  a  b "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripDiacritics.Normalize(tt.in))
		})
	}
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, "Café", Identity.Normalize("Café"))
}

func TestFunc(t *testing.T) {
	upper := Func(strings.ToUpper)
	assert.Equal(t, "ABC", upper.Normalize("abc"))
}

func TestStripDiacritics_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Equal(t, "Cafe", StripDiacritics.Normalize("Café"))
			}
		}()
	}
	wg.Wait()
}

func TestCache(t *testing.T) {
	var calls atomic.Int32
	counting := Func(func(text string) string {
		calls.Add(1)
		return StripDiacritics.Normalize(text)
	})

	c, err := NewCache(counting, 2)
	require.NoError(t, err)

	assert.Equal(t, "Cafe", c.Normalize("Café"))
	assert.Equal(t, "Cafe", c.Normalize("Café"))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, c.Len())

	c.Normalize("Thé")
	c.Normalize("Crème")
	assert.Equal(t, 2, c.Len())

	// "Café" was evicted as least recently used
	c.Normalize("Café")
	assert.Equal(t, int32(4), calls.Load())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestNewCache_Defaults(t *testing.T) {
	c, err := NewCache(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "Eclair", c.Normalize("Éclair"))
}
