package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCanonicalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"HTTPS://WWW.Pararius.com/apartments/amsterdam/0-1500",
			"https://www.pararius.com/apartments/amsterdam/0-1500",
		},
		{
			"https://www.funda.nl/zoeken/huur?selected_area=amsterdam&price=0-1500#results",
			"https://www.funda.nl/zoeken/huur?price=0-1500&selected_area=amsterdam",
		},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPrepareDeduplicatesPreservingOrder(t *testing.T) {
	got, err := Prepare([]string{
		"https://www.pararius.com/apartments/utrecht",
		"https://www.pararius.com/apartments/amsterdam",
		"HTTPS://www.pararius.com/apartments/utrecht", // same source, different casing
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.pararius.com/apartments/utrecht",
		"https://www.pararius.com/apartments/amsterdam",
	}, got)
}

func TestPrepareDropsUnparseable(t *testing.T) {
	got, err := Prepare([]string{"://not a url", "https://www.pararius.com/apartments/delft"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPrepareEmptyIsError(t *testing.T) {
	_, err := Prepare(nil)
	assert.ErrorIs(t, err, ErrNoSources)

	_, err = Prepare([]string{"://still not a url"})
	assert.ErrorIs(t, err, ErrNoSources)
}
