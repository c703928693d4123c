package suite

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

func sampleCategories() []Category {
	return []Category{
		{Name: "global", Cases: []models.TestCase{
			{Category: "global", CaseName: "Global01"},
			{Category: "global", CaseName: "Global02"},
		}},
		{Name: "while", Cases: []models.TestCase{
			{Category: "while", CaseName: "While01"},
			{Category: "while", CaseName: "WhileNested"},
		}},
	}
}

func TestFilter_Empty(t *testing.T) {
	in := sampleCategories()
	out, err := Filter(in, "", "")
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestFilter_ByCategory(t *testing.T) {
	out, err := Filter(sampleCategories(), "while", "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "while", out[0].Name)
	require.Len(t, out[0].Cases, 2)
}

func TestFilter_BySubstring(t *testing.T) {
	out, err := Filter(sampleCategories(), "", "Nested")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "while", out[0].Name)
	require.Equal(t, "WhileNested", out[0].Cases[0].CaseName)
}

func TestFilter_ByGlob(t *testing.T) {
	out, err := Filter(sampleCategories(), "", "Global0?")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Cases, 2)
}

func TestFilter_CategoryAndCase(t *testing.T) {
	out, err := Filter(sampleCategories(), "global", "01")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Global01", out[0].Cases[0].CaseName)
}

func TestFilter_NoMatches(t *testing.T) {
	_, err := Filter(sampleCategories(), "", "Nonexistent")
	require.ErrorContains(t, err, "no test cases match")

	_, err = Filter(sampleCategories(), "unknown", "")
	require.ErrorContains(t, err, "no test cases match")
}

func TestFilter_InvalidGlob(t *testing.T) {
	_, err := Filter(sampleCategories(), "", "[unbalanced")
	require.ErrorContains(t, err, "invalid case filter pattern")
}
