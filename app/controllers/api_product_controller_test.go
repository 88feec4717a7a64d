package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumapanel/lumapanel/app/models"
)

func TestBuildProductEntriesAssignsSortOrder(t *testing.T) {
	patterns, colors, err := buildProductEntries(models.ProductTypeMixed,
		[]productPatternInput{
			{Name: "Stripes", Code: "stripes"},
			{Name: "Dots", Code: "dots"},
		},
		[]productColorInput{
			{Name: "Night", HexCode: "#101820"},
		},
	)
	require.NoError(t, err)

	require.Len(t, patterns, 2)
	assert.Equal(t, 0, patterns[0].SortOrder)
	assert.Equal(t, 1, patterns[1].SortOrder)
	require.Len(t, colors, 1)
	assert.Equal(t, 0, colors[0].SortOrder)
}

func TestBuildProductEntriesEnforcesCatalogType(t *testing.T) {
	_, _, err := buildProductEntries(models.ProductTypePattern,
		nil,
		[]productColorInput{{Name: "Red", HexCode: "#ff0000"}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pattern catalog")

	_, _, err = buildProductEntries(models.ProductTypeColor,
		[]productPatternInput{{Name: "Stripes", Code: "stripes"}},
		nil,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color catalog")
}

func TestBuildProductEntriesRejectsIncompleteEntries(t *testing.T) {
	_, _, err := buildProductEntries(models.ProductTypePattern,
		[]productPatternInput{{Name: "Missing code"}},
		nil,
	)
	require.Error(t, err)

	_, _, err = buildProductEntries(models.ProductTypeColor,
		nil,
		[]productColorInput{{Name: "Missing hex"}},
	)
	require.Error(t, err)
}
