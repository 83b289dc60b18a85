package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

func TestFixturesDecode(t *testing.T) {
	fixtures := map[string]string{
		"PetStoreOAS3":     PetStoreOAS3,
		"PetStoreOAS2":     PetStoreOAS2,
		"RecursiveOAS3":    RecursiveOAS3,
		"CyclicRefOAS3":    CyclicRefOAS3,
		"DanglingRefOAS3":  DanglingRefOAS3,
		"DuplicateIDsOAS3": DuplicateIDsOAS3,
		"EmptyPathsOAS3":   EmptyPathsOAS3,
	}
	for name, content := range fixtures {
		t.Run(name, func(t *testing.T) {
			var node yaml.Node
			require.NoError(t, yaml.Unmarshal([]byte(content), &node))
		})
	}
}

func TestWriteTemp(t *testing.T) {
	path := WriteTemp(t, "api.yaml", EmptyPathsOAS3)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, EmptyPathsOAS3, string(data))
}
