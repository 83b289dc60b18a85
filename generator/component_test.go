package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/erraggy/oasconnect/internal/testutil"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentSchemaAcceptsGeneratedDescriptors(t *testing.T) {
	for name, doc := range map[string]string{
		"petstore oas3": testutil.PetStoreOAS3,
		"petstore oas2": testutil.PetStoreOAS2,
		"recursive":     testutil.RecursiveOAS3,
		"empty":         testutil.EmptyPathsOAS3,
	} {
		t.Run(name, func(t *testing.T) {
			result := generate(t, doc)
			f := result.GetFile("component.json")
			require.NotNil(t, f)
			assert.NoError(t, validateComponent(f.Content))
		})
	}
}

func TestComponentSchemaRejects(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{
			name:  "missing version",
			doc:   `{"title":"T","credentials":{"fields":{}},"triggers":{},"actions":{}}`,
			field: "(root)",
		},
		{
			name:  "bad view class",
			doc:   `{"title":"T","version":"1","credentials":{"fields":{"apiKey":{"label":"Key","required":true,"viewClass":"Slider"}}},"triggers":{},"actions":{}}`,
			field: "credentials.fields.apiKey.viewClass",
		},
		{
			name:  "module outside its directory",
			doc:   `{"title":"T","version":"1","credentials":{"fields":{}},"triggers":{},"actions":{"x":{"main":"./lib/x.go","title":"X","metadata":{"in":{},"out":{}}}}}`,
			field: "actions.x.main",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateComponent([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrTemplateBinding)

			var be *oaserrors.TemplateBindingError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, "component.json", be.Template)
			assert.Equal(t, tt.field, be.Field)
		})
	}
}

func TestReadmeEscapesTableCells(t *testing.T) {
	doc := strings.Replace(scenarioSpec, "    get:\n", "    get:\n      summary: \"Fetch | show a pet\"\n", 1)
	result := generate(t, doc)
	readme := result.GetFile("README.md")
	require.NotNil(t, readme)
	content := string(readme.Content)
	assert.Contains(t, content, `| Fetch \| show a pet |`)
	assert.Contains(t, content, "oasconnect generate <openapi-file> -o <dir> -n pet-store-connector")

	result = generate(t, scenarioSpec, WithSwaggerURL("https://example.com/pets.yaml"))
	assert.Contains(t, string(result.GetFile("README.md").Content),
		"oasconnect generate https://example.com/pets.yaml -o <dir>")
}
