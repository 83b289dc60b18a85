package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	goparser "go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/erraggy/oasconnect/extractor"
	"github.com/erraggy/oasconnect/internal/testutil"
	"github.com/erraggy/oasconnect/mapper"
	"github.com/erraggy/oasconnect/oaserrors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioSpec = `openapi: 3.0.0
info:
  title: Pet Store
  version: 1.0.0
paths:
  /pets/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: A pet
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        id:
          type: integer
        name:
          type: string
`

func generate(t *testing.T, content string, opts ...Option) *GenerateResult {
	t.Helper()
	result, err := GenerateWithOptions(append([]Option{WithBytes([]byte(content))}, opts...)...)
	require.NoError(t, err)
	return result
}

func readComponent(t *testing.T, result *GenerateResult) componentJSON {
	t.Helper()
	f := result.GetFile("component.json")
	require.NotNil(t, f, "component.json is always generated")
	var c componentJSON
	require.NoError(t, json.Unmarshal(f.Content, &c))
	return c
}

// readTree returns every file under dir keyed by slash-separated path.
func readTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	tree := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}

func TestPetStoreScenario(t *testing.T) {
	result := generate(t, scenarioSpec)
	assert.Equal(t, "pet-store-connector", result.PackageName)

	require.Len(t, result.Modules, 1)
	m := result.Module("get-pets-by-id")
	require.NotNil(t, m)
	assert.Equal(t, KindTrigger, m.Kind)
	assert.Equal(t, "GetPetsById", m.TypeName)
	assert.Equal(t, "triggers/get-pets-by-id.go", m.File)

	assert.True(t, m.Output.Field("name").Required)
	assert.False(t, m.Output.Field("id").Required)
	assert.True(t, m.Input.Field("id").Required)

	c := readComponent(t, result)
	assert.Equal(t, "Pet Store", c.Title)
	require.Len(t, c.Triggers, 1)
	assert.Empty(t, c.Actions)
	entry, ok := c.Triggers["get-pets-by-id"]
	require.True(t, ok)
	assert.Equal(t, "./triggers/get-pets-by-id.go", entry.Main)
	assert.True(t, entry.Metadata.Out.Properties["name"].Required)
	assert.False(t, entry.Metadata.Out.Properties["id"].Required)
	assert.Equal(t, "integer", entry.Metadata.In.Properties["id"].Type)

	dir, err := result.WriteFiles(filepath.Join(t.TempDir(), "generated"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(dir))
	for _, name := range []string{"component.json", "logo.png", "go.mod", "README.md", "main.go", "plugin/plugin.go", "triggers/get-pets-by-id.go"} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(name)))
	}
	assert.NoDirExists(t, filepath.Join(dir, "actions"))
}

func TestDeterminism(t *testing.T) {
	first := generate(t, testutil.PetStoreOAS3)
	second := generate(t, testutil.PetStoreOAS3)
	if diff := cmp.Diff(first.Files, second.Files); diff != "" {
		t.Errorf("generated files differ (-first +second):\n%s", diff)
	}

	base := t.TempDir()
	dirA, err := first.WriteFiles(filepath.Join(base, "a"))
	require.NoError(t, err)
	dirB, err := second.WriteFiles(filepath.Join(base, "b"))
	require.NoError(t, err)
	if diff := cmp.Diff(readTree(t, dirA), readTree(t, dirB)); diff != "" {
		t.Errorf("written trees differ (-a +b):\n%s", diff)
	}
}

func TestNameUniqueness(t *testing.T) {
	result := generate(t, testutil.DuplicateIDsOAS3)
	require.Len(t, result.Modules, 2)
	assert.Equal(t, "get-item", result.Modules[0].Name)
	assert.Equal(t, "get-item-2", result.Modules[1].Name)
	assert.Equal(t, "GetItem", result.Modules[0].TypeName)
	assert.Equal(t, "GetItem2", result.Modules[1].TypeName)

	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "x-internal", result.Skipped[0].Method)
	assert.True(t, result.HasWarnings())

	c := readComponent(t, result)
	assert.Contains(t, c.Triggers, "get-item")
	assert.Contains(t, c.Triggers, "get-item-2")
}

func TestModuleKinds(t *testing.T) {
	result := generate(t, testutil.PetStoreOAS3)
	require.Len(t, result.Modules, 3)

	kinds := make(map[string]Kind)
	for _, m := range result.Modules {
		kinds[m.Name] = m.Kind
	}
	assert.Equal(t, map[string]Kind{
		"list-pets":      KindTrigger,
		"create-pet":     KindAction,
		"get-pets-by-id": KindTrigger,
	}, kinds)
	assert.NotNil(t, result.GetFile("actions/create-pet.go"))

	allActions := generate(t, testutil.PetStoreOAS3, WithKindPolicy(func(*extractor.Operation) Kind { return KindAction }))
	for _, m := range allActions.Modules {
		assert.Equal(t, KindAction, m.Kind)
		assert.True(t, strings.HasPrefix(m.File, "actions/"))
	}
	assert.Empty(t, readComponent(t, allActions).Triggers)
}

func TestGeneratedGoParses(t *testing.T) {
	result := generate(t, testutil.PetStoreOAS2)
	fset := token.NewFileSet()
	for _, f := range result.Files {
		if !strings.HasSuffix(f.Name, ".go") {
			continue
		}
		_, err := goparser.ParseFile(fset, f.Name, f.Content, goparser.ParseComments)
		assert.NoError(t, err, f.Name)
	}
	for _, i := range result.Issues {
		assert.NotContains(t, i.Message, "could not be formatted")
	}

	main := string(result.GetFile("main.go").Content)
	assert.Contains(t, main, `"pet-store-connector/triggers"`)
	assert.Contains(t, main, `"pet-store-connector/actions"`)
	assert.Contains(t, main, "triggers.GetPetsById,")
	assert.Contains(t, main, "actions.UpdatePet,")
	assert.Contains(t, main, `"basicAuthUsername"`)

	mod := string(result.GetFile("go.mod").Content)
	assert.Contains(t, mod, "module pet-store-connector")
	assert.Contains(t, mod, "go "+GoVersion)
}

func TestZeroOperations(t *testing.T) {
	result := generate(t, testutil.EmptyPathsOAS3)
	assert.Equal(t, "nothing-here-connector", result.PackageName)
	assert.Empty(t, result.Modules)

	c := readComponent(t, result)
	assert.Empty(t, c.Triggers)
	assert.Empty(t, c.Actions)
	assert.Equal(t, "0.1", c.Version)
	assert.NotNil(t, result.GetFile("logo.png"))

	main := string(result.GetFile("main.go").Content)
	assert.NotContains(t, main, "/triggers")
	assert.NotContains(t, main, "/actions")
}

func TestCycleSafety(t *testing.T) {
	result := generate(t, testutil.RecursiveOAS3)
	m := result.Module("list-nodes")
	require.NotNil(t, m)
	next := m.Output.Field("next")
	require.NotNil(t, next)
	assert.Equal(t, mapper.TypeOpaque, next.Type)
	assert.True(t, next.Truncated)
	assert.Regexp(t, `Truncated:\s+true`, string(result.GetFile(m.File).Content))
}

func TestDestinationExists(t *testing.T) {
	t.Run("non-empty directory", func(t *testing.T) {
		dir := t.TempDir()
		keep := filepath.Join(dir, "keep.txt")
		require.NoError(t, os.WriteFile(keep, []byte("original"), 0o600))

		_, err := RunWithOptions(dir, WithBytes([]byte(testutil.PetStoreOAS3)))
		require.Error(t, err)
		assert.ErrorIs(t, err, oaserrors.ErrDestinationExists)
		var de *oaserrors.DestinationExistsError
		require.True(t, errors.As(err, &de))
		assert.False(t, de.NotDir)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		data, err := os.ReadFile(keep)
		require.NoError(t, err)
		assert.Equal(t, "original", string(data))
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
		result := generate(t, testutil.PetStoreOAS3)
		_, err := result.WriteFiles(path)
		var de *oaserrors.DestinationExistsError
		require.True(t, errors.As(err, &de))
		assert.True(t, de.NotDir)
	})

	t.Run("empty directory is replaced", func(t *testing.T) {
		dir := t.TempDir()
		out, err := RunWithOptions(dir, WithBytes([]byte(testutil.PetStoreOAS3)))
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(out, "component.json"))
	})

	t.Run("no staging directory left behind", func(t *testing.T) {
		parent := t.TempDir()
		_, err := RunWithOptions(filepath.Join(parent, "out"), WithBytes([]byte(testutil.PetStoreOAS3)))
		require.NoError(t, err)
		entries, err := os.ReadDir(parent)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "out", entries[0].Name())
	})

	t.Run("failed write removes created parents", func(t *testing.T) {
		root := t.TempDir()
		result := &GenerateResult{Files: []GeneratedFile{
			{Name: "a", Content: []byte("file")},
			{Name: "a/b", Content: []byte("needs a directory named a")},
		}}
		_, err := result.WriteFiles(filepath.Join(root, "x", "y", "out"))
		require.Error(t, err)
		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestFatalErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"cyclic reference", testutil.CyclicRefOAS3, oaserrors.ErrCyclicReference},
		{"dangling reference", testutil.DanglingRefOAS3, oaserrors.ErrSpecFormat},
		{"not a document", "just text", oaserrors.ErrSpecFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := t.TempDir()
			out := filepath.Join(parent, "generated")
			_, err := RunWithOptions(out, WithBytes([]byte(tt.content)))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.NoDirExists(t, out)
			entries, err := os.ReadDir(parent)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestConcurrentRuns(t *testing.T) {
	base := t.TempDir()
	const runs = 8
	dirs := make([]string, runs)
	errs := make([]error, runs)

	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dirs[i], errs[i] = RunWithOptions(filepath.Join(base, fmt.Sprintf("run-%d", i)),
				WithBytes([]byte(testutil.PetStoreOAS3)))
		}(i)
	}
	wg.Wait()

	first := ""
	for i := 0; i < runs; i++ {
		require.NoError(t, errs[i])
		tree := readTree(t, dirs[i])
		if i == 0 {
			first = tree["component.json"]
			continue
		}
		assert.Equal(t, first, tree["component.json"])
	}
}

func TestStrictMode(t *testing.T) {
	_, err := GenerateWithOptions(WithBytes([]byte(testutil.DuplicateIDsOAS3)), WithStrictMode(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict mode")

	_, err = GenerateWithOptions(WithBytes([]byte(scenarioSpec)), WithStrictMode(true))
	assert.NoError(t, err)
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"no source", nil},
		{"two sources", []Option{WithBytes([]byte("a")), WithFilePath("b")}},
		{"empty package name", []Option{WithBytes([]byte(scenarioSpec)), WithPackageName("")}},
		{"invalid package name", []Option{WithBytes([]byte(scenarioSpec)), WithPackageName("bad name!")}},
		{"negative depth", []Option{WithBytes([]byte(scenarioSpec)), WithMaxSchemaDepth(-1)}},
		{"nil kind policy", []Option{WithBytes([]byte(scenarioSpec)), WithKindPolicy(nil)}},
		{"nil id synthesizer", []Option{WithBytes([]byte(scenarioSpec)), WithIDSynthesizer(nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateWithOptions(tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, oaserrors.ErrConfig)
		})
	}
}

func TestCustomNames(t *testing.T) {
	result := generate(t, scenarioSpec,
		WithPackageName("example.com/pets"),
		WithSwaggerURL("https://example.com/openapi.yaml"),
		WithIDSynthesizer(func(method, path string) string { return "fetch pet" }),
	)
	assert.Equal(t, "example.com/pets", result.PackageName)
	require.NotNil(t, result.Module("fetch-pet"))
	assert.Equal(t, "https://example.com/openapi.yaml", readComponent(t, result).DocsURL)
	assert.Contains(t, string(result.GetFile("main.go").Content), `"example.com/pets/triggers"`)
}

func TestGeneratorRun(t *testing.T) {
	spec := testutil.WriteTemp(t, "openapi.yaml", testutil.PetStoreOAS3)
	g := New()
	g.PackageName = "pets"
	out, err := g.Run(spec, filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "actions", "create-pet.go"))
}

func TestCredentials(t *testing.T) {
	result := generate(t, testutil.PetStoreOAS3)
	creds := result.Package.Credentials
	require.Len(t, creds, 2)
	assert.Equal(t, "baseUrl", creds[0].Key)
	assert.False(t, creds[0].Required)
	assert.Equal(t, "apiKey", creds[1].Key)
	assert.Equal(t, "API_KEY", creds[1].Env)
	assert.True(t, creds[1].Secret)

	require.Len(t, result.Package.Auth, 1)
	rule := result.Package.Auth[0]
	assert.Equal(t, AuthRule{Scheme: "api_key", Type: "apiKey", In: "header", Name: "X-API-Key", Credentials: []string{"apiKey"}}, rule)

	c := readComponent(t, result)
	assert.Equal(t, "PasswordFieldView", c.Credentials.Fields["apiKey"].ViewClass)
	assert.Equal(t, "TextFieldView", c.Credentials.Fields["baseUrl"].ViewClass)
}
