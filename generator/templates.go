package generator

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/erraggy/oasconnect/mapper"
	"github.com/erraggy/oasconnect/oaserrors"
	"golang.org/x/tools/imports"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/logo.png
var defaultLogo []byte

// Template names and the context type each one is executed with.
const (
	moduleTemplate = "module.go.tmpl"
	pluginTemplate = "plugin.go.tmpl"
	mainTemplate   = "main.go.tmpl"
	readmeTemplate = "readme.md.tmpl"
)

var templateContexts = map[string]any{
	moduleTemplate: ModuleData{},
	pluginTemplate: PluginData{},
	mainTemplate:   MainData{},
	readmeTemplate: ReadmeData{},
}

// templateFuncs provides custom functions for templates. They take
// precedence over the sprig functions of the same name.
var templateFuncs = template.FuncMap{
	"quote":       quote,
	"stringSlice": stringSlice,
	"fieldType":   fieldTypeConst,
	"kindConst":   kindConst,
	"comment":     comment,
	"lower":       strings.ToLower,
	"upper":       strings.ToUpper,
}

// loadTemplates parses the embedded templates once and checks every one of
// them against a probe value of its context type.
var loadTemplates = sync.OnceValues(func() (*template.Template, error) {
	t, err := template.New("").
		Funcs(sprig.TxtFuncMap()).
		Funcs(templateFuncs).
		Option("missingkey=error").
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, &oaserrors.TemplateBindingError{Template: "templates", Cause: err}
	}
	for name, ctx := range templateContexts {
		if err := checkBinding(t, name, ctx); err != nil {
			return nil, err
		}
	}
	return t, nil
})

// checkBinding executes the named template against a fully populated probe
// of ctx's type, so any placeholder naming a field the context lacks fails
// here instead of in the middle of a run.
func checkBinding(t *template.Template, name string, ctx any) error {
	if t.Lookup(name) == nil {
		return &oaserrors.TemplateBindingError{Template: name, Cause: fmt.Errorf("template not found")}
	}
	probe := probeValue(reflect.TypeOf(ctx), 0).Interface()
	if err := t.ExecuteTemplate(io.Discard, name, probe); err != nil {
		return bindingError(name, err)
	}
	return nil
}

// probeDepth bounds probe construction for self-referencing types such as
// mapper.Field.
const probeDepth = 8

// probeValue returns a value of type t with every string non-empty, every
// bool true, every slice holding one element and every pointer non-nil.
func probeValue(t reflect.Type, depth int) reflect.Value {
	v := reflect.New(t).Elem()
	if depth > probeDepth {
		return v
	}
	switch t.Kind() {
	case reflect.String:
		v.SetString("probe")
	case reflect.Bool:
		v.SetBool(true)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(1)
	case reflect.Pointer:
		if depth+1 > probeDepth {
			return v
		}
		v.Set(probeValue(t.Elem(), depth+1).Addr())
	case reflect.Slice:
		// Past the bound the slice stays empty: a nil element would fail
		// any template ranging over it.
		elem := probeValue(t.Elem(), depth+1)
		if depth+1 > probeDepth || isNilable(elem.Kind()) && elem.IsNil() {
			return v
		}
		s := reflect.MakeSlice(t, 1, 1)
		s.Index(0).Set(elem)
		v.Set(s)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				v.Field(i).Set(probeValue(t.Field(i).Type, depth+1))
			}
		}
	}
	return v
}

func isNilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}

var bindingField = regexp.MustCompile(`at <([^>]+)>`)

func bindingError(name string, err error) error {
	be := &oaserrors.TemplateBindingError{Template: name, Cause: err}
	if m := bindingField.FindStringSubmatch(err.Error()); m != nil {
		be.Field = m[1]
	}
	return be
}

// executeTemplate executes a template by name. items sizes the pooled
// render buffer.
func executeTemplate(name string, data any, items int) ([]byte, error) {
	t, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	buf := getRenderBuffer(items)
	defer putRenderBuffer(buf, items)
	if err := t.ExecuteTemplate(buf, name, data); err != nil {
		return nil, bindingError(name, err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

// formatOptions keep goimports from resolving imports against the local
// module cache; generated files list their imports explicitly.
var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// formatGo formats Go source and groups its imports.
func formatGo(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, formatOptions)
}

func quote(v any) string {
	return strconv.Quote(fmt.Sprint(v))
}

func stringSlice(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

var fieldTypeConsts = map[mapper.FieldType]string{
	mapper.TypeString:  "plugin.TypeString",
	mapper.TypeInteger: "plugin.TypeInteger",
	mapper.TypeNumber:  "plugin.TypeNumber",
	mapper.TypeBoolean: "plugin.TypeBoolean",
	mapper.TypeSelect:  "plugin.TypeSelect",
	mapper.TypeGroup:   "plugin.TypeGroup",
	mapper.TypeList:    "plugin.TypeList",
	mapper.TypeUnion:   "plugin.TypeUnion",
	mapper.TypeOpaque:  "plugin.TypeOpaque",
}

func fieldTypeConst(t mapper.FieldType) string {
	if c, ok := fieldTypeConsts[t]; ok {
		return c
	}
	return "plugin.FieldType(" + strconv.Quote(string(t)) + ")"
}

func kindConst(k Kind) string {
	if k == KindTrigger {
		return "plugin.KindTrigger"
	}
	return "plugin.KindAction"
}

// comment renders lead and text as a Go line comment block.
func comment(lead, text string) string {
	text = strings.TrimSpace(text)
	if lead != "" {
		text = strings.TrimSpace(lead + " " + text)
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		l = strings.TrimRight(l, " \t\r")
		if l == "" {
			lines[i] = "//"
			continue
		}
		lines[i] = "// " + l
	}
	return strings.Join(lines, "\n")
}
