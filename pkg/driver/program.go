package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"simple/smallstep-go/pkg/ast"
	"simple/smallstep-go/pkg/debug"
	"simple/smallstep-go/pkg/runtime"
	"simple/smallstep-go/pkg/trace"
)

// Program is a statement tree loaded from disk together with its initial
// environment and, optionally, the outcome it is expected to produce.
type Program struct {
	Path        string
	Name        string
	Description string
	Statement   ast.Statement
	Environment *runtime.Environment
	Expect      *Expectation
}

// Expectation describes how a run of a Program should end. Empty fields
// are not checked. Style names the rendering Trace is written in; when nil
// the checker's default applies.
type Expectation struct {
	Trace       []string
	Style       *trace.Style
	Environment *runtime.Environment
	Steps       *int
	Error       string
}

// ValidationError aggregates program file problems.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "program: invalid file"
	}
	var b strings.Builder
	b.WriteString("program validation failed")
	if e.Path != "" {
		b.WriteString(" for ")
		b.WriteString(e.Path)
	}
	b.WriteString(":")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type programFile struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Environment yaml.Node      `yaml:"environment"`
	Program     map[string]any `yaml:"program"`
	Expect      *expectFile    `yaml:"expect"`
}

type expectFile struct {
	Trace       []string  `yaml:"trace"`
	Style       string    `yaml:"style"`
	Environment yaml.Node `yaml:"environment"`
	Steps       *int      `yaml:"steps"`
	Error       string    `yaml:"error"`
}

// Extensions lists the file suffixes LoadDir picks up.
var Extensions = []string{".yml", ".yaml", ".json"}

// LoadProgram reads and validates a program file. YAML and JSON are both
// accepted.
func LoadProgram(path string) (*Program, error) {
	if path == "" {
		return nil, fmt.Errorf("program: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("program: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("program: open %s: %w", absPath, err)
	}
	defer file.Close()

	prog, err := ReadProgram(file, absPath)
	if err != nil {
		return nil, err
	}
	if debug.Load() {
		debug.Logf("loaded %s: %s", absPath, prog.Statement)
	}
	return prog, nil
}

// ReadProgram decodes a program from r; name is used in messages and as
// the default program name.
func ReadProgram(r io.Reader, name string) (*Program, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw programFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("program: %s is empty", name)
		}
		return nil, fmt.Errorf("program: parse %s: %w", name, err)
	}
	return raw.toProgram(name)
}

func (f *programFile) toProgram(path string) (*Program, error) {
	errs := ValidationError{Path: path}
	prog := &Program{
		Path:        path,
		Name:        f.Name,
		Description: f.Description,
	}
	if prog.Name == "" {
		prog.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if f.Program == nil {
		errs.Issues = append(errs.Issues, "program must be provided")
	} else if stmt, err := decodeStatement(f.Program, "program"); err != nil {
		errs.Issues = append(errs.Issues, err.Error())
	} else {
		prog.Statement = stmt
	}

	env, issues := decodeEnvironment(&f.Environment, "environment")
	errs.Issues = append(errs.Issues, issues...)
	prog.Environment = env

	if f.Expect != nil {
		expect := &Expectation{
			Trace: f.Expect.Trace,
			Steps: f.Expect.Steps,
			Error: f.Expect.Error,
		}
		if f.Expect.Style != "" {
			style, err := trace.ParseStyle(f.Expect.Style)
			if err != nil {
				errs.Issues = append(errs.Issues, "expect.style: "+err.Error())
			} else {
				expect.Style = &style
			}
		}
		if !f.Expect.Environment.IsZero() {
			env, issues := decodeEnvironment(&f.Expect.Environment, "expect.environment")
			errs.Issues = append(errs.Issues, issues...)
			expect.Environment = env
		}
		if expect.Steps != nil && *expect.Steps < 0 {
			errs.Issues = append(errs.Issues, "expect.steps must not be negative")
		}
		prog.Expect = expect
	}

	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return prog, nil
}

// decodeEnvironment binds names in the order they appear in the file.
func decodeEnvironment(node *yaml.Node, path string) (*runtime.Environment, []string) {
	env := runtime.NewEnvironment(nil)
	if node.IsZero() || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return env, nil
	}
	if node.Kind != yaml.MappingNode {
		return env, []string{fmt.Sprintf("%s must be a mapping (line %d)", path, node.Line)}
	}
	var issues []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, valueNode := node.Content[i], node.Content[i+1]
		name := key.Value
		if name == "" {
			issues = append(issues, fmt.Sprintf("%s has an empty name (line %d)", path, key.Line))
			continue
		}
		if env.Has(name) {
			issues = append(issues, fmt.Sprintf("%s.%s is bound twice (line %d)", path, name, key.Line))
			continue
		}
		var raw any
		if err := valueNode.Decode(&raw); err != nil {
			issues = append(issues, fmt.Sprintf("%s.%s: %v", path, name, err))
			continue
		}
		value, err := decodeValue(raw, join(path, name))
		if err != nil {
			issues = append(issues, err.Error())
			continue
		}
		if ast.Reducible(value) {
			issues = append(issues, fmt.Sprintf("%s.%s must be a Number or Boolean, got %s", path, name, value.NodeType()))
			continue
		}
		env = env.With(name, value)
	}
	return env, issues
}

// LoadDir loads every program file directly inside dir, sorted by name.
func LoadDir(dir string) ([]*Program, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("program: read dir %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !hasProgramExt(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	programs := make([]*Program, 0, len(names))
	for _, name := range names {
		prog, err := LoadProgram(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		programs = append(programs, prog)
	}
	return programs, nil
}

// LoadPaths loads each path, expanding directories with LoadDir.
func LoadPaths(paths []string) ([]*Program, error) {
	var programs []*Program
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("program: %w", err)
		}
		if info.IsDir() {
			found, err := LoadDir(path)
			if err != nil {
				return nil, err
			}
			programs = append(programs, found...)
			continue
		}
		prog, err := LoadProgram(path)
		if err != nil {
			return nil, err
		}
		programs = append(programs, prog)
	}
	return programs, nil
}

func hasProgramExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// WriteProgram encodes prog in the format LoadProgram reads. Bindings are
// written in environment order.
func WriteProgram(w io.Writer, prog *Program) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	addScalar(doc, "name", prog.Name)
	addScalar(doc, "description", prog.Description)
	if prog.Environment.Len() > 0 {
		env, err := environmentNode(prog.Environment, "environment")
		if err != nil {
			return err
		}
		addPair(doc, "environment", env)
	}
	if err := addValue(doc, "program", EncodeNode(prog.Statement)); err != nil {
		return err
	}
	if prog.Expect != nil {
		expect, err := expectationNode(prog.Expect)
		if err != nil {
			return err
		}
		addPair(doc, "expect", expect)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("program: write: %w", err)
	}
	return enc.Close()
}

func expectationNode(expect *Expectation) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	if len(expect.Trace) > 0 {
		if err := addValue(node, "trace", expect.Trace); err != nil {
			return nil, err
		}
	}
	if expect.Style != nil {
		addScalar(node, "style", expect.Style.String())
	}
	if expect.Environment != nil {
		env, err := environmentNode(expect.Environment, "expect.environment")
		if err != nil {
			return nil, err
		}
		addPair(node, "environment", env)
	}
	if expect.Steps != nil {
		if err := addValue(node, "steps", *expect.Steps); err != nil {
			return nil, err
		}
	}
	addScalar(node, "error", expect.Error)
	return node, nil
}

func environmentNode(env *runtime.Environment, path string) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range env.Keys() {
		value, _ := env.Get(name)
		if err := addValue(node, name, EncodeNode(value)); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", path, name, err)
		}
	}
	return node, nil
}

func addPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
}

func addScalar(mapping *yaml.Node, key, value string) {
	if value == "" {
		return
	}
	addPair(mapping, key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
}

func addValue(mapping *yaml.Node, key string, value any) error {
	var child yaml.Node
	if err := child.Encode(value); err != nil {
		return fmt.Errorf("program: encode %s: %w", key, err)
	}
	addPair(mapping, key, &child)
	return nil
}
