package nutrition

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBasePortion is used for foods without a base_portion entry.
const DefaultBasePortion = 100.0

//go:embed foods.yaml
var embeddedFoods []byte

// Food is one reference table entry.
type Food struct {
	Name        string          `json:"name" yaml:"name"`
	BasePortion float64         `json:"base_portion" yaml:"base_portion"`
	Profile     NutrientProfile `json:"profile" yaml:"profile"`
}

type tableFile struct {
	Foods []Food `yaml:"foods"`
}

// Table is the immutable reference table. Entries keep their file order,
// which is the order the resolver scans them in.
type Table struct {
	foods []Food
	index map[string]int
}

var defaultTable = mustParseTable(embeddedFoods)

// DefaultTable returns the embedded reference table.
func DefaultTable() *Table { return defaultTable }

// NewTable validates foods and builds a table from them.
func NewTable(foods []Food) (*Table, error) {
	t := &Table{
		foods: make([]Food, 0, len(foods)),
		index: make(map[string]int, len(foods)),
	}
	for i, f := range foods {
		name := strings.TrimSpace(f.Name)
		if name == "" || name != strings.ToLower(name) {
			return nil, fmt.Errorf("%w: entry %d: name %q must be non-empty lowercase", ErrInvalidTable, i, f.Name)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate food %q", ErrInvalidTable, name)
		}
		if f.BasePortion < 0 || math.IsNaN(f.BasePortion) || math.IsInf(f.BasePortion, 0) {
			return nil, fmt.Errorf("%w: food %q: base portion must be finite and non-negative", ErrInvalidTable, name)
		}
		if !f.Profile.validate() {
			return nil, fmt.Errorf("%w: food %q: nutrient values must be finite and non-negative", ErrInvalidTable, name)
		}
		if f.BasePortion == 0 {
			f.BasePortion = DefaultBasePortion
		}
		f.Name = name
		f.Profile = f.Profile.clone()
		t.index[name] = len(t.foods)
		t.foods = append(t.foods, f)
	}
	return t, nil
}

// LoadTable parses a YAML reference table.
func LoadTable(r io.Reader) (*Table, error) {
	var tf tableFile
	if err := yaml.NewDecoder(r).Decode(&tf); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidTable, err)
	}
	return NewTable(tf.Foods)
}

// LoadTableFile loads a table from path. An empty path yields the embedded table.
func LoadTableFile(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference table: %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

func mustParseTable(b []byte) *Table {
	t, err := LoadTable(strings.NewReader(string(b)))
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the food stored under a canonical name.
func (t *Table) Lookup(name string) (Food, bool) {
	i, ok := t.index[name]
	if !ok {
		return Food{}, false
	}
	f := t.foods[i]
	f.Profile = f.Profile.clone()
	return f, true
}

// Names returns canonical names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.foods))
	for i, f := range t.foods {
		out[i] = f.Name
	}
	return out
}

// Foods returns a copy of all entries in table order.
func (t *Table) Foods() []Food {
	out := make([]Food, len(t.foods))
	for i, f := range t.foods {
		f.Profile = f.Profile.clone()
		out[i] = f
	}
	return out
}

// Len reports the number of entries.
func (t *Table) Len() int { return len(t.foods) }
