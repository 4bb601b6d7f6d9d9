package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BerylCAtieno/event-ideas-agent/internal/models"
	"gopkg.in/yaml.v3"
)

// RootKey is the top-level key the product mapping lives under.
const RootKey = "products_desc"

var (
	ErrCatalogLoad         = errors.New("catalog load failed")
	ErrInsufficientCatalog = errors.New("catalog has too few products")
)

// LoadError describes why a catalog source could not be used.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load catalog %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load catalog %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrCatalogLoad, e.Err}
	}
	return []error{ErrCatalogLoad}
}

// Catalog is an immutable product name -> description mapping. It is safe for
// concurrent use once loaded.
type Catalog struct {
	descriptions map[string]string
	names        []string
}

// Load reads a JSON or YAML catalog file. Only the mapping under RootKey is
// read; other top-level keys may hold anything.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "read file", Err: err}
	}

	var (
		products map[string]string
		found    bool
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		products, found, err = decodeYAML(data)
	default:
		products, found, err = decodeJSON(data)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "decode", Err: err}
	}
	if !found {
		return nil, &LoadError{Path: path, Reason: fmt.Sprintf("missing %q key", RootKey)}
	}

	c, err := New(products)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "validate", Err: err}
	}
	return c, nil
}

// decodeJSON decodes only the RootKey entry; other top-level keys are ignored.
func decodeJSON(data []byte) (map[string]string, bool, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, err
	}
	raw, ok := doc[RootKey]
	if !ok {
		return nil, false, nil
	}
	var products map[string]string
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, true, fmt.Errorf("%s is not a name to description mapping: %w", RootKey, err)
	}
	return products, true, nil
}

func decodeYAML(data []byte) (map[string]string, bool, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, false, err
	}
	node, ok := doc[RootKey]
	if !ok {
		return nil, false, nil
	}
	var products map[string]string
	if err := node.Decode(&products); err != nil {
		return nil, true, fmt.Errorf("%s is not a name to description mapping: %w", RootKey, err)
	}
	return products, true, nil
}

// New builds a catalog from an in-memory mapping. The mapping is copied.
func New(products map[string]string) (*Catalog, error) {
	if len(products) == 0 {
		return nil, errors.New("no products")
	}

	c := &Catalog{
		descriptions: make(map[string]string, len(products)),
		names:        make([]string, 0, len(products)),
	}
	for name, desc := range products {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New("product with empty name")
		}
		if strings.TrimSpace(desc) == "" {
			return nil, fmt.Errorf("product %q has empty description", name)
		}
		if _, dup := c.descriptions[name]; dup {
			return nil, fmt.Errorf("duplicate product %q", name)
		}
		c.descriptions[name] = desc
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)

	return c, nil
}

func (c *Catalog) Len() int {
	return len(c.names)
}

// Names returns the product names in lexical order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Catalog) Description(name string) (string, bool) {
	d, ok := c.descriptions[name]
	return d, ok
}

// Sample draws k distinct products uniformly at random without replacement.
// The draw only depends on rng, so a seeded rng gives a repeatable sample.
func (c *Catalog) Sample(rng *rand.Rand, k int) ([]models.Product, error) {
	if k < 0 {
		return nil, fmt.Errorf("invalid sample size %d", k)
	}
	if len(c.names) < k {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientCatalog, k, len(c.names))
	}

	pool := c.Names()
	out := make([]models.Product, 0, k)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, models.Product{Name: pool[i], Description: c.descriptions[pool[i]]})
	}

	return out, nil
}

// Describe renders products as "**name**\ndescription" blocks separated by a
// blank line.
func Describe(products []models.Product) string {
	blocks := make([]string, 0, len(products))
	for _, p := range products {
		blocks = append(blocks, fmt.Sprintf("**%s**\n%s", p.Name, p.Description))
	}
	return strings.Join(blocks, "\n\n")
}
