// Package catalog holds the master department list for one deployment and
// resolves free-text spreadsheet labels against it.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"incentive-service/internal/utils"
)

// Config is the YAML shape of a deployment's department taxonomy.
type Config struct {
	Departments []string          `yaml:"departments"`
	Aliases     map[string]string `yaml:"aliases"` // variant -> canonical
}

// Catalog canonicalizes raw department labels. Canonicalization is a pure
// function, total over the variant list; anything outside the master list is
// "no match" (the row's department contribution is dropped, never errored).
type Catalog struct {
	master     []string // canonical names, configured order
	masterKeys []string // normalized, same order
	alias      map[string]string
}

func New(departments []string, aliases map[string]string) *Catalog {
	c := &Catalog{alias: make(map[string]string, len(aliases))}
	for _, d := range departments {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		c.master = append(c.master, d)
		c.masterKeys = append(c.masterKeys, utils.NormKey(d))
	}
	for v, canon := range aliases {
		c.alias[utils.NormKey(v)] = strings.TrimSpace(canon)
	}
	return c
}

// Load reads a taxonomy file and merges its aliases over the defaults.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	if len(cfg.Departments) == 0 {
		return nil, fmt.Errorf("catalog %s: no departments listed", path)
	}
	aliases := defaultAliases()
	for v, canon := range cfg.Aliases {
		aliases[v] = canon
	}
	return New(cfg.Departments, aliases), nil
}

// Default is the stock saree-house taxonomy used when no file is configured.
func Default() *Catalog {
	return New(defaultDepartments(), defaultAliases())
}

func defaultDepartments() []string {
	return []string{
		"Sarees",
		"Silk Sarees",
		"Salwar Suits",
		"Kurtis",
		"Lehengas",
		"Dress Materials",
		"Mens Wear",
		"Mens Accessories",
		"Kids Wear",
		"Jewellery",
		"Footwear",
		"Handbags",
		"Home Furnishing",
		"Cosmetics",
		"Gifts & Toys",
	}
}

func defaultAliases() map[string]string {
	return map[string]string{
		"saree":      "Sarees",
		"sari":       "Sarees",
		"saris":      "Sarees",
		"pattu":      "Silk Sarees",
		"churidar":   "Salwar Suits",
		"chudidhar":  "Salwar Suits",
		"gents wear": "Mens Wear",
		"menswear":   "Mens Wear",
		"jewelry":    "Jewellery",
		"ornaments":  "Jewellery",
		"shoes":      "Footwear",
		"chappals":   "Footwear",
		"bags":       "Handbags",
		"bedsheets":  "Home Furnishing",
		"makeup":     "Cosmetics",
		"toys":       "Gifts & Toys",
	}
}

// Canonicalize resolves a raw label: exact (normalized) match first, then the
// alias table, then substring containment in either direction against each
// master name in configured order.
func (c *Catalog) Canonicalize(raw string) (string, bool) {
	k := utils.NormKey(raw)
	if k == "" {
		return "", false
	}
	for i, mk := range c.masterKeys {
		if mk == k {
			return c.master[i], true
		}
	}
	if canon, ok := c.alias[k]; ok {
		return canon, true
	}
	// containment; fragments shorter than 3 runes match too much to trust
	if len([]rune(k)) >= 3 {
		for i, mk := range c.masterKeys {
			if strings.Contains(mk, k) || strings.Contains(k, mk) {
				return c.master[i], true
			}
		}
	}
	return "", false
}

// FormatWithCounter canonicalizes rawName, then appends " (counter)" when a
// counter value is present. Canonicalization happens before suffixing so the
// tier dedup can use the counter-stripped name.
func (c *Catalog) FormatWithCounter(rawName, counter string) string {
	canon, ok := c.Canonicalize(rawName)
	if !ok {
		return ""
	}
	counter = strings.TrimSpace(counter)
	if counter == "" {
		return canon
	}
	return canon + " (" + counter + ")"
}

// Suggest returns the closest master name to an unmatched label when the
// similarity clears 0.7. Diagnostics only; it never feeds matching.
func (c *Catalog) Suggest(raw string) string {
	k := utils.NormKey(raw)
	if k == "" {
		return ""
	}
	best, bestScore := "", 0.0
	for i, mk := range c.masterKeys {
		if s := similarity(k, mk); s > bestScore {
			bestScore = s
			best = c.master[i]
		}
	}
	if bestScore >= 0.7 {
		return best
	}
	return ""
}
