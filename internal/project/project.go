// Package project maps URL project keys to their physical tables and
// document whitelists. The lifecycle logic is project-agnostic; only the
// table names and the allowed document types differ between projects.
package project

import (
	"errors"
	"sort"
)

var ErrUnknownProject = errors.New("unknown project")

type Config struct {
	Key          string
	Label        string
	Table        string
	HistoryTable string
	DocTypes     []string
}

var registry = map[string]Config{
	"elnusa": {
		Key:          "elnusa",
		Label:        "Elnusa",
		Table:        "elnusa_employees",
		HistoryTable: "elnusa_contract_history",
		DocTypes:     []string{"cv", "ijazah", "ktp", "npwp", "no_pkwt"},
	},
	"regional2s": {
		Key:          "regional2s",
		Label:        "Regional 2 Subsurface",
		Table:        "regional2s_employees",
		HistoryTable: "regional2s_contract_history",
		DocTypes:     []string{"cv", "ijazah", "ktp", "npwp", "no_pkwt", "mcu"},
	},
	"regional4": {
		Key:          "regional4",
		Label:        "Regional 4",
		Table:        "regional4_employees",
		HistoryTable: "regional4_contract_history",
		DocTypes:     []string{"cv", "ijazah", "ktp", "npwp"},
	},
}

// Lookup resolves a URL project segment.
func Lookup(key string) (Config, error) {
	cfg, ok := registry[key]
	if !ok {
		return Config{}, ErrUnknownProject
	}
	return cfg, nil
}

// All returns every configured project in stable key order.
func All() []Config {
	keys := make([]string, 0, len(registry))
	for key := range registry {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Config, 0, len(keys))
	for _, key := range keys {
		out = append(out, registry[key])
	}
	return out
}

// AllowsDocType reports whether docType is whitelisted for this project.
func (c Config) AllowsDocType(docType string) bool {
	for _, allowed := range c.DocTypes {
		if allowed == docType {
			return true
		}
	}
	return false
}
