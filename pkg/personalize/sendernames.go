package personalize

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSenderNames indicates the sender-name file could not be loaded.
var ErrInvalidSenderNames = errors.New("invalid sender names file")

// fallbackSenderName is used for local-parts without a table entry.
const fallbackSenderName = "The Team"

// Table maps sender local-parts (the text before "@") to the display names
// substituted for {{senderName}}.
type Table map[string]string

var defaultSenderNames = Table{
	"sales":     "John from Sales",
	"support":   "Sarah from Support",
	"marketing": "Mike from Marketing",
	"info":      "The Team",
	"hello":     "Customer Success",
	"contact":   "Business Development",
}

// DefaultSenderNames returns a copy of the built-in display-name table.
func DefaultSenderNames() Table {
	t := make(Table, len(defaultSenderNames))
	for k, v := range defaultSenderNames {
		t[k] = v
	}
	return t
}

// Lookup resolves a local-part to its display name, defaulting unknown
// entries to "The Team".
func (t Table) Lookup(localPart string) string {
	if name, ok := t[localPart]; ok {
		return name
	}
	return fallbackSenderName
}

// LoadSenderNames reads a YAML file mapping local-parts to display names:
//
//	sales: John from Sales
//	support: Sarah from Support
func LoadSenderNames(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSenderNames, err)
	}
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSenderNames, err)
	}
	return t, nil
}
