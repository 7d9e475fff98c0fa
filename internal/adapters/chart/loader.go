// Package chart reads a chart of accounts from YAML.
package chart

import (
	"fmt"
	"os"
	"strings"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// AccountDefinition is one account in the chart file.
type AccountDefinition struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Parent      string `yaml:"parent"`
	Description string `yaml:"description"`
	Active      *bool  `yaml:"active"`
}

// File is the top level of a chart file.
type File struct {
	Accounts []AccountDefinition `yaml:"accounts"`
}

// Load reads and parses the chart at path.
func Load(path string) ([]domain.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}
	return Parse(data)
}

// Parse converts chart YAML into accounts. Accounts are active unless the
// file says otherwise; tree shape is checked by the account service.
func Parse(data []byte) ([]domain.Account, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	accounts := make([]domain.Account, 0, len(file.Accounts))
	for i, def := range file.Accounts {
		code := strings.TrimSpace(def.Code)
		if code == "" {
			return nil, fmt.Errorf("account %d: code is required", i+1)
		}
		accountType := domain.AccountType(strings.ToUpper(strings.TrimSpace(def.Type)))
		if !accountType.Valid() {
			return nil, fmt.Errorf("account %s: unknown type %q", code, def.Type)
		}

		acc := domain.Account{
			Code:        code,
			Name:        strings.TrimSpace(def.Name),
			AccountType: accountType,
			Description: def.Description,
			IsActive:    def.Active == nil || *def.Active,
		}
		if parent := strings.TrimSpace(def.Parent); parent != "" {
			acc.ParentCode = &parent
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}
