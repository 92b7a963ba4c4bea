package xmp

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// NamespaceConfig is one namespace entry of a registry config file.
type NamespaceConfig struct {
	URI    string `yaml:"uri"`
	Prefix string `yaml:"prefix"`
}

// AliasConfig is one alias entry of a registry config file. Alias and
// Actual are prefixed names; Form is simple, bag-item, seq-item or
// alt-text and defaults to simple.
type AliasConfig struct {
	Alias  string `yaml:"alias"`
	Actual string `yaml:"actual"`
	Form   string `yaml:"form,omitempty"`
}

// RegistryConfig describes custom namespaces and aliases:
//
//	namespaces:
//	  - uri: http://example.com/ns/photo/1.0/
//	    prefix: photo
//	aliases:
//	  - alias: photo:Caption
//	    actual: dc:description
//	    form: alt-text
type RegistryConfig struct {
	Namespaces []NamespaceConfig `yaml:"namespaces"`
	Aliases    []AliasConfig     `yaml:"aliases"`
}

// LoadRegistryConfig decodes a YAML registry config. Unknown keys are
// rejected.
func LoadRegistryConfig(r io.Reader) (*RegistryConfig, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg RegistryConfig
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("xmp: registry config: %w", err)
	}
	return &cfg, nil
}

// Apply registers the namespaces and then the aliases of cfg. It stops at
// the first failure; entries applied before it stay registered.
func (r *Registry) Apply(cfg *RegistryConfig) error {
	if cfg == nil {
		return nil
	}
	// Prefixes as written in the file, which may differ from the ones the
	// registry hands out on collision.
	local := make(map[string]string, len(cfg.Namespaces))
	for _, ns := range cfg.Namespaces {
		if _, err := r.Register(ns.URI, ns.Prefix); err != nil {
			return err
		}
		local[strings.TrimSuffix(ns.Prefix, ":")] = ns.URI
	}
	for _, a := range cfg.Aliases {
		form, err := parseAliasForm(a.Form)
		if err != nil {
			return err
		}
		aliasNS, aliasName, err := r.splitConfigName(a.Alias, local)
		if err != nil {
			return err
		}
		actualNS, actualName, err := r.splitConfigName(a.Actual, local)
		if err != nil {
			return err
		}
		if err := r.RegisterAlias(aliasNS, aliasName, actualNS, actualName, form); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) splitConfigName(qname string, local map[string]string) (string, string, error) {
	prefix, name, ok := strings.Cut(qname, ":")
	if !ok || prefix == "" || name == "" {
		return "", "", errorf(ErrInvalidValue, "alias name %q is not prefix:name", qname)
	}
	if uri, ok := local[prefix]; ok {
		return uri, name, nil
	}
	uri, err := r.URI(prefix)
	if err != nil {
		return "", "", fmt.Errorf("%w: unknown prefix %q in %q", ErrInvalidNamespace, prefix, qname)
	}
	return uri, name, nil
}

func parseAliasForm(s string) (AliasForm, error) {
	for _, f := range []AliasForm{AliasSimple, AliasBagItem, AliasSeqItem, AliasAltText} {
		if s == f.String() {
			return f, nil
		}
	}
	if s == "" {
		return AliasSimple, nil
	}
	return 0, errorf(ErrInvalidValue, "unknown alias form %q", s)
}
