package xmp

import (
	"go.uber.org/zap"
)

// DefaultMaxDepth is the element nesting limit applied when no WithMaxDepth
// option is given.
const DefaultMaxDepth = 512

// ParseOption configures Parse behavior.
type ParseOption func(*parseOptions)

type parseOptions struct {
	// Security limit for untrusted input
	maxDepth int

	logger   *zap.Logger
	registry *Registry

	// Input shape
	requireXMPMeta bool
	strictAbout    bool

	// Rewrites applied after the tree is built
	normalize bool
}

func defaultParseOptions() parseOptions {
	return parseOptions{
		maxDepth: DefaultMaxDepth,
		logger:   zap.NewNop(),
		registry: DefaultRegistry,
	}
}

// WithMaxDepth sets the maximum element nesting depth. Values <= 0 disable the limit.
// The parsed document keeps the limit for later Set and Serialize calls.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(opts *parseOptions) {
		opts.maxDepth = maxDepth
	}
}

// WithLogger routes parser diagnostics to logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) ParseOption {
	return func(opts *parseOptions) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// WithRegistry resolves namespaces and aliases against registry instead of
// DefaultRegistry. Namespaces found in the input are registered there.
func WithRegistry(registry *Registry) ParseOption {
	return func(opts *parseOptions) {
		if registry != nil {
			opts.registry = registry
		}
	}
}

// WithRequireXMPMeta rejects input whose rdf:RDF is not enclosed in x:xmpmeta.
func WithRequireXMPMeta() ParseOption {
	return func(opts *parseOptions) {
		opts.requireXMPMeta = true
	}
}

// WithStrictAbout rejects Descriptions that omit rdf:about.
func WithStrictAbout() ParseOption {
	return func(opts *parseOptions) {
		opts.strictAbout = true
	}
}

// WithNormalization wraps simple values of well-known Dublin Core array
// properties into their schema arrays after parsing.
//
// For example, dc:subject="a" becomes a one-item Bag and dc:title="t"
// becomes an Alt with an x-default item.
func WithNormalization() ParseOption {
	return func(opts *parseOptions) {
		opts.normalize = true
	}
}

// SerializeOptions configures Serialize output.
//
// The zero value produces a wrapped packet with verbose element syntax on a
// single line, properties in insertion order.
type SerializeOptions struct {
	// OmitPacketWrapper drops the <?xpacket?> header and trailer.
	OmitPacketWrapper bool
	// OmitXMPMeta drops the x:xmpmeta root element and starts at rdf:RDF.
	OmitXMPMeta bool
	// Compact writes unqualified simple properties as attributes.
	Compact bool
	// Canonical forces verbose output, sorting and a complete wrapped packet.
	// Combining it with Compact, OmitPacketWrapper or OmitXMPMeta is an error.
	Canonical bool
	// Sort orders namespaces by prefix and properties by name. Array items
	// keep their stored order.
	Sort bool
	// ReadOnly writes end="r" into the packet trailer.
	ReadOnly bool

	// Pretty enables line breaks and indentation.
	Pretty bool
	// Indent is the per-level indent when Pretty is set (default two spaces).
	Indent string
	// Newline is the line terminator when Pretty is set (default "\n").
	Newline string
	// BaseIndent is the number of indent units added to every line.
	BaseIndent int
	// Padding is the number of space bytes inserted before the trailer so
	// the packet can be edited in place. Requires the packet wrapper.
	Padding int

	// Toolkit is written as x:xmptk on x:xmpmeta. Empty uses the library name.
	Toolkit string
}

// DefaultSerializeOptions returns pretty-printed, wrapped output.
func DefaultSerializeOptions() SerializeOptions {
	return SerializeOptions{
		Pretty:  true,
		Indent:  "  ",
		Newline: "\n",
	}
}

// CanonicalSerializeOptions returns the options used for guaranteed re-parseable output.
func CanonicalSerializeOptions() SerializeOptions {
	opts := DefaultSerializeOptions()
	opts.Canonical = true
	opts.Sort = true
	return opts
}

func (o SerializeOptions) validate() error {
	if o.Canonical {
		switch {
		case o.Compact:
			return errorf(ErrSerialize, "canonical form cannot be compact")
		case o.OmitPacketWrapper:
			return errorf(ErrSerialize, "canonical form requires the packet wrapper")
		case o.OmitXMPMeta:
			return errorf(ErrSerialize, "canonical form requires the x:xmpmeta element")
		}
	}
	if o.Padding < 0 {
		return errorf(ErrSerialize, "negative padding %d", o.Padding)
	}
	if o.Padding > 0 && o.OmitPacketWrapper {
		return errorf(ErrSerialize, "padding requires the packet wrapper")
	}
	if o.BaseIndent < 0 {
		return errorf(ErrSerialize, "negative base indent %d", o.BaseIndent)
	}
	return nil
}

func (o SerializeOptions) withDefaults() SerializeOptions {
	if o.Canonical {
		o.Sort = true
	}
	if o.Indent == "" {
		o.Indent = "  "
	}
	if o.Newline == "" {
		o.Newline = "\n"
	}
	if o.Toolkit == "" {
		o.Toolkit = Toolkit
	}
	return o
}
