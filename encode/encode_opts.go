package encode

type encodeOpts struct {
	indent string
	colors *Colors
}

type EncodeOption func(*encodeOpts)

// EncodeIndent sets the per-level indentation. An empty indent produces
// compact output.
func EncodeIndent(s string) EncodeOption {
	return func(o *encodeOpts) { o.indent = s }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(o *encodeOpts) { o.colors = c }
}
