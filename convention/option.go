package convention

func NewOption() *Option {
	return &Option{
		maxDepth: MaxDepth,
	}
}

type Option struct {
	maxDepth int
}

// SetMaxDepth returns a copy with the depth budget set. Values below 1 are
// ignored by New.
func (src *Option) SetMaxDepth(depth int) *Option {
	dst := *src
	dst.maxDepth = depth
	return &dst
}

func (src *Option) MaxDepth() int {
	return src.maxDepth
}
