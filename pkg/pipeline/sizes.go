package pipeline

import (
	"github.com/matzehuels/flowgrid/pkg/cache"
	"github.com/matzehuels/flowgrid/pkg/grid"
	"github.com/matzehuels/flowgrid/pkg/sizing"
)

// SizePolicy returns the policy the options describe: the explicit Sizes
// list, else the Policy field, else the demo sizes.
func (o *Options) SizePolicy() grid.SizePolicy {
	if len(o.Sizes) > 0 {
		def := sizing.Unit
		if o.DefaultSize != nil {
			def = *o.DefaultSize
		}
		return sizing.Pattern{Specs: o.Sizes, Default: def}
	}
	if o.Policy != nil {
		return o.Policy
	}
	if o.DefaultSize != nil {
		return sizing.Fixed(*o.DefaultSize)
	}
	return sizing.Demo()
}

// ResolveSizes evaluates the size policy for every item and hashes the result
// for use in cache keys.
func ResolveSizes(opts Options) ([]grid.ItemSizeSpec, string, error) {
	specs := sizing.Specs(opts.SizePolicy(), opts.Count)
	hash, err := cache.HashJSON(specs)
	if err != nil {
		return nil, "", err
	}
	return specs, hash, nil
}
