package astc

// ErrorWeightBlock carries per-texel error significance for one block.
// Weights are non-negative; a texel whose RGB weight drops below 1e-20 is
// excluded from line fitting entirely.
type ErrorWeightBlock struct {
	// ErrorWeights is the per-texel, per-channel weight vector.
	ErrorWeights []float4

	// TexelWeightRGB is the mean of the R,G,B weight lanes, used as the
	// scalar fitting weight.
	TexelWeightRGB []float32

	// TexelWeight is the mean of all four weight lanes.
	TexelWeight []float32
}

// NewErrorWeightBlock returns a weight block sized for bsd with every
// texel's weight vector set to channelWeights.
func NewErrorWeightBlock(bsd *BlockSizeDescriptor, channelWeights float4) *ErrorWeightBlock {
	ewb := &ErrorWeightBlock{
		ErrorWeights:   make([]float4, bsd.TexelCount),
		TexelWeightRGB: make([]float32, bsd.TexelCount),
		TexelWeight:    make([]float32, bsd.TexelCount),
	}
	for i := range ewb.ErrorWeights {
		ewb.SetWeight(i, channelWeights)
	}
	return ewb
}

// SetWeight sets texel i's weight vector and refreshes the derived scalar
// weights.
func (ewb *ErrorWeightBlock) SetWeight(i int, w float4) {
	ewb.ErrorWeights[i] = w
	ewb.TexelWeightRGB[i] = (w[0] + w[1] + w[2]) * (1.0 / 3.0)
	ewb.TexelWeight[i] = (w[0] + w[1] + w[2] + w[3]) * 0.25
}
