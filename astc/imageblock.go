package astc

// ImageBlock holds one block's texels on the 0..65535 working scale used
// by the encoding analysis, plus per-texel LNS flags for alpha.
//
// An ImageBlock must not be mutated while an analysis call referencing it
// is in flight.
type ImageBlock struct {
	// Texels holds TexelCount colors in block raster order.
	Texels []float4

	// AlphaLNS marks texels whose alpha value is stored in LNS (log)
	// encoding rather than linear. It changes the default alpha used when
	// pricing an alpha-channel drop.
	AlphaLNS []bool

	// DataMin and DataMax are per-channel bounds over the block.
	DataMin float4
	DataMax float4
}

func (b *ImageBlock) texel(i int) float4 {
	return b.Texels[i]
}

// IsConstant reports whether every texel in the block has the same color.
func (b *ImageBlock) IsConstant() bool {
	return b.DataMin == b.DataMax
}

// IsGrayscale reports whether R, G and B are equal in every texel.
func (b *ImageBlock) IsGrayscale() bool {
	for _, t := range b.Texels {
		if t[0] != t[1] || t[0] != t[2] {
			return false
		}
	}
	return true
}

// IsConstantAlpha reports whether the alpha channel is constant.
func (b *ImageBlock) IsConstantAlpha() bool {
	return b.DataMin[3] == b.DataMax[3]
}

// UpdateBounds recomputes DataMin/DataMax from the texel data. Callers that
// fill Texels directly must invoke it before analysis helpers that consult
// the bounds.
func (b *ImageBlock) UpdateBounds() {
	if len(b.Texels) == 0 {
		b.DataMin = float4{}
		b.DataMax = float4{}
		return
	}
	mn := b.Texels[0]
	mx := b.Texels[0]
	for _, t := range b.Texels[1:] {
		mn = min4v(mn, t)
		mx = max4v(mx, t)
	}
	b.DataMin = mn
	b.DataMax = mx
}

// NewImageBlock returns a block with storage sized for bsd.
func NewImageBlock(bsd *BlockSizeDescriptor) *ImageBlock {
	return &ImageBlock{
		Texels:   make([]float4, bsd.TexelCount),
		AlphaLNS: make([]bool, bsd.TexelCount),
	}
}

// LoadBlockRGBA8 fills blk from a tightly packed RGBA8 pixel buffer,
// clamping out-of-bounds coordinates to the image edge. RGBA8 input is LDR
// data, so no texel uses LNS alpha; the profile selects the endpoint
// expansion used to reach the 0..65535 working scale.
func LoadBlockRGBA8(blk *ImageBlock, pix []byte, width, height, x0, y0 int, bsd *BlockSizeDescriptor, profile Profile) {
	srgb := profile == ProfileLDRSRGB
	tix := 0
	for by := 0; by < bsd.BlockY; by++ {
		y := y0 + by
		if y >= height {
			y = height - 1
		}
		row := y * width * 4
		for bx := 0; bx < bsd.BlockX; bx++ {
			x := x0 + bx
			if x >= width {
				x = width - 1
			}
			src := row + x*4
			blk.Texels[tix] = expandRGBA8(pix[src+0], pix[src+1], pix[src+2], pix[src+3], srgb)
			blk.AlphaLNS[tix] = false
			tix++
		}
	}
	blk.UpdateBounds()
}

func expandRGBA8(r, g, b, a uint8, srgb bool) float4 {
	if srgb {
		// Matches the sRGB endpoint expansion (u << 8) | 0x80; alpha stays linear.
		return float4{
			float32((uint32(r) << 8) | 0x80),
			float32((uint32(g) << 8) | 0x80),
			float32((uint32(b) << 8) | 0x80),
			float32(uint32(a) * 257),
		}
	}
	return float4{
		float32(uint32(r) * 257),
		float32(uint32(g) * 257),
		float32(uint32(b) * 257),
		float32(uint32(a) * 257),
	}
}
