package astc

import "math"

// componentAbsCorrelation returns |corr| between one color component and
// the sum of the remaining three, over a block's texels. A component that
// tracks the rest of the color closely is a poor dual-plane candidate,
// since a shared weight plane already represents it well.
func componentAbsCorrelation(blk *ImageBlock, component int) float64 {
	n := len(blk.Texels)
	if n <= 1 {
		return 1
	}

	var sumL, sumC float64
	var sumLL, sumCC float64
	var sumLC float64

	for i := 0; i < n; i++ {
		t := blk.texel(i)
		c := float64(t[component])
		l := float64(t[0]+t[1]+t[2]+t[3]) - c
		sumL += l
		sumC += c
		sumLL += l * l
		sumCC += c * c
		sumLC += l * c
	}

	nn := float64(n)
	varL := sumLL*nn - sumL*sumL
	varC := sumCC*nn - sumC*sumC
	if varL <= 0 || varC <= 0 {
		// No variance -> a single weight plane is sufficient.
		return 1
	}

	cov := sumLC*nn - sumL*sumC
	corr := cov / math.Sqrt(varL*varC)
	if corr < 0 {
		corr = -corr
	}
	if corr > 1 {
		corr = 1
	}
	return corr
}

// selectDualPlaneComponent picks the component least correlated with the
// rest of the block's color, or -1 when every component is correlated at
// or above threshold and a separate weight plane is not worth pricing.
func selectDualPlaneComponent(blk *ImageBlock, threshold float64) int {
	best := -1
	bestCorr := threshold
	for c := 0; c < 4; c++ {
		if corr := componentAbsCorrelation(blk, c); corr < bestCorr {
			bestCorr = corr
			best = c
		}
	}
	return best
}
