package astc

import "testing"

func twoColorBlock(t *testing.T, bsd *BlockSizeDescriptor, lo, hi float4) *ImageBlock {
	t.Helper()
	blk := NewImageBlock(bsd)
	for i := 0; i < bsd.TexelCount; i++ {
		if i%2 == 0 {
			blk.Texels[i] = lo
		} else {
			blk.Texels[i] = hi
		}
	}
	return blk
}

func float4Close(a, b float4, tol float32) bool {
	for lane := 0; lane < 4; lane++ {
		if absF32(a[lane]-b[lane]) > tol {
			return false
		}
	}
	return true
}

func TestIdealEndpoints1PlaneTwoColors(t *testing.T) {
	bsd := mustBSD(t, 4, 4, 1)
	pi := GetPartitionInfo(bsd, 1, 0)
	ewb := NewErrorWeightBlock(bsd, float4{1, 1, 1, 1})

	lo := float4{1000, 2000, 3000, 65535}
	hi := float4{21000, 22000, 23000, 65535}
	blk := twoColorBlock(t, bsd, lo, hi)

	var ei endpointsAndWeights
	computeEndpointsAndIdealWeights1Plane(bsd, pi, blk, ewb, &ei)

	if ei.ep.PartitionCount != 1 {
		t.Fatalf("partition count = %d, want 1", ei.ep.PartitionCount)
	}

	// The fitted line's extremes must land on the two colors.
	e0, e1 := ei.ep.Endpt0[0], ei.ep.Endpt1[0]
	if e0[0] > e1[0] {
		e0, e1 = e1, e0
	}
	if !float4Close(e0, lo, 2.0) {
		t.Fatalf("low endpoint %v, want %v", e0, lo)
	}
	if !float4Close(e1, hi, 2.0) {
		t.Fatalf("high endpoint %v, want %v", e1, hi)
	}

	// Ideal weights are 0 at one color and 1 at the other.
	w0 := ei.weights[0]
	w1 := ei.weights[1]
	if absF32(w0-w1) < 0.99 {
		t.Fatalf("weights %g and %g should sit at opposite ends", w0, w1)
	}
	for i := 2; i < bsd.TexelCount; i++ {
		want := w0
		if i%2 == 1 {
			want = w1
		}
		if absF32(ei.weights[i]-want) > 1e-3 {
			t.Fatalf("texel %d weight = %g, want %g", i, ei.weights[i], want)
		}
	}
}

func TestIdealEndpointsConstantPartition(t *testing.T) {
	bsd := mustBSD(t, 4, 4, 1)
	pi := GetPartitionInfo(bsd, 1, 0)
	ewb := NewErrorWeightBlock(bsd, float4{1, 1, 1, 1})

	c := float4{5000, 6000, 7000, 65535}
	blk := NewImageBlock(bsd)
	for i := 0; i < bsd.TexelCount; i++ {
		blk.Texels[i] = c
	}

	var ei endpointsAndWeights
	computeEndpointsAndIdealWeights1Plane(bsd, pi, blk, ewb, &ei)

	// Both endpoints collapse onto the constant color.
	if !float4Close(ei.ep.Endpt0[0], c, 1.0) || !float4Close(ei.ep.Endpt1[0], c, 1.0) {
		t.Fatalf("constant block endpoints %v / %v, want %v",
			ei.ep.Endpt0[0], ei.ep.Endpt1[0], c)
	}
	for i := 0; i < bsd.TexelCount; i++ {
		if ei.weights[i] < 0 || ei.weights[i] > 1 {
			t.Fatalf("texel %d weight %g outside [0,1]", i, ei.weights[i])
		}
	}
}

func TestIdealEndpoints2PlanesSeparatesComponent(t *testing.T) {
	bsd := mustBSD(t, 4, 4, 1)
	pi := GetPartitionInfo(bsd, 1, 0)
	ewb := NewErrorWeightBlock(bsd, float4{1, 1, 1, 1})

	// RGB ramps one way, alpha ramps independently the other way.
	blk := NewImageBlock(bsd)
	for i := 0; i < bsd.TexelCount; i++ {
		v := float32(i) * 1000
		blk.Texels[i] = float4{v, v, v, 65535 - v*2}
	}

	var ei1, ei2 endpointsAndWeights
	computeEndpointsAndIdealWeights2Planes(bsd, pi, blk, ewb, 3, &ei1, &ei2)

	// Plane 1 ignores alpha entirely.
	if ei1.ep.Endpt0[0][3] != 0 || ei1.ep.Endpt1[0][3] != 0 {
		t.Fatalf("plane 1 endpoints carry alpha: %v / %v", ei1.ep.Endpt0[0], ei1.ep.Endpt1[0])
	}

	// Plane 2 carries only alpha, spanning the alpha ramp.
	e0, e1 := ei2.ep.Endpt0[0], ei2.ep.Endpt1[0]
	if e0[0] != 0 || e0[1] != 0 || e0[2] != 0 || e1[0] != 0 || e1[1] != 0 || e1[2] != 0 {
		t.Fatalf("plane 2 endpoints carry RGB: %v / %v", e0, e1)
	}
	loA, hiA := e0[3], e1[3]
	if loA > hiA {
		loA, hiA = hiA, loA
	}
	if absF32(loA-(65535-float32(bsd.TexelCount-1)*2000)) > 2.0 || absF32(hiA-65535) > 2.0 {
		t.Fatalf("plane 2 alpha span [%g, %g]", loA, hiA)
	}

	// The two weight planes move in opposite directions along the block.
	d1 := ei1.weights[bsd.TexelCount-1] - ei1.weights[0]
	d2 := ei2.weights[bsd.TexelCount-1] - ei2.weights[0]
	if d1*d2 >= 0 {
		t.Fatalf("weight planes should be anti-correlated: d1=%g d2=%g", d1, d2)
	}
}
