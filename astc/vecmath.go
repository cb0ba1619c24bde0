package astc

import "math"

// float4 is a fixed 4-lane float32 vector. Lane order is R,G,B,A.
//
// This is a scalar equivalent of upstream vfloat4 from
// Source/astcenc_vecmathlib.h; the lane width is always 4, so no
// backend dispatch is needed.
type float4 [4]float32

func float4Splat(s float32) float4 {
	return float4{s, s, s, s}
}

func (v float4) add(o float4) float4 {
	return float4{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]}
}

func (v float4) sub(o float4) float4 {
	return float4{v[0] - o[0], v[1] - o[1], v[2] - o[2], v[3] - o[3]}
}

func (v float4) mul(o float4) float4 {
	return float4{v[0] * o[0], v[1] * o[1], v[2] * o[2], v[3] * o[3]}
}

func (v float4) scale(s float32) float4 {
	return float4{v[0] * s, v[1] * s, v[2] * s, v[3] * s}
}

// withLane returns v with lane i replaced by s.
func (v float4) withLane(i int, s float32) float4 {
	v[i] = s
	return v
}

// dot3 is the 3-lane dot product; the alpha lane is ignored.
func dot3(a, b float4) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func dot4(a, b float4) float32 {
	return (a[0]*b[0] + a[1]*b[1]) + (a[2]*b[2] + a[3]*b[3])
}

// normalize4 scales v to unit 4-lane length. The caller must ensure v is
// not the zero vector.
func normalize4(v float4) float4 {
	return v.scale(1 / float32(math.Sqrt(float64(dot4(v, v)))))
}

func max4(v float4, s float32) float4 {
	for i := 0; i < 4; i++ {
		if v[i] < s {
			v[i] = s
		}
	}
	return v
}

func abs4(v float4) float4 {
	for i := 0; i < 4; i++ {
		if v[i] < 0 {
			v[i] = -v[i]
		}
	}
	return v
}

func min4v(a, b float4) float4 {
	for i := 0; i < 4; i++ {
		if b[i] < a[i] {
			a[i] = b[i]
		}
	}
	return a
}

func max4v(a, b float4) float4 {
	for i := 0; i < 4; i++ {
		if b[i] > a[i] {
			a[i] = b[i]
		}
	}
	return a
}

func sqrt4(v float4) float4 {
	for i := 0; i < 4; i++ {
		v[i] = float32(math.Sqrt(float64(v[i])))
	}
	return v
}

// selectLane returns a with lane `lane` taken from b. It matches the
// upstream select() with a lane_id() == lane mask.
func selectLane(a, b float4, lane int) float4 {
	a[lane] = b[lane]
	return a
}
