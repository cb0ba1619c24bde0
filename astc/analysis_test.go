package astc

import "testing"

func TestAnalyzeBlockValidation(t *testing.T) {
	bsd := mustBSD(t, 4, 4, 1)
	blk := uniformBlockRGBA8(t, bsd, 10, 20, 30, 255)
	ewb := NewErrorWeightBlock(bsd, float4{1, 1, 1, 1})
	pi := GetPartitionInfo(bsd, 2, 0)
	out := make([]EncodingChoiceErrors, blockMaxPartitions)

	cases := []struct {
		name string
		call func() error
	}{
		{"nil bsd", func() error { return AnalyzeBlock(nil, blk, pi, ewb, -1, out) }},
		{"nil block", func() error { return AnalyzeBlock(bsd, nil, pi, ewb, -1, out) }},
		{"nil partition info", func() error { return AnalyzeBlock(bsd, blk, nil, ewb, -1, out) }},
		{"nil weights", func() error { return AnalyzeBlock(bsd, blk, pi, nil, -1, out) }},
		{"bad separate component", func() error { return AnalyzeBlock(bsd, blk, pi, ewb, 4, out) }},
		{"short output", func() error { return AnalyzeBlock(bsd, blk, pi, ewb, -1, out[:1]) }},
		{"mismatched block", func() error {
			other := mustBSD(t, 8, 8, 1)
			wrong := NewImageBlock(other)
			return AnalyzeBlock(bsd, wrong, pi, ewb, -1, out)
		}},
	}
	for _, tc := range cases {
		err := tc.call()
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if code := ErrorCodeOf(err); code != ErrBadParam {
			t.Fatalf("%s: error code %v, want ErrBadParam", tc.name, code)
		}
	}

	if err := AnalyzeBlock(bsd, blk, pi, ewb, -1, out); err != nil {
		t.Fatalf("valid inputs rejected: %v", err)
	}
}

func rampImageRGBA8(width, height int) []byte {
	pix := make([]byte, width*height*4)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			pix[i+0] = byte(x * 255 / (width - 1))
			pix[i+1] = byte(y * 255 / (height - 1))
			pix[i+2] = byte((x + y) * 17)
			pix[i+3] = 255
		}
	}
	return pix
}

func TestAnalyzeImageShape(t *testing.T) {
	const width, height = 10, 7
	pix := rampImageRGBA8(width, height)

	res, err := AnalyzeImage(pix, width, height, AnalyzeConfig{
		Profile:           ProfileLDR,
		BlockX:            4,
		BlockY:            4,
		MaxPartitionCount: 2,
	})
	if err != nil {
		t.Fatalf("AnalyzeImage: %v", err)
	}

	if res.BlocksX != 3 || res.BlocksY != 2 {
		t.Fatalf("grid %dx%d, want 3x2", res.BlocksX, res.BlocksY)
	}
	if len(res.Blocks) != 6 {
		t.Fatalf("%d blocks, want 6", len(res.Blocks))
	}

	for i, ba := range res.Blocks {
		wantX := (i % 3) * 4
		wantY := (i / 3) * 4
		if ba.X != wantX || ba.Y != wantY {
			t.Fatalf("block %d origin (%d,%d), want (%d,%d)", i, ba.X, ba.Y, wantX, wantY)
		}
		if ba.Constant {
			t.Fatalf("block %d marked constant on a ramp image", i)
		}
		if len(ba.Choices) == 0 {
			t.Fatalf("block %d has no priced partitionings", i)
		}
		// Partition count 1 is always priced at index 0 first.
		if ba.Choices[0].PartitionCount != 1 || ba.Choices[0].PartitionIndex != 0 {
			t.Fatalf("block %d first choice = %+v", i, ba.Choices[0])
		}
		for _, ch := range ba.Choices {
			if ch.SeparateComponent != -1 {
				t.Fatalf("block %d priced a dual-plane choice with probing disabled", i)
			}
			if ch.PartitionCount < 1 || ch.PartitionCount > 2 {
				t.Fatalf("block %d partition count %d outside configured range", i, ch.PartitionCount)
			}
		}
	}
}

func TestAnalyzeImageConstantBlocks(t *testing.T) {
	const width, height = 8, 8
	pix := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		pix[i*4+0] = 77
		pix[i*4+1] = 77
		pix[i*4+2] = 77
		pix[i*4+3] = 255
	}

	res, err := AnalyzeImage(pix, width, height, AnalyzeConfig{
		Profile:           ProfileLDR,
		BlockX:            4,
		BlockY:            4,
		MaxPartitionCount: 4,
	})
	if err != nil {
		t.Fatalf("AnalyzeImage: %v", err)
	}
	for i, ba := range res.Blocks {
		if !ba.Constant {
			t.Fatalf("block %d not marked constant", i)
		}
		if len(ba.Choices) != 0 {
			t.Fatalf("constant block %d carries %d choices", i, len(ba.Choices))
		}
	}
}

func TestAnalyzeImageDualPlane(t *testing.T) {
	const width, height = 8, 8
	pix := make([]byte, width*height*4)
	alphas := []byte{3, 240, 9, 180, 90, 5, 220, 30}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			v := byte(x * 30)
			pix[i+0] = v
			pix[i+1] = v
			pix[i+2] = v
			pix[i+3] = alphas[(x+y*3)%len(alphas)]
		}
	}

	res, err := AnalyzeImage(pix, width, height, AnalyzeConfig{
		Profile:                       ProfileLDR,
		BlockX:                        4,
		BlockY:                        4,
		MaxPartitionCount:             4,
		DualPlaneCorrelationThreshold: 0.99,
	})
	if err != nil {
		t.Fatalf("AnalyzeImage: %v", err)
	}

	sawDualPlane := false
	for _, ba := range res.Blocks {
		for _, ch := range ba.Choices {
			if ch.SeparateComponent >= 0 {
				sawDualPlane = true
				if ch.PartitionCount >= 4 {
					t.Fatalf("dual-plane choice priced with %d partitions", ch.PartitionCount)
				}
			}
		}
	}
	if !sawDualPlane {
		t.Fatalf("no dual-plane choice priced despite uncorrelated alpha")
	}
}

func TestAnalyzeImageRejectsBadInput(t *testing.T) {
	pix := rampImageRGBA8(8, 8)

	if _, err := AnalyzeImage(pix, 8, 8, AnalyzeConfig{Profile: Profile(99), BlockX: 4, BlockY: 4}); err == nil {
		t.Fatalf("bad profile accepted")
	}
	if _, err := AnalyzeImage(pix, 8, 8, AnalyzeConfig{Profile: ProfileLDR, BlockX: 7, BlockY: 4}); err == nil {
		t.Fatalf("illegal block size accepted")
	}
	if _, err := AnalyzeImage(pix[:10], 8, 8, AnalyzeConfig{Profile: ProfileLDR, BlockX: 4, BlockY: 4}); err == nil {
		t.Fatalf("short pixel buffer accepted")
	}
	if _, err := AnalyzeImage(pix, 0, 8, AnalyzeConfig{Profile: ProfileLDR, BlockX: 4, BlockY: 4}); err == nil {
		t.Fatalf("zero width accepted")
	}
}

func TestAnalyzeImageDeterministic(t *testing.T) {
	const width, height = 24, 24
	pix := rampImageRGBA8(width, height)

	cfg := AnalyzeConfig{
		Profile:           ProfileLDR,
		BlockX:            4,
		BlockY:            4,
		MaxPartitionCount: 3,
	}
	a, err := AnalyzeImage(pix, width, height, cfg)
	if err != nil {
		t.Fatalf("AnalyzeImage: %v", err)
	}
	b, err := AnalyzeImage(pix, width, height, cfg)
	if err != nil {
		t.Fatalf("AnalyzeImage: %v", err)
	}

	if len(a.Blocks) != len(b.Blocks) {
		t.Fatalf("block counts differ: %d vs %d", len(a.Blocks), len(b.Blocks))
	}
	for i := range a.Blocks {
		ca, cb := a.Blocks[i].Choices, b.Blocks[i].Choices
		if len(ca) != len(cb) {
			t.Fatalf("block %d choice counts differ", i)
		}
		for j := range ca {
			if ca[j] != cb[j] {
				t.Fatalf("block %d choice %d differs:\n%+v\n%+v", i, j, ca[j], cb[j])
			}
		}
	}
}
