package astc

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// AnalyzeBlock validates its inputs and fills out with one
// EncodingChoiceErrors record per partition. It is the checked entry point
// for callers that do not control the construction of every input; code on
// a hot search path that already guarantees the preconditions can call
// ComputeEncodingChoiceErrors directly.
func AnalyzeBlock(
	bsd *BlockSizeDescriptor,
	blk *ImageBlock,
	pi *PartitionInfo,
	ewb *ErrorWeightBlock,
	separateComponent int,
	out []EncodingChoiceErrors,
) error {
	if bsd == nil || blk == nil || pi == nil || ewb == nil {
		return newError(ErrBadParam, "astc: nil analysis input")
	}
	if pi.PartitionCount < 1 || pi.PartitionCount > blockMaxPartitions {
		return newError(ErrBadParam, "astc: invalid partition count")
	}
	if len(blk.Texels) != bsd.TexelCount || len(blk.AlphaLNS) != bsd.TexelCount {
		return newError(ErrBadParam, "astc: image block does not match block size")
	}
	if len(pi.PartitionOfTexel) != bsd.TexelCount {
		return newError(ErrBadParam, "astc: partition info does not match block size")
	}
	if len(ewb.ErrorWeights) != bsd.TexelCount || len(ewb.TexelWeightRGB) != bsd.TexelCount {
		return newError(ErrBadParam, "astc: error weight block does not match block size")
	}
	if separateComponent < -1 || separateComponent > 3 {
		return newError(ErrBadParam, "astc: invalid separate component")
	}
	if len(out) < pi.PartitionCount {
		return newError(ErrBadParam, "astc: output slice shorter than partition count")
	}

	ComputeEncodingChoiceErrors(bsd, blk, pi, ewb, separateComponent, out)
	return nil
}

// AnalyzeConfig controls AnalyzeImage.
type AnalyzeConfig struct {
	Profile Profile
	BlockX  int
	BlockY  int

	// ChannelWeights scales per-channel error significance. The zero value
	// means uniform (1,1,1,1) weighting.
	ChannelWeights [4]float32

	// MaxPartitionCount caps the partitionings probed per block (1..4).
	MaxPartitionCount int

	// PartitionIndexLimit caps how many partition indices are probed per
	// partition count above 1. Zero means a default of 8.
	PartitionIndexLimit int

	// DualPlaneCorrelationThreshold gates the dual-plane probe: a separate
	// weight plane is priced only for a component whose correlation with
	// the rest of the color falls below it. Zero disables dual-plane
	// probing entirely.
	DualPlaneCorrelationThreshold float64
}

// PartitionChoice is the outcome of pricing one candidate partitioning of
// one block.
type PartitionChoice struct {
	PartitionCount    int
	PartitionIndex    int
	SeparateComponent int // -1 for single-plane

	Errors [blockMaxPartitions]EncodingChoiceErrors
}

// BlockAnalysis collects the priced partitionings of one block.
type BlockAnalysis struct {
	// X, Y are the block's texel origin in the image.
	X int
	Y int

	// Constant marks blocks whose texels are all identical; they carry no
	// priced partitionings.
	Constant bool

	Choices []PartitionChoice
}

// ImageAnalysis is the result of AnalyzeImage, one entry per block in
// raster order.
type ImageAnalysis struct {
	BlocksX int
	BlocksY int
	Blocks  []BlockAnalysis
}

// AnalyzeImage tiles a tightly packed RGBA8 image into blocks and prices
// the candidate color simplifications of every block under the configured
// partitionings. Blocks are sharded across goroutines; each worker writes
// only its own disjoint result slots.
func AnalyzeImage(pix []byte, width, height int, cfg AnalyzeConfig) (*ImageAnalysis, error) {
	if err := validateProfile(cfg.Profile); err != nil {
		return nil, err
	}
	bsd, err := NewBlockSizeDescriptor(cfg.BlockX, cfg.BlockY, 1)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 || len(pix) < width*height*4 {
		return nil, newError(ErrBadParam, "astc: image dimensions do not match pixel data")
	}

	maxPartitions := cfg.MaxPartitionCount
	if maxPartitions < 1 {
		maxPartitions = 1
	}
	if maxPartitions > blockMaxPartitions {
		maxPartitions = blockMaxPartitions
	}
	indexLimit := cfg.PartitionIndexLimit
	if indexLimit <= 0 {
		indexLimit = 8
	}
	if indexLimit > 1<<partitionIndexBits {
		indexLimit = 1 << partitionIndexBits
	}
	channelWeights := float4(cfg.ChannelWeights)
	if channelWeights == (float4{}) {
		channelWeights = float4{1, 1, 1, 1}
	}

	blocksX := (width + cfg.BlockX - 1) / cfg.BlockX
	blocksY := (height + cfg.BlockY - 1) / cfg.BlockY
	totalBlocks := blocksX * blocksY

	result := &ImageAnalysis{
		BlocksX: blocksX,
		BlocksY: blocksY,
		Blocks:  make([]BlockAnalysis, totalBlocks),
	}

	procs := runtime.NumCPU()
	if procs < 1 {
		procs = 1
	}
	if procs > totalBlocks {
		procs = totalBlocks
	}

	analyzeOne := func(blk *ImageBlock, ewb *ErrorWeightBlock, idx int) {
		bx := idx % blocksX
		by := idx / blocksX
		ba := &result.Blocks[idx]
		ba.X = bx * cfg.BlockX
		ba.Y = by * cfg.BlockY

		LoadBlockRGBA8(blk, pix, width, height, ba.X, ba.Y, bsd, cfg.Profile)
		if blk.IsConstant() {
			// A constant block needs no partitioning search at all.
			ba.Constant = true
			return
		}

		separateComponent := -1
		if cfg.DualPlaneCorrelationThreshold > 0 {
			separateComponent = selectDualPlaneComponent(blk, cfg.DualPlaneCorrelationThreshold)
		}

		for partitionCount := 1; partitionCount <= maxPartitions; partitionCount++ {
			limit := indexLimit
			if partitionCount == 1 {
				limit = 1
			}
			for index := 0; index < limit; index++ {
				pi := GetPartitionInfo(bsd, partitionCount, index)
				if partitionIsDegenerate(pi) {
					continue
				}

				choice := PartitionChoice{
					PartitionCount:    partitionCount,
					PartitionIndex:    index,
					SeparateComponent: -1,
				}
				ComputeEncodingChoiceErrors(bsd, blk, pi, ewb, -1, choice.Errors[:partitionCount])
				ba.Choices = append(ba.Choices, choice)

				// Dual-plane blocks cannot use 4 partitions.
				if separateComponent >= 0 && partitionCount < 4 {
					choice = PartitionChoice{
						PartitionCount:    partitionCount,
						PartitionIndex:    index,
						SeparateComponent: separateComponent,
					}
					ComputeEncodingChoiceErrors(bsd, blk, pi, ewb, separateComponent, choice.Errors[:partitionCount])
					ba.Choices = append(ba.Choices, choice)
				}
			}
		}
	}

	// Small images are faster to analyze sequentially.
	if procs == 1 || totalBlocks < 32 {
		blk := NewImageBlock(bsd)
		ewb := NewErrorWeightBlock(bsd, channelWeights)
		for idx := 0; idx < totalBlocks; idx++ {
			analyzeOne(blk, ewb, idx)
		}
		return result, nil
	}

	var next uint32
	var wg sync.WaitGroup
	wg.Add(procs)
	for w := 0; w < procs; w++ {
		go func() {
			defer wg.Done()
			blk := NewImageBlock(bsd)
			ewb := NewErrorWeightBlock(bsd, channelWeights)
			for {
				idx := int(atomic.AddUint32(&next, 1) - 1)
				if idx >= totalBlocks {
					return
				}
				analyzeOne(blk, ewb, idx)
			}
		}()
	}
	wg.Wait()
	return result, nil
}

// partitionIsDegenerate reports whether any partition ended up with no
// texels, which makes the partitioning useless as an encoding candidate.
func partitionIsDegenerate(pi *PartitionInfo) bool {
	for p := 0; p < pi.PartitionCount; p++ {
		if pi.TexelsPerPartition[p] == 0 {
			return true
		}
	}
	return false
}
