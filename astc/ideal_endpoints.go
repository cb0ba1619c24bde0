package astc

// Endpoints holds the two representative colors of every partition. There
// is no ordering requirement between the low and high endpoint.
type Endpoints struct {
	PartitionCount int
	Endpt0         [blockMaxPartitions]float4
	Endpt1         [blockMaxPartitions]float4
}

// endpointsAndWeights is the output of the ideal endpoint/weight
// estimation for one weight plane.
type endpointsAndWeights struct {
	ep Endpoints

	// weights holds the ideal per-texel interpolation weight in [0,1].
	weights [blockMaxTexels]float32
}

// fitPartitionLine fits one partition's texels with a least-squares-style
// line over the lanes selected by mask (1 to include a lane, 0 to drop it)
// and returns the low/high endpoints plus the per-texel line parameters.
func fitPartitionLine(
	pi *PartitionInfo,
	blk *ImageBlock,
	ewb *ErrorWeightBlock,
	partition int,
	mask float4,
	params []float32,
) (endpt0, endpt1 float4, lowParam, highParam float32) {
	texels := pi.texelsOfPartition[partition]

	baseSum := float4{}
	partitionWeight := float32(0)
	for _, iwt := range texels {
		weight := ewb.TexelWeight[iwt]
		partitionWeight += weight
		baseSum = baseSum.add(blk.texel(int(iwt)).mul(mask).scale(weight))
	}

	average := float4{}
	if partitionWeight > 1e-7 {
		average = baseSum.scale(1.0 / partitionWeight)
	}

	// Dominant direction via the same sign-bucket accumulation the RGB
	// direction estimator uses, extended to the masked lane set.
	var sums [4]float4
	for _, iwt := range texels {
		weight := ewb.TexelWeight[iwt]
		texelDatum := blk.texel(int(iwt)).mul(mask).sub(average).scale(weight)
		for lane := 0; lane < 4; lane++ {
			if texelDatum[lane] > 0 {
				sums[lane] = sums[lane].add(texelDatum)
			}
		}
	}

	bestVector := sums[0]
	bestSum := dot4(sums[0], sums[0])
	for lane := 1; lane < 4; lane++ {
		if s := dot4(sums[lane], sums[lane]); s > bestSum {
			bestVector = sums[lane]
			bestSum = s
		}
	}

	var dir float4
	if bestSum > 0 {
		dir = normalize4(bestVector)
	} else {
		// Degenerate: every texel sits on the average. Any direction fits;
		// use an even split of the masked lanes.
		dir = normalize4(max4(mask, 1e-7))
	}

	lowParam = float32(1e10)
	highParam = float32(-1e10)
	for _, iwt := range texels {
		param := dot4(blk.texel(int(iwt)).mul(mask).sub(average), dir)
		params[iwt] = param
		if param < lowParam {
			lowParam = param
		}
		if param > highParam {
			highParam = param
		}
	}

	if highParam <= lowParam {
		lowParam = 0
		highParam = 0
	}

	endpt0 = average.add(dir.scale(lowParam))
	endpt1 = average.add(dir.scale(highParam))
	return endpt0, endpt1, lowParam, highParam
}

// computeEndpointsAndIdealWeights1Plane estimates per-partition endpoints
// and ideal interpolation weights with all four components on one weight
// plane.
//
// Ported from compute_endpoints_and_ideal_weights_1_plane() in
// Source/astcenc_ideal_endpoints_and_weights.cpp.
func computeEndpointsAndIdealWeights1Plane(
	bsd *BlockSizeDescriptor,
	pi *PartitionInfo,
	blk *ImageBlock,
	ewb *ErrorWeightBlock,
	ei *endpointsAndWeights,
) {
	partitionCount := pi.PartitionCount
	ei.ep.PartitionCount = partitionCount

	var params [blockMaxTexels]float32
	mask := float4{1, 1, 1, 1}

	for partition := 0; partition < partitionCount; partition++ {
		e0, e1, low, high := fitPartitionLine(pi, blk, ewb, partition, mask, params[:])
		ei.ep.Endpt0[partition] = e0
		ei.ep.Endpt1[partition] = e1

		scale := float32(0)
		if high > low {
			scale = 1.0 / (high - low)
		}
		for _, iwt := range pi.texelsOfPartition[partition] {
			w := (params[iwt] - low) * scale
			if w < 0 {
				w = 0
			} else if w > 1 {
				w = 1
			}
			ei.weights[iwt] = w
		}
	}
}

// computeEndpointsAndIdealWeights2Planes estimates endpoints for dual-plane
// mode: plane 1 fits every component except separateComponent, plane 2 fits
// separateComponent alone on its own weight plane.
//
// Ported from compute_endpoints_and_ideal_weights_2_planes() in
// Source/astcenc_ideal_endpoints_and_weights.cpp.
func computeEndpointsAndIdealWeights2Planes(
	bsd *BlockSizeDescriptor,
	pi *PartitionInfo,
	blk *ImageBlock,
	ewb *ErrorWeightBlock,
	separateComponent int,
	ei1 *endpointsAndWeights,
	ei2 *endpointsAndWeights,
) {
	partitionCount := pi.PartitionCount
	ei1.ep.PartitionCount = partitionCount
	ei2.ep.PartitionCount = partitionCount

	var params [blockMaxTexels]float32

	mask1 := float4{1, 1, 1, 1}.withLane(separateComponent, 0)
	mask2 := float4{}.withLane(separateComponent, 1)

	for partition := 0; partition < partitionCount; partition++ {
		e0, e1, low, high := fitPartitionLine(pi, blk, ewb, partition, mask1, params[:])
		ei1.ep.Endpt0[partition] = e0
		ei1.ep.Endpt1[partition] = e1

		scale := float32(0)
		if high > low {
			scale = 1.0 / (high - low)
		}
		for _, iwt := range pi.texelsOfPartition[partition] {
			w := (params[iwt] - low) * scale
			if w < 0 {
				w = 0
			} else if w > 1 {
				w = 1
			}
			ei1.weights[iwt] = w
		}

		e0, e1, low, high = fitPartitionLine(pi, blk, ewb, partition, mask2, params[:])
		ei2.ep.Endpt0[partition] = e0
		ei2.ep.Endpt1[partition] = e1

		scale = 0
		if high > low {
			scale = 1.0 / (high - low)
		}
		for _, iwt := range pi.texelsOfPartition[partition] {
			w := (params[iwt] - low) * scale
			if w < 0 {
				w = 0
			} else if w > 1 {
				w = 1
			}
			ei2.weights[iwt] = w
		}
	}
}
