package astc

// computePartitionErrorColorWeightings derives, for each partition, the
// averaged per-channel error weighting and its component-wise square root,
// which the encoding-choice stage uses as the color scale factor.
//
// Ported from compute_partition_error_color_weightings() in
// Source/astcenc_averages_and_directions.cpp.
func computePartitionErrorColorWeightings(
	bsd *BlockSizeDescriptor,
	ewb *ErrorWeightBlock,
	pi *PartitionInfo,
	errorWeightings *[blockMaxPartitions]float4,
	colorScalefactors *[blockMaxPartitions]float4,
) {
	partitionCount := pi.PartitionCount

	for i := 0; i < partitionCount; i++ {
		errorWeightings[i] = float4Splat(1e-12)
	}

	for i := 0; i < bsd.TexelCount; i++ {
		part := pi.PartitionOfTexel[i]
		errorWeightings[part] = errorWeightings[part].add(ewb.ErrorWeights[i])
	}

	for i := 0; i < partitionCount; i++ {
		count := pi.TexelsPerPartition[i]
		if count < 1 {
			count = 1
		}
		errorWeightings[i] = errorWeightings[i].scale(1.0 / float32(count))
		colorScalefactors[i] = sqrt4(errorWeightings[i])
	}
}

// computeAveragesAndDirectionsRGB computes, per partition, the weighted
// average color (pre-scaled by the partition's color scale factor) and a
// dominant RGB direction estimated without a full covariance solve: texel
// offsets from the average are accumulated into per-axis positive buckets
// and the longest bucket sum wins.
//
// Ported from compute_averages_and_directions_rgb() in
// Source/astcenc_averages_and_directions.cpp. A partition whose fitting
// weights all vanish yields a zero average and a zero direction; callers
// handle the degenerate direction with an explicit fallback.
func computeAveragesAndDirectionsRGB(
	pi *PartitionInfo,
	blk *ImageBlock,
	ewb *ErrorWeightBlock,
	colorScalefactors *[blockMaxPartitions]float4,
	averages *[blockMaxPartitions]float4,
	directionsRGB *[blockMaxPartitions]float4,
) {
	partitionCount := pi.PartitionCount

	for partition := 0; partition < partitionCount; partition++ {
		texels := pi.texelsOfPartition[partition]

		baseSum := float4{}
		partitionWeight := float32(0)
		for _, iwt := range texels {
			weight := ewb.TexelWeightRGB[iwt]
			texelDatum := blk.texel(int(iwt)).withLane(3, 0).scale(weight)
			partitionWeight += weight
			baseSum = baseSum.add(texelDatum)
		}

		average := float4{}
		if partitionWeight > 1e-7 {
			average = baseSum.scale(1.0 / partitionWeight)
		}

		csf := colorScalefactors[partition].withLane(3, 0)
		averages[partition] = average.mul(csf)

		sumXP := float4{}
		sumYP := float4{}
		sumZP := float4{}
		for _, iwt := range texels {
			weight := ewb.TexelWeightRGB[iwt]
			texelDatum := blk.texel(int(iwt)).withLane(3, 0).sub(average).scale(weight)

			if texelDatum[0] > 0 {
				sumXP = sumXP.add(texelDatum)
			}
			if texelDatum[1] > 0 {
				sumYP = sumYP.add(texelDatum)
			}
			if texelDatum[2] > 0 {
				sumZP = sumZP.add(texelDatum)
			}
		}

		prodXP := dot3(sumXP, sumXP)
		prodYP := dot3(sumYP, sumYP)
		prodZP := dot3(sumZP, sumZP)

		bestVector := sumXP
		bestSum := prodXP
		if prodYP > bestSum {
			bestVector = sumYP
			bestSum = prodYP
		}
		if prodZP > bestSum {
			bestVector = sumZP
		}

		directionsRGB[partition] = bestVector
	}
}
