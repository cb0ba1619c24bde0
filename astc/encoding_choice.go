package astc

// EncodingChoiceErrors estimates, for one partition, the extra error that
// simplified color encodings would introduce relative to unconstrained
// RGB endpoints, plus eligibility flags derived from endpoint geometry.
//
// The error fields are deltas against the unconstrained baseline scaled by
// empirically tuned factors; they may be negative when the constrained fit
// happens to be the better one.
type EncodingChoiceErrors struct {
	// RGBScaleError is the cost of RGB-scale (same-chroma) encoding.
	RGBScaleError float32
	// RGBLumaError is the cost of HDR RGB luma-shift encoding.
	RGBLumaError float32
	// LuminanceError is the cost of discarding chroma entirely.
	LuminanceError float32
	// AlphaDropError is the cost of discarding the alpha channel.
	AlphaDropError float32

	// CanOffsetEncode is set when the endpoints are close enough on every
	// RGB channel for delta (offset) endpoint encoding.
	CanOffsetEncode bool
	// CanBlueContract is set when the blue-contract transform of both
	// endpoints stays strictly inside the representable range.
	CanBlueContract bool
}

// line3 is a parametric line in 3-component color space. The direction b
// need not be unit length until the line is processed.
type line3 struct {
	a float4
	b float4
}

// processedLine3 is a line prepared for fast projection: amod is the
// offset term, bs the forward-scaled direction and bis the inverse-scaled
// direction, so the hot loop never divides.
type processedLine3 struct {
	amod float4
	bs   float4
	bis  float4
}

// processLine3 converts a raw line using a per-channel color scale factor
// and its clamped reciprocal. Alpha lanes of both scale vectors must
// already be zero.
func processLine3(l line3, csf, icsf float4) processedLine3 {
	return processedLine3{
		amod: l.a.sub(l.b.scale(dot3(l.a, l.b))).mul(icsf),
		bs:   l.b.mul(csf),
		bis:  l.b.mul(icsf),
	}
}

// mergeEndpoints combines two endpoint sets for dual-plane mode: the
// designated component of each endpoint comes from ep2, every other
// component from ep1. Both sets must have the same partition count.
//
// Ported from merge_endpoints() in Source/astcenc_encoding_choice_error.cpp.
func mergeEndpoints(ep1, ep2 *Endpoints, separateComponent int, res *Endpoints) {
	partitionCount := ep1.PartitionCount
	res.PartitionCount = partitionCount

	for i := 0; i < partitionCount; i++ {
		res.Endpt0[i] = selectLane(ep1.Endpt0[i], ep2.Endpt0[i], separateComponent)
		res.Endpt1[i] = selectLane(ep1.Endpt1[i], ep2.Endpt1[i], separateComponent)
	}
}

// computeErrorSquaredRGBSinglePartition sweeps the block once for one
// partition, accumulating the weighted squared RGB residual against four
// candidate lines and the weighted squared error of dropping alpha.
//
// Texels outside the partition, or with an RGB fitting weight below 1e-20,
// contribute nothing; an all-excluded partition therefore yields exact
// zero sums.
//
// Ported from compute_error_squared_rgb_single_partition() in
// Source/astcenc_encoding_choice_error.cpp.
func computeErrorSquaredRGBSinglePartition(
	partitionToTest int,
	bsd *BlockSizeDescriptor,
	pi *PartitionInfo,
	blk *ImageBlock,
	ewb *ErrorWeightBlock,
	uncorPline *processedLine3,
	samecPline *processedLine3,
	rgblPline *processedLine3,
	lPline *processedLine3,
) (uncorErr, samecErr, rgblErr, lErr, aDropErr float32) {
	texelsPerBlock := bsd.TexelCount

	uncorErrorsum := float32(0)
	samecErrorsum := float32(0)
	rgblErrorsum := float32(0)
	lErrorsum := float32(0)
	aDropErrorsum := float32(0)

	for i := 0; i < texelsPerBlock; i++ {
		texelWeight := ewb.TexelWeightRGB[i]
		if int(pi.PartitionOfTexel[i]) != partitionToTest || texelWeight < 1e-20 {
			continue
		}

		point := blk.texel(i)
		ews := ewb.ErrorWeights[i]

		// Error arising from just ditching alpha.
		defaultAlpha := float32(0xFFFF)
		if blk.AlphaLNS[i] {
			defaultAlpha = float32(0x7800)
		}
		omalpha := point[3] - defaultAlpha
		aDropErrorsum += omalpha * omalpha * ews[3]

		{
			param := dot3(point, uncorPline.bs)
			rp1 := uncorPline.amod.add(uncorPline.bis.scale(param))
			dist := rp1.sub(point)
			uncorErrorsum += dot3(ews, dist.mul(dist))
		}

		{
			param := dot3(point, samecPline.bs)
			rp1 := samecPline.amod.add(samecPline.bis.scale(param))
			dist := rp1.sub(point)
			samecErrorsum += dot3(ews, dist.mul(dist))
		}

		{
			param := dot3(point, rgblPline.bs)
			rp1 := rgblPline.amod.add(rgblPline.bis.scale(param))
			dist := rp1.sub(point)
			rgblErrorsum += dot3(ews, dist.mul(dist))
		}

		{
			param := dot3(point, lPline.bs)
			// No luma amod - it is always zero.
			rp1 := lPline.bis.scale(param)
			dist := rp1.sub(point)
			lErrorsum += dot3(ews, dist.mul(dist))
		}
	}

	return uncorErrorsum, samecErrorsum, rgblErrorsum, lErrorsum, aDropErrorsum
}

// ComputeEncodingChoiceErrors fills eci with one record per partition,
// pricing the candidate color simplifications for a given block,
// partitioning and error weighting. separateComponent selects the
// dual-plane component, or -1 for single-plane mode.
//
// The caller owns eci and must size it to at least pi.PartitionCount; slots
// are written at disjoint indices and nothing else is mutated, so calls are
// safe to run concurrently with disjoint outputs.
//
// Ported from compute_encoding_choice_errors() in
// Source/astcenc_encoding_choice_error.cpp.
func ComputeEncodingChoiceErrors(
	bsd *BlockSizeDescriptor,
	blk *ImageBlock,
	pi *PartitionInfo,
	ewb *ErrorWeightBlock,
	separateComponent int,
	eci []EncodingChoiceErrors,
) {
	partitionCount := pi.PartitionCount

	var averages [blockMaxPartitions]float4
	var directionsRGB [blockMaxPartitions]float4
	var errorWeightings [blockMaxPartitions]float4
	var colorScalefactors [blockMaxPartitions]float4

	computePartitionErrorColorWeightings(bsd, ewb, pi, &errorWeightings, &colorScalefactors)
	computeAveragesAndDirectionsRGB(pi, blk, ewb, &colorScalefactors, &averages, &directionsRGB)

	var ep Endpoints
	if separateComponent == -1 {
		var ei endpointsAndWeights
		computeEndpointsAndIdealWeights1Plane(bsd, pi, blk, ewb, &ei)
		ep = ei.ep
	} else {
		var ei1, ei2 endpointsAndWeights
		computeEndpointsAndIdealWeights2Planes(bsd, pi, blk, ewb, separateComponent, &ei1, &ei2)
		mergeEndpoints(&ei1.ep, &ei2.ep, separateComponent, &ep)
	}

	for i := 0; i < partitionCount; i++ {
		csf := colorScalefactors[i].withLane(3, 0)
		icsf := reciprocalClamped(colorScalefactors[i]).withLane(3, 0)

		uncorrRGBLines := line3{a: averages[i]}
		if dot3(directionsRGB[i], directionsRGB[i]) == 0 {
			uncorrRGBLines.b = normalize4(csf)
		} else {
			uncorrRGBLines.b = normalize4(directionsRGB[i])
		}

		samechromaRGBLines := line3{}
		if dot3(averages[i], averages[i]) < 1e-20 {
			samechromaRGBLines.b = normalize4(csf)
		} else {
			samechromaRGBLines.b = normalize4(averages[i])
		}

		rgbLumaLines := line3{a: averages[i], b: normalize4(csf)}

		procUncorrRGBLines := processLine3(uncorrRGBLines, csf, icsf)
		procSamechromaRGBLines := processLine3(samechromaRGBLines, csf, icsf)
		procRGBLumaLines := processLine3(rgbLumaLines, csf, icsf)

		// Luminance always goes through zero, so amod stays zero.
		procLuminanceLines := processedLine3{
			bs:  normalize4(csf).mul(csf),
			bis: normalize4(csf).mul(icsf),
		}

		uncorrRGBError, samechromaRGBError, rgbLumaError, luminanceRGBError, alphaDropError :=
			computeErrorSquaredRGBSinglePartition(
				i, bsd, pi, blk, ewb,
				&procUncorrRGBLines,
				&procSamechromaRGBLines,
				&procRGBLumaLines,
				&procLuminanceLines)

		// Store out the settings.
		eci[i].RGBScaleError = (samechromaRGBError - uncorrRGBError) * 0.7 // empirical
		eci[i].RGBLumaError = (rgbLumaError - uncorrRGBError) * 1.5       // wild guess
		eci[i].LuminanceError = (luminanceRGBError - uncorrRGBError) * 3.0 // empirical
		eci[i].AlphaDropError = alphaDropError * 3.0
		eci[i].CanOffsetEncode = canOffsetEncode(ep.Endpt0[i], ep.Endpt1[i])
		eci[i].CanBlueContract = canBlueContract(ep.Endpt0[i], ep.Endpt1[i])
	}
}

// canOffsetEncode reports whether the RGB lanes of a partition's endpoints
// are close enough for delta endpoint encoding: every RGB difference must
// stay strictly below 12% of the full 0..65535 range. Alpha is not
// considered.
func canOffsetEncode(endpt0, endpt1 float4) bool {
	endptDiff := abs4(endpt1.sub(endpt0))
	return endptDiff[0] < 0.12*65535 &&
		endptDiff[1] < 0.12*65535 &&
		endptDiff[2] < 0.12*65535
}

// canBlueContract reports whether blue-contraction is usable: both
// endpoints' red- and green-derived channels must stay strictly inside
// (1%, 99%) of the full range after the transform.
func canBlueContract(endpt0, endpt1 float4) bool {
	endptDiffBC := float4{
		endpt0[0] + (endpt0[0] - endpt0[2]),
		endpt1[0] + (endpt1[0] - endpt1[2]),
		endpt0[1] + (endpt0[1] - endpt0[2]),
		endpt1[1] + (endpt1[1] - endpt1[2]),
	}
	for lane := 0; lane < 4; lane++ {
		if endptDiffBC[lane] <= 0.01*65535 || endptDiffBC[lane] >= 0.99*65535 {
			return false
		}
	}
	return true
}

// reciprocalClamped returns the per-lane reciprocal of v with the
// denominator clamped to at least 1e-7 to avoid division blow-up.
func reciprocalClamped(v float4) float4 {
	v = max4(v, 1e-7)
	return float4{1 / v[0], 1 / v[1], 1 / v[2], 1 / v[3]}
}
