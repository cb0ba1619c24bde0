package astc

import "sync"

// PartitionInfo describes one partitioning of a block: a dense assignment
// of every texel to a partition index in [0, PartitionCount).
type PartitionInfo struct {
	PartitionCount int

	// PartitionOfTexel maps texel index to partition index.
	PartitionOfTexel []uint8

	// TexelsPerPartition holds the per-partition texel counts.
	TexelsPerPartition [blockMaxPartitions]int

	// texelsOfPartition lists the texel indices belonging to each
	// partition, for loops that sweep a single partition.
	texelsOfPartition [blockMaxPartitions][]uint8
}

// NewPartitionInfo builds a PartitionInfo from an explicit texel-to-partition
// assignment. The assignment is copied.
func NewPartitionInfo(partitionCount int, partitionOfTexel []uint8) *PartitionInfo {
	pi := &PartitionInfo{
		PartitionCount:   partitionCount,
		PartitionOfTexel: make([]uint8, len(partitionOfTexel)),
	}
	copy(pi.PartitionOfTexel, partitionOfTexel)
	pi.buildTexelLists()
	return pi
}

func (pi *PartitionInfo) buildTexelLists() {
	for p := 0; p < pi.PartitionCount; p++ {
		pi.TexelsPerPartition[p] = 0
		pi.texelsOfPartition[p] = nil
	}
	for t, p := range pi.PartitionOfTexel {
		pi.TexelsPerPartition[p]++
		pi.texelsOfPartition[p] = append(pi.texelsOfPartition[p], uint8(t))
	}
}

// hash52 is the hash function used for procedural partition assignment.
//
// Ported from Source/astcenc_partition_tables.cpp.
func hash52(inp uint32) uint32 {
	inp ^= inp >> 15
	inp *= 0xEEDE0891
	inp ^= inp >> 5
	inp += inp << 16
	inp ^= inp >> 7
	inp ^= inp >> 3
	inp ^= inp << 6
	inp ^= inp >> 17
	return inp
}

// selectPartition selects the partition index for a single texel coordinate.
//
// Ported from Source/astcenc_partition_tables.cpp.
func selectPartition(seed, x, y, z, partitionCount int, smallBlock bool) uint8 {
	if smallBlock {
		x <<= 1
		y <<= 1
		z <<= 1
	}

	seed += (partitionCount - 1) * 1024
	rnum := hash52(uint32(seed))

	seed1 := uint8(rnum & 0xF)
	seed2 := uint8((rnum >> 4) & 0xF)
	seed3 := uint8((rnum >> 8) & 0xF)
	seed4 := uint8((rnum >> 12) & 0xF)
	seed5 := uint8((rnum >> 16) & 0xF)
	seed6 := uint8((rnum >> 20) & 0xF)
	seed7 := uint8((rnum >> 24) & 0xF)
	seed8 := uint8((rnum >> 28) & 0xF)
	seed9 := uint8((rnum >> 18) & 0xF)
	seed10 := uint8((rnum >> 22) & 0xF)
	seed11 := uint8((rnum >> 26) & 0xF)
	seed12 := uint8(((rnum >> 30) | (rnum << 2)) & 0xF)

	seed1 *= seed1
	seed2 *= seed2
	seed3 *= seed3
	seed4 *= seed4
	seed5 *= seed5
	seed6 *= seed6
	seed7 *= seed7
	seed8 *= seed8
	seed9 *= seed9
	seed10 *= seed10
	seed11 *= seed11
	seed12 *= seed12

	var sh1, sh2 int
	if (seed & 1) != 0 {
		if (seed & 2) != 0 {
			sh1 = 4
		} else {
			sh1 = 5
		}
		if partitionCount == 3 {
			sh2 = 6
		} else {
			sh2 = 5
		}
	} else {
		if partitionCount == 3 {
			sh1 = 6
		} else {
			sh1 = 5
		}
		if (seed & 2) != 0 {
			sh2 = 4
		} else {
			sh2 = 5
		}
	}

	sh3 := sh2
	if (seed & 0x10) != 0 {
		sh3 = sh1
	}

	seed1 >>= uint8(sh1)
	seed2 >>= uint8(sh2)
	seed3 >>= uint8(sh1)
	seed4 >>= uint8(sh2)
	seed5 >>= uint8(sh1)
	seed6 >>= uint8(sh2)
	seed7 >>= uint8(sh1)
	seed8 >>= uint8(sh2)

	seed9 >>= uint8(sh3)
	seed10 >>= uint8(sh3)
	seed11 >>= uint8(sh3)
	seed12 >>= uint8(sh3)

	a := int(seed1)*x + int(seed2)*y + int(seed11)*z + int(rnum>>14)
	b := int(seed3)*x + int(seed4)*y + int(seed12)*z + int(rnum>>10)
	c := int(seed5)*x + int(seed6)*y + int(seed9)*z + int(rnum>>6)
	d := int(seed7)*x + int(seed8)*y + int(seed10)*z + int(rnum>>2)

	a &= 0x3F
	b &= 0x3F
	c &= 0x3F
	d &= 0x3F

	if partitionCount <= 3 {
		d = 0
	}
	if partitionCount <= 2 {
		c = 0
	}
	if partitionCount <= 1 {
		b = 0
	}

	if a >= b && a >= c && a >= d {
		return 0
	} else if b >= c && b >= d {
		return 1
	} else if c >= d {
		return 2
	}
	return 3
}

type partitionInfoKey struct {
	bx   uint8
	by   uint8
	bz   uint8
	pc   uint8
	pidx uint16
}

var partitionInfos struct {
	mu sync.RWMutex
	m  map[partitionInfoKey]*PartitionInfo
}

// GetPartitionInfo returns the cached partitioning for a block geometry,
// partition count and 10-bit partition index, building it on first use.
// For partitionCount 1 every texel maps to partition 0 regardless of index.
func GetPartitionInfo(bsd *BlockSizeDescriptor, partitionCount, partitionIndex int) *PartitionInfo {
	partitionIndex &= (1 << partitionIndexBits) - 1
	if partitionCount <= 1 {
		partitionCount = 1
		partitionIndex = 0
	}

	key := partitionInfoKey{
		bx:   uint8(bsd.BlockX),
		by:   uint8(bsd.BlockY),
		bz:   uint8(bsd.BlockZ),
		pc:   uint8(partitionCount),
		pidx: uint16(partitionIndex),
	}

	partitionInfos.mu.RLock()
	if partitionInfos.m != nil {
		if pi := partitionInfos.m[key]; pi != nil {
			partitionInfos.mu.RUnlock()
			return pi
		}
	}
	partitionInfos.mu.RUnlock()

	partitionInfos.mu.Lock()
	defer partitionInfos.mu.Unlock()
	if partitionInfos.m == nil {
		partitionInfos.m = make(map[partitionInfoKey]*PartitionInfo)
	} else if pi := partitionInfos.m[key]; pi != nil {
		return pi
	}

	smallBlock := bsd.TexelCount < 32
	pi := &PartitionInfo{
		PartitionCount:   partitionCount,
		PartitionOfTexel: make([]uint8, bsd.TexelCount),
	}
	tix := 0
	for z := 0; z < bsd.BlockZ; z++ {
		for y := 0; y < bsd.BlockY; y++ {
			for x := 0; x < bsd.BlockX; x++ {
				if partitionCount > 1 {
					pi.PartitionOfTexel[tix] = selectPartition(partitionIndex, x, y, z, partitionCount, smallBlock)
				}
				tix++
			}
		}
	}
	pi.buildTexelLists()

	partitionInfos.m[key] = pi
	return pi
}
