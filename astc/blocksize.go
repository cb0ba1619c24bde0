package astc

const (
	blockMaxPartitions = 4
	blockMaxTexels     = 216
	partitionIndexBits = 10
)

// BlockSizeDescriptor holds the geometry of one block footprint. It is
// immutable once built and safe to share between concurrent analyses.
type BlockSizeDescriptor struct {
	BlockX int
	BlockY int
	BlockZ int

	// TexelCount is BlockX * BlockY * BlockZ.
	TexelCount int
}

// NewBlockSizeDescriptor validates dims against the ASTC footprint list and
// returns a descriptor for them.
func NewBlockSizeDescriptor(blockX, blockY, blockZ int) (*BlockSizeDescriptor, error) {
	if err := validateBlockSize(blockX, blockY, blockZ); err != nil {
		return nil, err
	}
	return &BlockSizeDescriptor{
		BlockX:     blockX,
		BlockY:     blockY,
		BlockZ:     blockZ,
		TexelCount: blockX * blockY * blockZ,
	}, nil
}

func validateBlockSize(blockX, blockY, blockZ int) error {
	if blockX <= 0 || blockY <= 0 || blockZ <= 0 {
		return newError(ErrBadBlockSize, "astc: invalid block dimensions")
	}
	if blockX*blockY*blockZ > blockMaxTexels {
		return newError(ErrBadBlockSize, "astc: invalid block dimensions")
	}
	if blockZ <= 1 {
		if !isLegal2DBlockSize(blockX, blockY) {
			return newError(ErrBadBlockSize, "astc: invalid block dimensions")
		}
		return nil
	}
	if !isLegal3DBlockSize(blockX, blockY, blockZ) {
		return newError(ErrBadBlockSize, "astc: invalid block dimensions")
	}
	return nil
}

func isLegal2DBlockSize(xdim, ydim int) bool {
	switch (xdim << 8) | ydim {
	case 0x0404,
		0x0504,
		0x0505,
		0x0605,
		0x0606,
		0x0805,
		0x0806,
		0x0808,
		0x0A05,
		0x0A06,
		0x0A08,
		0x0A0A,
		0x0C0A,
		0x0C0C:
		return true
	default:
		return false
	}
}

func isLegal3DBlockSize(xdim, ydim, zdim int) bool {
	switch (xdim << 16) | (ydim << 8) | zdim {
	case 0x030303,
		0x040303,
		0x040403,
		0x040404,
		0x050404,
		0x050504,
		0x050505,
		0x060505,
		0x060605,
		0x060606:
		return true
	default:
		return false
	}
}
