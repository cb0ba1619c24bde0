package astc

// Profile controls how input texels are expanded into the 0..65535 working
// scale the analysis runs on, and whether alpha is carried in LNS form.
//
// The ASTC format itself does not store a profile; it is a usage convention
// the caller must supply, exactly as in the reference astcenc library.
type Profile uint8

const (
	// ProfileLDR analyzes using linear LDR rules.
	ProfileLDR Profile = iota
	// ProfileLDRSRGB analyzes using sRGB LDR rules.
	ProfileLDRSRGB
	// ProfileHDRRGBLDRAlpha analyzes using HDR RGB and LDR alpha rules.
	ProfileHDRRGBLDRAlpha
	// ProfileHDR analyzes using HDR RGBA rules.
	ProfileHDR
)

func validateProfile(profile Profile) error {
	switch profile {
	case ProfileLDR, ProfileLDRSRGB, ProfileHDRRGBLDRAlpha, ProfileHDR:
		return nil
	default:
		return newError(ErrBadProfile, "astc: invalid profile")
	}
}
