package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/texeltools/astcchoice/astc"

	_ "image/jpeg"
	_ "image/png"

	_ "github.com/xfmoulet/qoi"
)

func main() {
	var (
		inPath     string
		reportPath string
		block      string
		profile    string
		partitions int
		indices    int
		dualplane  float64
	)
	flag.StringVar(&inPath, "in", "", "input image (png, jpeg or qoi)")
	flag.StringVar(&reportPath, "report", "", "write a per-block report (compressed with zstd when the name ends in .zst)")
	flag.StringVar(&block, "block", "4x4", "ASTC block footprint (e.g. 4x4)")
	flag.StringVar(&profile, "profile", "ldr", "analysis profile: ldr|srgb|hdr|hdr-rgb-ldr-a")
	flag.IntVar(&partitions, "partitions", 2, "maximum partition count to probe (1-4)")
	flag.IntVar(&indices, "indices", 8, "partition indices probed per partition count")
	flag.Float64Var(&dualplane, "dualplane", 0.98, "dual-plane correlation threshold (0 disables the probe)")
	flag.Parse()

	if inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: astcchoice -in <image> [-block 4x4] [-partitions N] [-report out.txt[.zst]]")
		os.Exit(2)
	}

	inData, err := os.ReadFile(inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	bx, by, err := parseBlock(block)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	profileVal, err := parseProfile(profile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	img, _, err := image.Decode(bytes.NewReader(inData))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)

	res, err := astc.AnalyzeImage(rgba.Pix, rgba.Rect.Dx(), rgba.Rect.Dy(), astc.AnalyzeConfig{
		Profile:                       profileVal,
		BlockX:                        bx,
		BlockY:                        by,
		MaxPartitionCount:             partitions,
		PartitionIndexLimit:           indices,
		DualPlaneCorrelationThreshold: dualplane,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	printSummary(os.Stdout, res)

	if reportPath != "" {
		if err := writeReport(reportPath, res); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func printSummary(w io.Writer, res *astc.ImageAnalysis) {
	var (
		constant  int
		records   int
		offsetOK  int
		bcOK      int
		dualPlane int

		sumScale float64
		sumLuma  float64
		sumLum   float64
		sumADrop float64
	)

	for i := range res.Blocks {
		ba := &res.Blocks[i]
		if ba.Constant {
			constant++
			continue
		}
		for _, c := range ba.Choices {
			if c.SeparateComponent >= 0 {
				dualPlane++
			}
			for p := 0; p < c.PartitionCount; p++ {
				e := c.Errors[p]
				records++
				if e.CanOffsetEncode {
					offsetOK++
				}
				if e.CanBlueContract {
					bcOK++
				}
				sumScale += float64(e.RGBScaleError)
				sumLuma += float64(e.RGBLumaError)
				sumLum += float64(e.LuminanceError)
				sumADrop += float64(e.AlphaDropError)
			}
		}
	}

	fmt.Fprintf(w, "blocks: %d (%dx%d), constant: %d\n", len(res.Blocks), res.BlocksX, res.BlocksY, constant)
	fmt.Fprintf(w, "partition records: %d, dual-plane candidates priced: %d\n", records, dualPlane)
	if records > 0 {
		n := float64(records)
		fmt.Fprintf(w, "mean rgb-scale error:  %.4g\n", sumScale/n)
		fmt.Fprintf(w, "mean rgb-luma error:   %.4g\n", sumLuma/n)
		fmt.Fprintf(w, "mean luminance error:  %.4g\n", sumLum/n)
		fmt.Fprintf(w, "mean alpha-drop error: %.4g\n", sumADrop/n)
		fmt.Fprintf(w, "offset-encodable: %.1f%%, blue-contractable: %.1f%%\n",
			100*float64(offsetOK)/n, 100*float64(bcOK)/n)
	}
}

func writeReport(path string, res *astc.ImageAnalysis) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var zw *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		zw, err = zstd.NewWriter(f)
		if err != nil {
			return err
		}
		w = zw
	}

	bw := bufio.NewWriter(w)
	for i := range res.Blocks {
		ba := &res.Blocks[i]
		if ba.Constant {
			fmt.Fprintf(bw, "block %d,%d constant\n", ba.X, ba.Y)
			continue
		}
		for _, c := range ba.Choices {
			for p := 0; p < c.PartitionCount; p++ {
				e := c.Errors[p]
				fmt.Fprintf(bw, "block %d,%d pc=%d idx=%d sep=%d part=%d scale=%g luma=%g lum=%g adrop=%g offset=%t bc=%t\n",
					ba.X, ba.Y, c.PartitionCount, c.PartitionIndex, c.SeparateComponent, p,
					e.RGBScaleError, e.RGBLumaError, e.LuminanceError, e.AlphaDropError,
					e.CanOffsetEncode, e.CanBlueContract)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if zw != nil {
		return zw.Close()
	}
	return nil
}

func parseBlock(s string) (x, y int, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid -block %q (want like 4x4)", s)
	}
	_, err = fmt.Sscanf(s, "%dx%d", &x, &y)
	if err != nil || x <= 0 || y <= 0 || x > 255 || y > 255 {
		return 0, 0, fmt.Errorf("invalid -block %q (want like 4x4)", s)
	}
	return x, y, nil
}

func parseProfile(s string) (astc.Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ldr":
		return astc.ProfileLDR, nil
	case "srgb", "ldr-srgb":
		return astc.ProfileLDRSRGB, nil
	case "hdr", "hdr-rgba":
		return astc.ProfileHDR, nil
	case "hdr-rgb-ldr-a", "hdr-rgb-ldr-alpha":
		return astc.ProfileHDRRGBLDRAlpha, nil
	default:
		return 0, fmt.Errorf("invalid -profile %q (want ldr|srgb|hdr|hdr-rgb-ldr-a)", s)
	}
}
