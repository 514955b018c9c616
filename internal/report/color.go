package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"report-forge/internal/model"
)

// DominantColor estimates a representative brand color from a logo image.
// It samples every 10th pixel and ignores pixels that are mostly
// transparent, near-white, near-black, or near-gray, then averages the
// survivors. A heuristic, not true dominant-color extraction; if nothing
// survives the filter the default brand color is returned.
func DominantColor(img image.Image) string {
	bounds := img.Bounds()
	var rSum, gSum, bSum, count int64
	idx := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			idx++
			if idx%10 != 0 {
				continue
			}
			r16, g16, b16, a16 := img.At(x, y).RGBA()
			if a16 < 0x8000 {
				continue
			}
			r, g, b := int64(r16>>8), int64(g16>>8), int64(b16>>8)
			brightness := (r + g + b) / 3
			spread := max3(abs64(r-g), abs64(g-b), abs64(b-r))
			if brightness > 240 || brightness < 15 || spread < 15 {
				continue
			}
			rSum += r
			gSum += g
			bSum += b
			count++
		}
	}
	if count == 0 {
		return model.DefaultBrandColor
	}
	return fmt.Sprintf("#%02x%02x%02x", rSum/count, gSum/count, bSum/count)
}

// DominantColorFromBytes decodes raw image data and samples it. Undecodable
// data falls back to the default brand color.
func DominantColorFromBytes(data []byte) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return model.DefaultBrandColor
	}
	return DominantColor(img)
}

// hexToRGB parses a #rrggbb string, falling back to the default navy.
func hexToRGB(hex string) (int, int, int) {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return 15, 23, 42
	}
	return r, g, b
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func max3(a, b, c int64) int64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
