package tool

// Well-known tools with their default executables.

// SVGO returns the SVG optimizer used for identifier namespacing.
func SVGO(bin string) Tool {
	return Tool{
		Name: "SVG optimizer",
		Bin:  orDefault(bin, "svgo"),
		Hint: "  npm install -g svgo",
	}
}

// RSVG returns the librsvg rasterizer.
func RSVG(bin string) Tool {
	return Tool{
		Name: "SVG rasterizer",
		Bin:  orDefault(bin, "rsvg-convert"),
		Hint: "  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin",
	}
}

// Magick returns the ImageMagick converter. ImageMagick 6 only ships
// "convert", which accepts the same arguments for our use.
func Magick(bin string) Tool {
	t := Tool{
		Name: "raster converter",
		Bin:  orDefault(bin, "magick"),
		Hint: "  macOS:  brew install imagemagick\n  Linux:  apt install imagemagick",
	}
	if bin == "" {
		t.Alt = []string{"convert"}
	}
	return t
}

// Iconutil returns the macOS icon packer. It only exists on macOS.
func Iconutil(bin string) Tool {
	return Tool{
		Name: "macOS icon packer",
		Bin:  orDefault(bin, "iconutil"),
		Hint: "  ships with Xcode command line tools (macOS only)",
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
