package namespace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kando-menu/design/pkg/tool"
)

// SVGO namespaces documents with the svgo optimizer. The document is also
// minified with svgo's default preset and pretty-printed.
type SVGO struct {
	Tool tool.Tool
}

// svgoConfig is written next to each input. cleanupIds stays off so ids
// keep their source names after prefixing; removeViewBox stays off because
// the inset transform relies on the 256 unit viewBox.
const svgoConfig = `module.exports = {
  multipass: false,
  js2svg: { pretty: true, indent: 2 },
  plugins: [
    {
      name: 'preset-default',
      params: { overrides: { cleanupIds: false, removeViewBox: false } },
    },
    { name: 'prefixIds', params: { prefix: %s, delim: '' } },
  ],
};
`

// Namespace runs svgo on path in place.
func (s SVGO) Namespace(ctx context.Context, path, prefix string) error {
	cfg := strings.TrimSuffix(path, filepath.Ext(path)) + ".svgo.config.cjs"
	if err := os.WriteFile(cfg, []byte(fmt.Sprintf(svgoConfig, strconv.Quote(prefix))), 0644); err != nil {
		return err
	}
	defer os.Remove(cfg)

	_, err := s.Tool.Run(ctx, nil, "--config", cfg, "--input", path, "--output", path)
	return err
}
